package agent

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/etnz/folio/date"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// fakePortfolio records the last arguments it was called with.
type fakePortfolio struct {
	symbols []string
	window  date.Window
	err     error
}

func (f *fakePortfolio) Holdings(context.Context) (string, error) { return "# Holdings", f.err }

func (f *fakePortfolio) Quotes(_ context.Context, symbols []string) (string, error) {
	f.symbols = symbols
	return "# Quotes", f.err
}

func (f *fakePortfolio) History(_ context.Context, w date.Window) (string, error) {
	f.window = w
	return "# History", f.err
}

func call(lib Library, name string, args map[string]any) map[string]any {
	return lib(context.Background(), &genai.FunctionCall{ID: "1", Name: name, Args: args}).Response
}

func TestAnalystTools(t *testing.T) {
	p := &fakePortfolio{}
	lib := NewLibrary(AnalystTools(p))

	if got := call(lib, "Holdings", nil); got["output"] != "# Holdings" {
		t.Errorf("Holdings() = %v", got)
	}

	got := call(lib, "Quotes", map[string]any{"symbols": []any{"AAPL", "msft"}})
	if got["output"] != "# Quotes" {
		t.Errorf("Quotes() = %v", got)
	}
	if diff := cmp.Diff([]string{"AAPL", "msft"}, p.symbols); diff != "" {
		t.Errorf("Quotes() symbols mismatch (-want +got):\n%s", diff)
	}

	call(lib, "History", map[string]any{"window": "ytd"})
	if p.window != date.YearToDate {
		t.Errorf("History(ytd) window = %v, want %v", p.window, date.YearToDate)
	}
	call(lib, "History", nil)
	if p.window != date.OneMonth {
		t.Errorf("History() window = %v, want default %v", p.window, date.OneMonth)
	}
}

func TestAnalystTools_Errors(t *testing.T) {
	p := &fakePortfolio{}
	lib := NewLibrary(AnalystTools(p))

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"Quotes", map[string]any{}, "not a list"},
		{"Quotes", map[string]any{"symbols": []any{}}, "is empty"},
		{"Quotes", map[string]any{"symbols": []any{1.0}}, "must contain strings"},
		{"History", map[string]any{"window": "2W"}, "must be one of 1D, 5D, 1M, 6M, YTD, 1Y"},
		{"History", map[string]any{"window": 3.0}, "not a string"},
		{"Unknown", nil, "unknown function Unknown"},
	}
	for _, tt := range tests {
		got := call(lib, tt.name, tt.args)
		msg, _ := got["error"].(string)
		if !strings.Contains(msg, tt.want) {
			t.Errorf("%s(%v) error = %q, want it to contain %q", tt.name, tt.args, msg, tt.want)
		}
	}

	p.err = errors.New("backend down")
	if got := call(lib, "Holdings", nil); got["error"] != "backend down" {
		t.Errorf("Holdings() = %v, want the portfolio error", got)
	}
}

func TestNewDeclaration(t *testing.T) {
	analyst := NewAnalyst(&fakePortfolio{}, zerolog.Nop())
	trader := NewTrader(zerolog.Nop())

	var names []string
	for _, d := range NewDeclaration([]*Expert{analyst, trader}) {
		names = append(names, d.Name)
		if d.Parameters.Required[0] != "question" {
			t.Errorf("%s declaration does not require a question", d.Name)
		}
	}
	if diff := cmp.Diff([]string{"Analyst", "Trader"}, names); diff != "" {
		t.Errorf("NewDeclaration() mismatch (-want +got):\n%s", diff)
	}

	var tools []string
	for _, d := range analyst.Config.Tools[0].FunctionDeclarations {
		tools = append(tools, d.Name)
	}
	if diff := cmp.Diff([]string{"Holdings", "Quotes", "History"}, tools); diff != "" {
		t.Errorf("analyst tools mismatch (-want +got):\n%s", diff)
	}
}

func TestExpert_CallNotStarted(t *testing.T) {
	e := NewTrader(zerolog.Nop())
	resp := e.Call(context.Background(), "1", map[string]any{"question": "news?"})
	if msg, _ := resp.Response["error"].(string); !strings.Contains(msg, "not started") {
		t.Errorf("Call() = %v, want a not started error", resp.Response)
	}
	resp = e.Call(context.Background(), "1", map[string]any{"question": 42})
	if msg, _ := resp.Response["error"].(string); !strings.Contains(msg, "invalid question type") {
		t.Errorf("Call(42) = %v, want an invalid question error", resp.Response)
	}
}

func TestAgent_Print(t *testing.T) {
	var buf bytes.Buffer
	a := New(&buf, strings.NewReader(""), zerolog.Nop())
	a.Render = strings.ToUpper
	a.print(&genai.Content{Parts: []*genai.Part{{Text: "hello "}, {Text: "world"}}})
	if got := buf.String(); got != "HELLO WORLD\n" {
		t.Errorf("print() = %q, want rendered text", got)
	}
}
