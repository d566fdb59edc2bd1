package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/folio/date"
	"github.com/etnz/folio/docs"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// Portfolio answers the analyst's questions with markdown reports.
type Portfolio interface {
	Holdings(ctx context.Context) (string, error)
	Quotes(ctx context.Context, symbols []string) (string, error)
	History(ctx context.Context, w date.Window) (string, error)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func instruction(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}

// creates the facilitator
func newFacilitator(log zerolog.Logger, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: instruction(`
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and keep context of your previous questions.

			The user is here primarily to get news or information about the stocks in their portfolio.
			Devise a plan of questions to ask to each expert and come up with the best response to the user's request.

			The user will assume that you know about their tickers, check the portfolio first to understand what they are.
		`),
		},
		Library: NewLibrary(experts),
		Log:     log,
	}
}

// NewTrader returns an expert grounded on Google Search.
func NewTrader(log zerolog.Logger) *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader,
		very well aware of the financial products and institutions,
		and of the latest news about companies and funds.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: instruction(`
			You are an expert in trading, you can search and find about anything related to
			financial institutions, companies, markets and funds. You leverage Google Search to
			ground your assertions.
			You can get the latest news too, and you know how to relate them to the user's request.
			`),
		},
		Log: log,
	}
}

// NewAnalyst returns the expert in charge of the user's portfolio.
func NewAnalyst(p Portfolio, log zerolog.Logger) *Expert {
	lib := AnalystTools(p)
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. They are in charge of the user's stock portfolio.
		They know the positions held, their cost, current value, gains and how the portfolio value evolved.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: instruction(`
			You are an analyst in charge of the user's stock portfolio.
			You know how to use the Tools to extract relevant information about the user's portfolio.
			You are part of a team of experts, yours is everything about the user's portfolio. They might ask
			you questions in an approximative language, figure out what they meant.

			Use the available tools to get
			  - holdings, with cost basis, market value and gains
			  - the latest quotes of some symbols
			  - the evolution of the portfolio value over a window
			`),
		},
		Library: NewLibrary(lib),
		Log:     log,
	}
}

// AnalystTools returns the functions the analyst can call on p.
func AnalystTools(p Portfolio) []*Func {
	return []*Func{
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Holdings",
				Description: "Holdings lists the positions of the portfolio aggregated by symbol, with quantity, cost basis, price, market value, gain and day's change.",
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A markdown report with a summary table and a table of holdings.",
				},
			},
			Func: func(ctx context.Context, _ map[string]any) (string, error) {
				return p.Holdings(ctx)
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Quotes",
				Description: "Quotes returns the latest price and day's change of some stock symbols.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"symbols": {
							Type:        genai.TypeArray,
							Items:       &genai.Schema{Type: genai.TypeString},
							Description: "The stock symbols, like AAPL or MSFT.",
						},
					},
					Required: []string{"symbols"},
				},
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A markdown table of quotes.",
				},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				symbols, err := parseSymbols(args)
				if err != nil {
					return "", err
				}
				return p.Quotes(ctx, symbols)
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "History",
				Description: "History returns the daily value of the portfolio over a time window.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"window": {
							Type:        genai.TypeString,
							Enum:        Windows(),
							Description: "The time window, 1M by default.\n\n" + must(docs.GetTopic("windows")),
						},
					},
				},
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A markdown report of the portfolio value per day.",
				},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				w, err := parseWindow(args)
				if err != nil {
					return "", err
				}
				return p.History(ctx, w)
			},
		},
	}
}

func parseSymbols(args map[string]any) ([]string, error) {
	raw, ok := args["symbols"].([]any)
	if !ok {
		return nil, fmt.Errorf("argument 'symbols' is not a list as expected but %T", args["symbols"])
	}
	symbols := make([]string, 0, len(raw))
	for _, s := range raw {
		str, ok := s.(string)
		if !ok {
			return nil, fmt.Errorf("argument 'symbols' must contain strings, got %T", s)
		}
		symbols = append(symbols, str)
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("argument 'symbols' is empty")
	}
	return symbols, nil
}

func parseWindow(args map[string]any) (date.Window, error) {
	iw, has := args["window"]
	if !has {
		return date.OneMonth, nil
	}
	sw, ok := iw.(string)
	if !ok {
		return date.OneMonth, fmt.Errorf("argument 'window' is not a string as expected but %T", iw)
	}
	w, err := date.ParseWindow(sw)
	if err != nil {
		return date.OneMonth, fmt.Errorf("argument 'window' must be one of %s, got %q", strings.Join(Windows(), ", "), sw)
	}
	return w, nil
}

// Windows lists the window names the tools accept.
func Windows() []string {
	names := make([]string, len(date.Windows))
	for i, w := range date.Windows {
		names[i] = w.String()
	}
	return names
}
