package folio

import (
	"encoding/json"
	"testing"
)

func TestJsonObjectWriter(t *testing.T) {
	t.Run("empty object", func(t *testing.T) {
		var w jsonObjectWriter
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "{}"; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("ordered fields", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("b", "hello").Append("a", 1)
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := `{"b":"hello","a":1}`; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("optional fields", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("a", 0) // a zero value is still added by Append.
		w.Optional("b", "")
		w.Optional("c", 0)
		w.Optional("d", nil)
		w.Optional("e", "hello")
		got, err := w.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := `{"a":0,"e":"hello"}`; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("marshal error", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("a", make(chan int))
		w.Append("b", 1)
		if _, err := w.MarshalJSON(); err == nil {
			t.Error("MarshalJSON() expected an error for an unsupported value")
		}
	})
}

func TestMoney_JSON(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{M(12.34, "USD"), `{"currency":"USD","amount":12.34}`},
		{M(1600, "EUR"), `{"currency":"EUR","amount":1600}`},
		{M(5, ""), `{"amount":5}`},
	}
	for _, tt := range tests {
		got, err := json.Marshal(tt.m)
		if err != nil {
			t.Fatalf("json.Marshal(%v) unexpected error: %v", tt.m, err)
		}
		if string(got) != tt.want {
			t.Errorf("json.Marshal(%v) = %s, want %s", tt.m, got, tt.want)
		}
		var back Money
		if err := json.Unmarshal(got, &back); err != nil {
			t.Fatalf("json.Unmarshal(%s) unexpected error: %v", got, err)
		}
		if !back.Equal(tt.m) || back.Currency() != tt.m.Currency() {
			t.Errorf("json.Unmarshal(%s) = %v, want %v", got, back, tt.m)
		}
	}
}

func TestHolding_JSON(t *testing.T) {
	h := Holding{Symbol: "AAPL", TotalQuantity: Q(15), Positions: []Position{{Symbol: "AAPL"}}}
	got, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("json.Marshal() unexpected error: %v", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(got, &fields); err != nil {
		t.Fatalf("json.Unmarshal() unexpected error: %v", err)
	}
	if _, ok := fields["Positions"]; ok {
		t.Error("positions should not be marshalled")
	}
	if q := string(fields["totalQuantity"]); q != "15" {
		t.Errorf("totalQuantity = %s, want 15", q)
	}
	if d := string(fields["initialDate"]); d != "null" {
		t.Errorf("initialDate = %s, want null", d)
	}
}
