package date

import "testing"

func TestAppend(t *testing.T) {
	h := new(History[string])
	d1, v1 := New(2025, 07, 01), "25 Jul 1"
	d2, v2 := New(2024, 07, 01), "24 Jul 1"

	// Test is about appending two values in reverse order and checking that everything is
	// as expected at every step of the way.

	if h.Len() != 0 {
		t.Errorf("History.Len() = %v want 0", h.Len())
	}

	h.Append(d1, v1)
	if h.Len() != 1 {
		t.Errorf("Append(d1, v1).Len() = %v want 1", h.Len())
	}

	h.Append(d2, v2)
	if h.Len() != 2 {
		t.Errorf("Append(d2, v2).Len() = %v want 2", h.Len())
	}

	if h.days[1] != d1 {
		t.Errorf("history[1].day = %v want %v", h.days[1], d1)
	}
	if h.days[0] != d2 {
		t.Errorf("history[0].day = %v want %v", h.days[0], d2)
	}
	if h.values[1] != v1 {
		t.Errorf("history[1].value = %v want %v", h.values[1], v1)
	}
	if h.values[0] != v2 {
		t.Errorf("history[0].value = %v want %v", h.values[0], v2)
	}

	// Same day overwrites.
	h.Append(d1, "overwritten")
	if h.Len() != 2 {
		t.Errorf("Append(d1, overwritten).Len() = %v want 2", h.Len())
	}
	if v, _ := h.Get(d1); v != "overwritten" {
		t.Errorf("Get(d1) = %q want %q", v, "overwritten")
	}
}

func TestHistory_ValueAsOf(t *testing.T) {
	var h History[float64]
	h.Append(New(2024, 1, 10), 10).Append(New(2024, 1, 12), 12)

	testCases := []struct {
		on     Date
		want   float64
		wantOk bool
	}{
		{on: New(2024, 1, 9), want: 0, wantOk: false},
		{on: New(2024, 1, 10), want: 10, wantOk: true},
		{on: New(2024, 1, 11), want: 10, wantOk: true},
		{on: New(2024, 1, 12), want: 12, wantOk: true},
		{on: New(2024, 2, 1), want: 12, wantOk: true},
	}
	for _, tc := range testCases {
		got, ok := h.ValueAsOf(tc.on)
		if got != tc.want || ok != tc.wantOk {
			t.Errorf("ValueAsOf(%v) = %v, %v want %v, %v", tc.on, got, ok, tc.want, tc.wantOk)
		}
	}

	if _, ok := h.Get(New(2024, 1, 11)); ok {
		t.Errorf("Get(2024-01-11) found a value, want none")
	}
}

func TestHistory_Nil(t *testing.T) {
	var h *History[float64]
	if h.Len() != 0 {
		t.Errorf("nil History.Len() = %v want 0", h.Len())
	}
	if _, ok := h.ValueAsOf(Today()); ok {
		t.Errorf("nil History.ValueAsOf() found a value")
	}
	for range h.Values() {
		t.Errorf("nil History.Values() yielded a value")
	}
}
