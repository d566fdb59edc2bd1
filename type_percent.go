package folio

import "fmt"

// Percent is a percentage: 2.5 means 2.5%.
type Percent float64

// Equal compares percentages up to a ten thousandth of a percent.
func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

// SignedString formats p with an explicit sign, zero is represented as "-".
func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}

// percentOf returns part/whole as a percentage, or 0 when whole is zero.
func percentOf(part, whole Money) Percent {
	if whole.IsZero() {
		return 0
	}
	return Percent(part.value.Div(whole.value).Shift(2).InexactFloat64())
}
