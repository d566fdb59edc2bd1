package date

import "fmt"

// Range is the inclusive range of dates covered by a Window.
type Range struct{ From, To Date }

// String formats the range as "from..to".
func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
