package date

import "fmt"

// Range represents a range of dates.
type Range struct{ From, To Date }

// Window returns the range of days within 'days' of d, boundaries included.
func Window(d Date, days int) Range {
	return Range{From: d.Add(-days), To: d.Add(days)}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return (!date.Before(r.From) && !date.After(r.To)) }

// Days returns the number of days in the range, boundaries included.
func (r Range) Days() int { return r.To.Sub(r.From) + 1 }

func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
