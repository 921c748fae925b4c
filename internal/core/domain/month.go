package domain

import (
	"fmt"
	"time"
)

// CompetencyMonth is the accounting period (YYYY-MM) a posting or statement belongs to,
// independent of the payment date.
type CompetencyMonth struct {
	Year  int
	Month time.Month
}

// NewCompetencyMonth builds a month, rejecting out-of-range values.
func NewCompetencyMonth(year, month int) (CompetencyMonth, error) {
	if month < 1 || month > 12 {
		return CompetencyMonth{}, fmt.Errorf("invalid month %d", month)
	}
	if year < 1900 || year > 9999 {
		return CompetencyMonth{}, fmt.Errorf("invalid year %d", year)
	}
	return CompetencyMonth{Year: year, Month: time.Month(month)}, nil
}

// ParseCompetencyMonth parses the "YYYY-MM" form.
func ParseCompetencyMonth(s string) (CompetencyMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return CompetencyMonth{}, fmt.Errorf("invalid competency month %q: expected YYYY-MM", s)
	}
	return CompetencyMonth{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf returns the competency month containing t.
func MonthOf(t time.Time) CompetencyMonth {
	return CompetencyMonth{Year: t.Year(), Month: t.Month()}
}

func (m CompetencyMonth) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// IsZero reports whether m was never set.
func (m CompetencyMonth) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// Start is the first instant of the month in UTC.
func (m CompetencyMonth) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the first instant of the following month (exclusive bound).
func (m CompetencyMonth) End() time.Time {
	return m.Start().AddDate(0, 1, 0)
}

// LastDay is the last calendar day of the month, used as the booking date of closing postings.
func (m CompetencyMonth) LastDay() time.Time {
	return m.End().AddDate(0, 0, -1)
}

// AddMonths shifts the month by n (negative values go back in time).
func (m CompetencyMonth) AddMonths(n int) CompetencyMonth {
	return MonthOf(m.Start().AddDate(0, n, 0))
}

// Contains reports whether t falls within the month.
func (m CompetencyMonth) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(m.Start()) && t.Before(m.End())
}

// Before reports whether m is strictly earlier than o.
func (m CompetencyMonth) Before(o CompetencyMonth) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// MarshalText implements encoding.TextMarshaler so months serialize as "YYYY-MM".
func (m CompetencyMonth) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *CompetencyMonth) UnmarshalText(b []byte) error {
	parsed, err := ParseCompetencyMonth(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
