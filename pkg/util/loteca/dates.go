package loteca

import (
	"fmt"
	"strings"
	"time"
)

// Date layouts tried in order: day/month/2-digit year, day/month/4-digit year, ISO, month/day/year.
// The unpadded variants cover exports such as "1/3/2013".
var dateLayouts = []string{
	"02/01/06",
	"2/1/06",
	"02/01/2006",
	"2/1/2006",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
}

// ParseMatchDate parses a fixture date, ignoring any time-of-day suffix ("29/03/2003 16:00")
func ParseMatchDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return time.Time{}, fmt.Errorf("cannot parse date: empty value")
	}
	if i := strings.IndexAny(s, " T"); i > 0 {
		s = s[:i]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q", s)
}

// FormatMatchDate renders a date the way the fixture files store it (dd/mm/yy)
func FormatMatchDate(t time.Time) string {
	return t.Format("02/01/06")
}
