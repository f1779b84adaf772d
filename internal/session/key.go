package session

import (
	"strings"
	"time"
)

// DateLayout is the zero-padded calendar date format used inside session ids.
const DateLayout = "2006-01-02"

const separator = "_"

// Key builds the session id for (eventID, date, p):
//
//	<event_id>_<YYYY-MM-DD>_<period>
//
// Only the calendar date of date is used. The key is unique per group but is
// not meant to be parsed back; event ids containing "_" are accepted.
func Key(eventID string, date time.Time, p Period) string {
	var b strings.Builder
	b.Grow(len(eventID) + len(DateLayout) + len(p) + 2)
	b.WriteString(eventID)
	b.WriteString(separator)
	b.WriteString(date.Format(DateLayout))
	b.WriteString(separator)
	b.WriteString(string(p))
	return b.String()
}
