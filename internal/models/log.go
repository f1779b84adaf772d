package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/PratikDhanave/answer-sessions/internal/session"
)

// RawLogRecord is one ingested answer before enrichment.
// QuestionID is carried for storage only; enrichment drops it.
type RawLogRecord struct {
	User       UserID `json:"user"`
	EventID    string `json:"event_id"`
	SentAt     string `json:"sent_at"`
	QuestionID string `json:"question_id"`
}

// EnrichedLogRecord is a raw record with derived date parts and its session id.
type EnrichedLogRecord struct {
	User      UserID         `json:"user"`
	EventID   string         `json:"event_id"`
	Date      Date           `json:"date"`
	Year      int            `json:"year"`
	Month     int            `json:"month"`
	Day       int            `json:"day"`
	Time      ClockTime      `json:"time"`
	Period    session.Period `json:"period"`
	SessionID string         `json:"session_id"`
}

// SyntheticLogRecord is one generated session draw.
type SyntheticLogRecord struct {
	User      UserID         `json:"user"`
	EventID   string         `json:"event_id"`
	Date      Date           `json:"date"`
	Period    session.Period `json:"period"`
	Month     int            `json:"month"`
	SessionID string         `json:"session_id"`
}

// UserID is an opaque user identifier. JSON accepts both numbers and strings.
type UserID string

func (u *UserID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*u = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("user must be a string or number: %w", err)
	}
	*u = UserID(n.String())
	return nil
}

// Date is a calendar date. The time part is always midnight.
type Date struct {
	time.Time
}

// NewDate truncates t to midnight in its own location.
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())}
}

func (d Date) String() string { return d.Format(session.DateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON reads the YYYY-MM-DD form written by MarshalJSON, in UTC.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, err := time.Parse(session.DateLayout, s)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	*d = Date{t}
	return nil
}

const clockLayout = "15:04:05"

// ClockTime is a time of day without a date.
type ClockTime struct {
	Hour, Minute, Second int
}

// ClockOf returns t's wall clock.
func ClockOf(t time.Time) ClockTime {
	return ClockTime{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("time must be a string: %w", err)
	}
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return fmt.Errorf("time: %w", err)
	}
	*c = ClockOf(t)
	return nil
}
