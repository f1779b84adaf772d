// Package session derives the grouping key shared by answers given for the
// same event on the same calendar day and half-day period.
package session

import (
	"fmt"
	"time"
)

// Period is the coarse half-day bucket of a time of day.
type Period string

const (
	Morning   Period = "Morning"
	Afternoon Period = "Afternoon"
)

// afternoonHour is the first hour classified as Afternoon.
const afternoonHour = 13

// ClassifyHour returns Morning for hours before 13 and Afternoon otherwise.
func ClassifyHour(hour int) Period {
	if hour < afternoonHour {
		return Morning
	}
	return Afternoon
}

// Classify returns the period of t's wall clock in its own location.
func Classify(t time.Time) Period {
	return ClassifyHour(t.Hour())
}

// ParsePeriod accepts exactly "Morning" or "Afternoon".
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case Morning, Afternoon:
		return Period(s), nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

func (p Period) String() string { return string(p) }
