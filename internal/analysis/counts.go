// Package analysis counts sessions over enriched or synthetic records.
package analysis

import (
	"sort"
	"strconv"

	"github.com/PratikDhanave/answer-sessions/internal/apperr"
	"github.com/PratikDhanave/answer-sessions/internal/models"
)

// SessionRow is the projection every count works on.
type SessionRow struct {
	User      string
	SessionID string
	Month     int
}

// FromEnriched projects enriched records.
func FromEnriched(recs []models.EnrichedLogRecord) []SessionRow {
	out := make([]SessionRow, len(recs))
	for i, r := range recs {
		out[i] = SessionRow{User: string(r.User), SessionID: r.SessionID, Month: r.Month}
	}
	return out
}

// FromSynthetic projects generated records.
func FromSynthetic(recs []models.SyntheticLogRecord) []SessionRow {
	out := make([]SessionRow, len(recs))
	for i, r := range recs {
		out[i] = SessionRow{User: string(r.User), SessionID: r.SessionID, Month: r.Month}
	}
	return out
}

type SessionCount struct {
	SessionID string `json:"session_id"`
	Answers   int    `json:"answers"`
}

// AnswersPerSession counts rows per session id, largest first.
// Equal counts are ordered by session id descending.
func AnswersPerSession(rows []SessionRow) []SessionCount {
	counts := map[string]int{}
	for _, r := range rows {
		counts[r.SessionID]++
	}
	out := make([]SessionCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, SessionCount{SessionID: id, Answers: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Answers != out[j].Answers {
			return out[i].Answers > out[j].Answers
		}
		return out[i].SessionID > out[j].SessionID
	})
	return out
}

type MonthCount struct {
	Month    int `json:"month"`
	Sessions int `json:"sessions"`
}

// UserActivity is one ranked user with distinct session counts per month.
type UserActivity struct {
	User     string       `json:"user"`
	Sessions int          `json:"sessions"`
	Months   []MonthCount `json:"months"`
}

// TopUsersByMonth ranks users by distinct session ids and returns the top n,
// each with its distinct sessions per month in ascending month order.
// Ties in the ranking go to the smaller user id, compared as integers when
// both ids are numeric.
func TopUsersByMonth(rows []SessionRow, n int) ([]UserActivity, error) {
	if n < 1 {
		return nil, apperr.NewValueError("n", n, "must be >= 1")
	}

	type monthKey struct {
		month   int
		session string
	}
	total := map[string]map[string]struct{}{}
	monthly := map[string]map[monthKey]struct{}{}
	for _, r := range rows {
		if total[r.User] == nil {
			total[r.User] = map[string]struct{}{}
			monthly[r.User] = map[monthKey]struct{}{}
		}
		total[r.User][r.SessionID] = struct{}{}
		monthly[r.User][monthKey{r.Month, r.SessionID}] = struct{}{}
	}

	ranked := make([]UserActivity, 0, len(total))
	for user, sessions := range total {
		ranked = append(ranked, UserActivity{User: user, Sessions: len(sessions)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Sessions != ranked[j].Sessions {
			return ranked[i].Sessions > ranked[j].Sessions
		}
		return userLess(ranked[i].User, ranked[j].User)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	for i := range ranked {
		perMonth := map[int]int{}
		for k := range monthly[ranked[i].User] {
			perMonth[k.month]++
		}
		months := make([]MonthCount, 0, len(perMonth))
		for m, c := range perMonth {
			months = append(months, MonthCount{Month: m, Sessions: c})
		}
		sort.Slice(months, func(a, b int) bool { return months[a].Month < months[b].Month })
		ranked[i].Months = months
	}
	return ranked, nil
}

func userLess(a, b string) bool {
	x, errA := strconv.ParseInt(a, 10, 64)
	y, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil && x != y {
		return x < y
	}
	return a < b
}
