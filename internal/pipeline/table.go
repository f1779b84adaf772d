package pipeline

import (
	"strings"

	"github.com/PratikDhanave/answer-sessions/internal/models"
)

// Required input columns, in the order they are reported when missing.
const (
	ColUser       = "user"
	ColEventID    = "event_id"
	ColSentAt     = "sent_at"
	ColQuestionID = "question_id"
)

var requiredColumns = []string{ColUser, ColEventID, ColSentAt, ColQuestionID}

// Table is tabular input as handed over by a loader. Extra columns are ignored.
type Table struct {
	Header []string
	Rows   [][]string
}

// Bind maps table rows onto raw records by column name.
// Nothing is bound if a required column is absent.
func Bind(t Table) ([]models.RawLogRecord, error) {
	idx := make(map[string]int, len(t.Header))
	for i, name := range t.Header {
		name = strings.TrimSpace(name)
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}

	var missing []string
	need := 0
	for _, col := range requiredColumns {
		i, ok := idx[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		if i+1 > need {
			need = i + 1
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing, Row: -1}
	}

	out := make([]models.RawLogRecord, len(t.Rows))
	for r, row := range t.Rows {
		if len(row) < need {
			return nil, &SchemaError{Missing: absentIn(row, idx), Row: r}
		}
		out[r] = models.RawLogRecord{
			User:       models.UserID(row[idx[ColUser]]),
			EventID:    row[idx[ColEventID]],
			SentAt:     row[idx[ColSentAt]],
			QuestionID: row[idx[ColQuestionID]],
		}
	}
	return out, nil
}

func absentIn(row []string, idx map[string]int) []string {
	var out []string
	for _, col := range requiredColumns {
		if idx[col] >= len(row) {
			out = append(out, col)
		}
	}
	return out
}

// RequireFields binds records built without a table header, such as decoded
// JSON. A record with an empty user, event_id or sent_at, or without a
// question_id key, is a *SchemaError. question_id is opaque and may be empty.
func RequireFields(in []models.RawLogInput) ([]models.RawLogRecord, error) {
	out := make([]models.RawLogRecord, len(in))
	for i, r := range in {
		var missing []string
		if r.User == "" {
			missing = append(missing, ColUser)
		}
		if r.EventID == "" {
			missing = append(missing, ColEventID)
		}
		if r.SentAt == "" {
			missing = append(missing, ColSentAt)
		}
		if r.QuestionID == nil {
			missing = append(missing, ColQuestionID)
		}
		if len(missing) > 0 {
			return nil, &SchemaError{Missing: missing, Row: i}
		}
		out[i] = r.Record()
	}
	return out, nil
}
