// Package pipeline turns raw answer records into session-tagged records.
package pipeline

import (
	"go.uber.org/zap"

	"github.com/PratikDhanave/answer-sessions/internal/models"
	"github.com/PratikDhanave/answer-sessions/internal/session"
)

// Enrich derives date parts, period and session id for every record.
// Output row i corresponds to input row i. The first unparsable sent_at
// aborts the batch with a *ParseError and no output.
func Enrich(in []models.RawLogRecord) ([]models.EnrichedLogRecord, error) {
	out := make([]models.EnrichedLogRecord, len(in))
	for i, rec := range in {
		e, err := enrichOne(i, rec)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// EnrichLenient enriches what it can and skips rows whose sent_at does not
// parse. Skipped rows are logged and returned as RowErrors; survivors keep
// their relative order.
func EnrichLenient(in []models.RawLogRecord, log *zap.Logger) ([]models.EnrichedLogRecord, RowErrors) {
	if log == nil {
		log = zap.NewNop()
	}
	out := make([]models.EnrichedLogRecord, 0, len(in))
	var skipped RowErrors
	for i, rec := range in {
		e, err := enrichOne(i, rec)
		if err != nil {
			log.Warn("skipping unparsable row", zap.Int("row", err.Row), zap.String("sent_at", err.Value))
			skipped = append(skipped, err)
			continue
		}
		out = append(out, e)
	}
	return out, skipped
}

// EnrichTable binds t and enriches the result.
func EnrichTable(t Table) ([]models.EnrichedLogRecord, error) {
	raw, err := Bind(t)
	if err != nil {
		return nil, err
	}
	return Enrich(raw)
}

func enrichOne(row int, rec models.RawLogRecord) (models.EnrichedLogRecord, *ParseError) {
	ts, err := ParseTimestamp(rec.SentAt)
	if err != nil {
		return models.EnrichedLogRecord{}, &ParseError{Row: row, Value: rec.SentAt, Cause: err}
	}
	date := models.NewDate(ts)
	period := session.Classify(ts)
	return models.EnrichedLogRecord{
		User:      rec.User,
		EventID:   rec.EventID,
		Date:      date,
		Year:      ts.Year(),
		Month:     int(ts.Month()),
		Day:       ts.Day(),
		Time:      models.ClockOf(ts),
		Period:    period,
		SessionID: session.Key(rec.EventID, date.Time, period),
	}, nil
}
