// Package logfile reads raw answer logs from CSV and writes derived records back.
package logfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PratikDhanave/answer-sessions/internal/models"
	"github.com/PratikDhanave/answer-sessions/internal/pipeline"
)

var (
	EnrichedHeader  = []string{"user", "event_id", "date", "year", "month", "day", "time", "period", "session_id"}
	SyntheticHeader = []string{"user", "event_id", "date", "period", "month", "session_id"}
)

// ReadTable reads a header line followed by data rows. Rows may have
// varying widths; pipeline.Bind decides whether they are usable.
func ReadTable(r io.Reader) (pipeline.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return pipeline.Table{}, nil
	}
	if err != nil {
		return pipeline.Table{}, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return pipeline.Table{}, fmt.Errorf("read csv rows: %w", err)
	}
	return pipeline.Table{Header: header, Rows: rows}, nil
}

// WriteRaw writes raw records with the columns pipeline.Bind expects.
func WriteRaw(w io.Writer, recs []models.RawLogRecord) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{pipeline.ColUser, pipeline.ColEventID, pipeline.ColSentAt, pipeline.ColQuestionID})
	for _, r := range recs {
		_ = cw.Write([]string{string(r.User), r.EventID, r.SentAt, r.QuestionID})
	}
	cw.Flush()
	return cw.Error()
}

func WriteEnriched(w io.Writer, recs []models.EnrichedLogRecord) error {
	cw := csv.NewWriter(w)
	_ = cw.Write(EnrichedHeader)
	for _, r := range recs {
		_ = cw.Write([]string{
			string(r.User),
			r.EventID,
			r.Date.String(),
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Month),
			strconv.Itoa(r.Day),
			r.Time.String(),
			r.Period.String(),
			r.SessionID,
		})
	}
	cw.Flush()
	return cw.Error()
}

func WriteSynthetic(w io.Writer, recs []models.SyntheticLogRecord) error {
	cw := csv.NewWriter(w)
	_ = cw.Write(SyntheticHeader)
	for _, r := range recs {
		_ = cw.Write([]string{
			string(r.User),
			r.EventID,
			r.Date.String(),
			r.Period.String(),
			strconv.Itoa(r.Month),
			r.SessionID,
		})
	}
	cw.Flush()
	return cw.Error()
}
