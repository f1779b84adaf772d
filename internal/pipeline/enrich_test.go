package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/PratikDhanave/answer-sessions/internal/apperr"
	"github.com/PratikDhanave/answer-sessions/internal/models"
	"github.com/PratikDhanave/answer-sessions/internal/session"
)

func raw(user, event, sentAt string) models.RawLogRecord {
	return models.RawLogRecord{User: models.UserID(user), EventID: event, SentAt: sentAt, QuestionID: "Q"}
}

func TestEnrich_EndToEndExample(t *testing.T) {
	in := []models.RawLogRecord{{User: "42", EventID: "E1", SentAt: "2021-03-07T09:15:00", QuestionID: "Q9"}}

	out, err := Enrich(in)
	require.NoError(t, err)
	require.Len(t, out, 1)

	got := out[0]
	assert.Equal(t, models.UserID("42"), got.User)
	assert.Equal(t, "E1", got.EventID)
	assert.Equal(t, "2021-03-07", got.Date.String())
	assert.Equal(t, 2021, got.Year)
	assert.Equal(t, 3, got.Month)
	assert.Equal(t, 7, got.Day)
	assert.Equal(t, "09:15:00", got.Time.String())
	assert.Equal(t, session.Morning, got.Period)
	assert.Equal(t, "E1_2021-03-07_Morning", got.SessionID)
}

func TestEnrich_PreservesLengthAndOrder(t *testing.T) {
	in := []models.RawLogRecord{
		raw("1", "A", "2021-01-02 13:00:00"),
		raw("2", "B", "2021-01-01T08:00:00Z"),
		raw("3", "A", "2021-01-02T12:59:59"),
	}
	before := append([]models.RawLogRecord(nil), in...)

	out, err := Enrich(in)
	require.NoError(t, err)
	require.Len(t, out, len(in))
	assert.Equal(t, before, in, "input must not be mutated")

	assert.Equal(t, "A_2021-01-02_Afternoon", out[0].SessionID)
	assert.Equal(t, "B_2021-01-01_Morning", out[1].SessionID)
	assert.Equal(t, "A_2021-01-02_Morning", out[2].SessionID)
	for i := range in {
		assert.Equal(t, in[i].User, out[i].User)
	}
}

func TestEnrich_SessionIDEqualIffSameTriple(t *testing.T) {
	in := []models.RawLogRecord{
		raw("1", "A", "2021-05-01T08:00:00"),
		raw("2", "A", "2021-05-01T12:30:00"),
		raw("3", "A", "2021-05-01T14:00:00"),
		raw("4", "B", "2021-05-01T08:00:00"),
		raw("5", "A", "2021-05-02T08:00:00"),
	}
	out, err := Enrich(in)
	require.NoError(t, err)

	for i := range out {
		for j := range out {
			same := out[i].EventID == out[j].EventID &&
				out[i].Date.Equal(out[j].Date.Time) &&
				out[i].Period == out[j].Period
			assert.Equal(t, same, out[i].SessionID == out[j].SessionID, "rows %d,%d", i, j)
		}
	}
}

func TestEnrich_ParseErrorAbortsBatch(t *testing.T) {
	in := []models.RawLogRecord{
		raw("1", "A", "2021-05-01T08:00:00"),
		raw("2", "A", "not-a-date"),
		raw("3", "A", "2021-05-01T08:00:00"),
	}

	out, err := Enrich(in)
	require.Error(t, err)
	assert.Nil(t, out)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 1, pe.Row)
	assert.Equal(t, "not-a-date", pe.Value)
	assert.Equal(t, apperr.CodeParse, apperr.CodeOf(err))
}

func TestEnrich_TimezoneKeepsWallClock(t *testing.T) {
	out, err := Enrich([]models.RawLogRecord{raw("1", "A", "2021-05-01T23:30:00+02:00")})
	require.NoError(t, err)
	assert.Equal(t, "2021-05-01", out[0].Date.String())
	assert.Equal(t, session.Afternoon, out[0].Period)
}

func TestEnrich_CompactOffsetKeepsWallClock(t *testing.T) {
	out, err := Enrich([]models.RawLogRecord{raw("1", "A", "2021-03-07T12:30:00+0200")})
	require.NoError(t, err)
	assert.Equal(t, "2021-03-07", out[0].Date.String())
	assert.Equal(t, "12:30:00", out[0].Time.String())
	assert.Equal(t, session.Morning, out[0].Period)
}

func TestParseTimestamp_Layouts(t *testing.T) {
	cases := map[string]time.Time{
		"2021-03-07T09:15:00":         time.Date(2021, 3, 7, 9, 15, 0, 0, time.UTC),
		"2021-03-07 09:15:00":         time.Date(2021, 3, 7, 9, 15, 0, 0, time.UTC),
		"2021-03-07T09:15:00.250":     time.Date(2021, 3, 7, 9, 15, 0, 250_000_000, time.UTC),
		"2021-03-07T09:15:00Z":        time.Date(2021, 3, 7, 9, 15, 0, 0, time.UTC),
		"2021-03-07 09:15:00.5+00:00": time.Date(2021, 3, 7, 9, 15, 0, 500_000_000, time.UTC),
		"2021-03-07T09:15":            time.Date(2021, 3, 7, 9, 15, 0, 0, time.UTC),
		"2021-03-07":                  time.Date(2021, 3, 7, 0, 0, 0, 0, time.UTC),
		"  2021-03-07T09:15:00  ":     time.Date(2021, 3, 7, 9, 15, 0, 0, time.UTC),
		"2021-03-07T09:15:00+0200":    time.Date(2021, 3, 7, 7, 15, 0, 0, time.UTC),
		"2021-03-07 09:15:00.5-0130":  time.Date(2021, 3, 7, 10, 45, 0, 500_000_000, time.UTC),
	}
	for in, want := range cases {
		got, err := ParseTimestamp(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%q: got %v", in, got)
	}

	for _, bad := range []string{"", "not-a-date", "2021-13-01", "07/03/2021"} {
		_, err := ParseTimestamp(bad)
		assert.Error(t, err, bad)
	}
}

func TestEnrichLenient_SkipsAndLogs(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	in := []models.RawLogRecord{
		raw("1", "A", "bad"),
		raw("2", "A", "2021-05-01T08:00:00"),
		raw("3", "A", "also bad"),
		raw("4", "B", "2021-05-01T15:00:00"),
	}
	out, skipped := EnrichLenient(in, zap.New(core))

	require.Len(t, out, 2)
	assert.Equal(t, models.UserID("2"), out[0].User)
	assert.Equal(t, models.UserID("4"), out[1].User)

	require.Len(t, skipped, 2)
	assert.Equal(t, 0, skipped[0].Row)
	assert.Equal(t, 2, skipped[1].Row)
	assert.Contains(t, skipped.Error(), "and 1 more rows")
	assert.Equal(t, 2, logs.Len())
}

func TestEnrichLenient_NilLogger(t *testing.T) {
	out, skipped := EnrichLenient([]models.RawLogRecord{raw("1", "A", "2021-05-01")}, nil)
	assert.Len(t, out, 1)
	assert.Empty(t, skipped)
}
