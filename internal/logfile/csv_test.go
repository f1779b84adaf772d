package logfile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/answer-sessions/internal/generator"
	"github.com/PratikDhanave/answer-sessions/internal/models"
	"github.com/PratikDhanave/answer-sessions/internal/pipeline"
)

const sample = "\ufeff,user,event_id,sent_at,question_id\n" +
	"0,42,E1,2021-03-07T09:15:00,Q9\n" +
	"1,42,E1,2021-03-07T15:00:00,Q10\n"

func TestReadTable_ThenEnrich(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, []string{"", "user", "event_id", "sent_at", "question_id"}, tbl.Header)
	require.Len(t, tbl.Rows, 2)

	out, err := pipeline.EnrichTable(tbl)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteEnriched(&buf, out))
	assert.Equal(t,
		"user,event_id,date,year,month,day,time,period,session_id\n"+
			"42,E1,2021-03-07,2021,3,7,09:15:00,Morning,E1_2021-03-07_Morning\n"+
			"42,E1,2021-03-07,2021,3,7,15:00:00,Afternoon,E1_2021-03-07_Afternoon\n",
		buf.String())
}

func TestReadTable_Empty(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, tbl.Header)
}

func TestWriteRaw_RoundTripsThroughBind(t *testing.T) {
	recs := []models.RawLogRecord{{User: "1", EventID: "E, with comma", SentAt: "2021-01-01T00:00:00", QuestionID: "Q"}}

	var buf bytes.Buffer
	require.NoError(t, WriteRaw(&buf, recs))

	tbl, err := ReadTable(&buf)
	require.NoError(t, err)
	got, err := pipeline.Bind(tbl)
	require.NoError(t, err)
	assert.Equal(t, recs, got)
}

func TestWriteSynthetic(t *testing.T) {
	g, err := generator.NewSeeded(generator.DefaultConfig(), 1)
	require.NoError(t, err)
	recs := g.Generate()

	var buf bytes.Buffer
	require.NoError(t, WriteSynthetic(&buf, recs))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(recs)+1)
	assert.Equal(t, "user,event_id,date,period,month,session_id", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], recs[0].SessionID))
	assert.Contains(t, lines[1], ",2021-01-01,")
}
