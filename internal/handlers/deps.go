package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PratikDhanave/answer-sessions/internal/apperr"
	"github.com/PratikDhanave/answer-sessions/internal/generator"
	"github.com/PratikDhanave/answer-sessions/internal/models"
	"github.com/PratikDhanave/answer-sessions/internal/pipeline"
	"github.com/PratikDhanave/answer-sessions/internal/telemetry"
)

// LogStore is the raw answer log storage the handlers need.
type LogStore interface {
	InsertRawLogs(ctx context.Context, tenantID string, batchID uuid.UUID, recs []models.RawLogRecord) (int64, error)
	ListRawLogs(ctx context.Context, tenantID, eventID string) ([]models.RawLogRecord, error)
}

// Deps is shared by every route.
type Deps struct {
	Store   LogStore
	Metrics *telemetry.Metrics
	Log     *zap.Logger

	// Generator and Seed are the defaults for /synthetic; query params override them.
	Generator generator.Config
	Seed      *uint64
}

func (d *Deps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

// enrich runs the fail-fast pipeline and records the outcome.
func (d *Deps) enrich(recs []models.RawLogRecord) ([]models.EnrichedLogRecord, error) {
	out, err := pipeline.Enrich(recs)
	if d.Metrics != nil {
		if err != nil {
			d.Metrics.PipelineFailures.WithLabelValues(apperr.CodeOf(err)).Inc()
		} else {
			d.Metrics.RecordsEnriched.Add(float64(len(out)))
		}
	}
	return out, err
}

// respondError maps the error taxonomy to 400s and everything else to 500.
// An outer *apperr.AppError decides on its own code, so wrapped pipeline
// errors from stored data stay server faults.
func (d *Deps) respondError(c *gin.Context, msg string, err error) {
	var (
		ae *apperr.AppError
		pe *pipeline.ParseError
		se *pipeline.SchemaError
		ve *apperr.ValueError
	)
	switch {
	case errors.As(err, &ae):
		if ae.Code() == apperr.CodeBadRequest {
			c.JSON(http.StatusBadRequest, gin.H{"error": ae.Message, "code": ae.Code()})
			return
		}
	case errors.As(err, &pe):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": pe.Code(), "row": pe.Row, "value": pe.Value})
		return
	case errors.As(err, &se):
		body := gin.H{"error": err.Error(), "code": se.Code(), "missing": se.Missing}
		if se.Row >= 0 {
			body["row"] = se.Row
		}
		c.JSON(http.StatusBadRequest, body)
		return
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": ve.Code(), "field": ve.Field})
		return
	}

	d.logger().Error(msg, zap.Error(err), zap.String("path", c.FullPath()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// queryInt reads an optional integer query parameter.
func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.NewValueError(name, raw, "must be an integer")
	}
	return v, nil
}

