package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PratikDhanave/answer-sessions/internal/apperr"
	"github.com/PratikDhanave/answer-sessions/internal/auth"
	"github.com/PratikDhanave/answer-sessions/internal/logfile"
	"github.com/PratikDhanave/answer-sessions/internal/models"
	"github.com/PratikDhanave/answer-sessions/internal/pipeline"
)

// RegisterLogRoutes registers the ingestion path.
//
// POST /logs
//   - Requires X-API-Key (tenant context)
//   - Body: {"records":[...]} as JSON, or a CSV file with Content-Type text/csv
//   - The whole batch is enriched before anything is written; one bad
//     sent_at rejects the batch with 400 and the offending row
func RegisterLogRoutes(r gin.IRoutes, d *Deps) {
	r.POST("/logs", func(c *gin.Context) {
		tenantID := auth.TenantID(c)
		if tenantID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		recs, err := readBatch(c)
		if err != nil {
			d.respondError(c, "invalid payload", err)
			return
		}
		if len(recs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "records required"})
			return
		}

		enriched, err := d.enrich(recs)
		if err != nil {
			d.respondError(c, "enrichment failed", err)
			return
		}

		batchID := uuid.New()
		inserted, err := d.Store.InsertRawLogs(c.Request.Context(), tenantID, batchID, recs)
		if err != nil {
			d.respondError(c, "db insert failed", err)
			return
		}
		if d.Metrics != nil {
			d.Metrics.RecordsIngested.Add(float64(inserted))
		}

		sessions := map[string]struct{}{}
		for _, e := range enriched {
			sessions[e.SessionID] = struct{}{}
		}

		d.logger().Info("ingested answer batch",
			zap.String("tenant_id", tenantID),
			zap.String("batch_id", batchID.String()),
			zap.Int64("inserted", inserted),
			zap.Int("sessions", len(sessions)),
		)

		c.JSON(http.StatusCreated, models.LogIngestResponse{
			BatchID:  batchID.String(),
			Inserted: inserted,
			Sessions: len(sessions),
		})
	})
}

func readBatch(c *gin.Context) ([]models.RawLogRecord, error) {
	if strings.HasPrefix(c.ContentType(), "text/csv") {
		tbl, err := logfile.ReadTable(c.Request.Body)
		if err != nil {
			return nil, apperr.New(apperr.CodeBadRequest, "invalid payload").WithCause(err)
		}
		return pipeline.Bind(tbl)
	}

	var req models.LogIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, apperr.New(apperr.CodeBadRequest, "invalid payload").WithCause(err)
	}
	return pipeline.RequireFields(req.Records)
}
