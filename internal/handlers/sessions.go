package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/answer-sessions/internal/analysis"
	"github.com/PratikDhanave/answer-sessions/internal/apperr"
	"github.com/PratikDhanave/answer-sessions/internal/auth"
	"github.com/PratikDhanave/answer-sessions/internal/models"
	"github.com/PratikDhanave/answer-sessions/internal/session"
)

const defaultTopUsers = 5

// RegisterSessionRoutes registers the read path over stored logs.
//
// GET /sessions?event_id=...&period=...  enriched records, input order
// GET /analytics/answers-per-session    answers counted per session id
// GET /analytics/top-users?n=5          top users with sessions per month
func RegisterSessionRoutes(r gin.IRoutes, d *Deps) {
	r.GET("/sessions", func(c *gin.Context) {
		var period session.Period
		if raw := c.Query("period"); raw != "" {
			p, err := session.ParsePeriod(raw)
			if err != nil {
				d.respondError(c, "invalid query", apperr.NewValueError("period", raw, err.Error()))
				return
			}
			period = p
		}

		recs, ok := d.tenantSessions(c)
		if !ok {
			return
		}
		if period != "" {
			kept := recs[:0]
			for _, r := range recs {
				if r.Period == period {
					kept = append(kept, r)
				}
			}
			recs = kept
		}
		c.JSON(http.StatusOK, gin.H{"count": len(recs), "records": recs})
	})

	r.GET("/analytics/answers-per-session", func(c *gin.Context) {
		recs, ok := d.tenantSessions(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"sessions": analysis.AnswersPerSession(analysis.FromEnriched(recs))})
	})

	r.GET("/analytics/top-users", func(c *gin.Context) {
		n, err := queryInt(c, "n", defaultTopUsers)
		if err != nil {
			d.respondError(c, "invalid query", err)
			return
		}
		recs, ok := d.tenantSessions(c)
		if !ok {
			return
		}
		top, err := analysis.TopUsersByMonth(analysis.FromEnriched(recs), n)
		if err != nil {
			d.respondError(c, "invalid query", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": top})
	})
}

// tenantSessions loads and enriches the caller's logs, writing the error
// response itself when it returns false.
func (d *Deps) tenantSessions(c *gin.Context) ([]models.EnrichedLogRecord, bool) {
	tenantID := auth.TenantID(c)
	if tenantID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}

	raw, err := d.Store.ListRawLogs(c.Request.Context(), tenantID, c.Query("event_id"))
	if err != nil {
		d.respondError(c, "db query failed", err)
		return nil, false
	}

	enriched, err := d.enrich(raw)
	if err != nil {
		// Stored rows were validated on ingest, so this is a server fault.
		d.respondError(c, "stored logs failed enrichment", apperr.New(apperr.CodeInternal, "stored logs failed enrichment").WithCause(err))
		return nil, false
	}
	return enriched, true
}
