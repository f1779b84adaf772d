package handlers

import (
	"math/rand/v2"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/answer-sessions/internal/config"
	"github.com/PratikDhanave/answer-sessions/internal/generator"
	"github.com/PratikDhanave/answer-sessions/internal/logfile"
)

// RegisterSyntheticRoutes registers the demo dataset endpoint.
//
// GET /synthetic?max_sessions_per_day=3&seed=42&year=2021&format=csv
//   - every parameter is optional and falls back to the configured defaults
//   - without a seed each call returns a different dataset
func RegisterSyntheticRoutes(r gin.IRoutes, d *Deps) {
	r.GET("/synthetic", func(c *gin.Context) {
		cfg := d.Generator
		var err error
		if cfg.MaxSessionsPerDay, err = queryInt(c, "max_sessions_per_day", cfg.MaxSessionsPerDay); err != nil {
			d.respondError(c, "invalid query", err)
			return
		}
		if cfg.Year, err = queryInt(c, "year", cfg.Year); err != nil {
			d.respondError(c, "invalid query", err)
			return
		}

		seed := d.Seed
		if raw := c.Query("seed"); raw != "" {
			if seed, err = config.ParseSeed(raw); err != nil {
				d.respondError(c, "invalid query", err)
				return
			}
		}

		var rng *rand.Rand
		if seed != nil {
			rng = rand.New(rand.NewPCG(*seed, *seed))
		}
		g, err := generator.New(cfg, rng)
		if err != nil {
			d.respondError(c, "invalid query", err)
			return
		}

		recs := g.Generate()
		if d.Metrics != nil {
			d.Metrics.RecordsGenerated.Add(float64(len(recs)))
		}

		if strings.EqualFold(c.Query("format"), "csv") {
			c.Header("Content-Type", "text/csv; charset=utf-8")
			c.Status(http.StatusOK)
			if err := logfile.WriteSynthetic(c.Writer, recs); err != nil {
				_ = c.Error(err)
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(recs), "records": recs})
	})
}
