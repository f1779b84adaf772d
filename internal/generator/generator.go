// Package generator produces a calendar year of synthetic session records
// for demos and tests.
package generator

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/PratikDhanave/answer-sessions/internal/apperr"
	"github.com/PratikDhanave/answer-sessions/internal/models"
	"github.com/PratikDhanave/answer-sessions/internal/session"
)

// DefaultUsers is the default pool of user ids.
var DefaultUsers = []string{"5112", "5530", "373", "6728", "2476", "6043", "9025", "8890", "1286", "6451"}

// DefaultEvents is the default pool of event ids. 6303d811c0b317ffad239e24
// appears twice and is drawn twice as often as the others.
var DefaultEvents = []string{
	"64def4568ed12f4c710d9b21", "630304fa712d3b81ef1dc293",
	"6303d811c0b317ffad239e24", "64d09b2d61d1c572fe4f481e",
	"64a11873b2dc91df2c41ab20", "64a171d318c21cbd209fa2b4",
	"630ea3f338d12f4c710d9b21", "6303d811c0b317ffad239e24",
}

// DefaultMaxSessionsLimit caps MaxSessionsPerDay when Config.MaxSessionsLimit
// is zero.
const DefaultMaxSessionsLimit = 1000

// Config controls the generated volume and the identifier pools.
// MaxSessionsLimit is the largest accepted MaxSessionsPerDay; zero means
// DefaultMaxSessionsLimit.
type Config struct {
	Year              int
	MaxSessionsPerDay int
	MaxSessionsLimit  int
	Users             []string
	Events            []string
}

// DefaultConfig returns year 2021, one session per day and the default pools.
func DefaultConfig() Config {
	return Config{
		Year:              2021,
		MaxSessionsPerDay: 1,
		MaxSessionsLimit:  DefaultMaxSessionsLimit,
		Users:             append([]string(nil), DefaultUsers...),
		Events:            append([]string(nil), DefaultEvents...),
	}
}

func (c Config) sessionsLimit() int {
	if c.MaxSessionsLimit == 0 {
		return DefaultMaxSessionsLimit
	}
	return c.MaxSessionsLimit
}

// Validate reports the first out-of-range field as a *apperr.ValueError.
func (c Config) Validate() error {
	switch {
	case c.MaxSessionsLimit < 0:
		return apperr.NewValueError("max_sessions_limit", c.MaxSessionsLimit, "must be >= 0")
	case c.MaxSessionsPerDay < 1:
		return apperr.NewValueError("max_sessions_per_day", c.MaxSessionsPerDay, "must be >= 1")
	case c.MaxSessionsPerDay > c.sessionsLimit():
		return apperr.NewValueError("max_sessions_per_day", c.MaxSessionsPerDay,
			fmt.Sprintf("must be <= %d", c.sessionsLimit()))
	case c.Year < 1 || c.Year > 9999:
		return apperr.NewValueError("year", c.Year, "must be within 1..9999")
	case len(c.Users) == 0:
		return apperr.NewValueError("users", len(c.Users), "pool must not be empty")
	case len(c.Events) == 0:
		return apperr.NewValueError("events", len(c.Events), "pool must not be empty")
	}
	return nil
}

// Generator draws synthetic records from its own random source.
// It is not safe for concurrent use.
type Generator struct {
	cfg Config
	rng *rand.Rand
}

// New validates cfg and returns a Generator drawing from rng.
// A nil rng is replaced by a randomly seeded source, so output differs per run.
func New(cfg Config, rng *rand.Rand) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	cfg.Users = append([]string(nil), cfg.Users...)
	cfg.Events = append([]string(nil), cfg.Events...)
	return &Generator{cfg: cfg, rng: rng}, nil
}

// NewSeeded returns a Generator whose output is fully determined by seed.
func NewSeeded(cfg Config, seed uint64) (*Generator, error) {
	return New(cfg, rand.New(rand.NewPCG(seed, seed)))
}

// GenerateYear is shorthand for the default pools and year with the given
// per-day bound.
func GenerateYear(maxSessionsPerDay int, rng *rand.Rand) ([]models.SyntheticLogRecord, error) {
	cfg := DefaultConfig()
	cfg.MaxSessionsPerDay = maxSessionsPerDay
	g, err := New(cfg, rng)
	if err != nil {
		return nil, err
	}
	return g.Generate(), nil
}

// Config returns the generator's configuration.
func (g *Generator) Config() Config { return g.cfg }

// Generate emits, for every day of the year in calendar order, between 1 and
// MaxSessionsPerDay records in draw order.
func (g *Generator) Generate() []models.SyntheticLogRecord {
	out := make([]models.SyntheticLogRecord, 0, daysIn(g.cfg.Year))
	for month := time.January; month <= time.December; month++ {
		for day := 1; day <= daysInMonth(g.cfg.Year, month); day++ {
			date := models.NewDate(time.Date(g.cfg.Year, month, day, 0, 0, 0, 0, time.UTC))
			n := g.rng.IntN(g.cfg.MaxSessionsPerDay) + 1
			for range n {
				out = append(out, g.draw(date))
			}
		}
	}
	return out
}

func (g *Generator) draw(date models.Date) models.SyntheticLogRecord {
	user := g.cfg.Users[g.rng.IntN(len(g.cfg.Users))]
	event := g.cfg.Events[g.rng.IntN(len(g.cfg.Events))]
	period := session.Afternoon
	if g.rng.IntN(2) == 0 {
		period = session.Morning
	}
	return models.SyntheticLogRecord{
		User:      models.UserID(user),
		EventID:   event,
		Date:      date,
		Period:    period,
		Month:     int(date.Month()),
		SessionID: session.Key(event, date.Time, period),
	}
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func daysIn(year int) int {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}
