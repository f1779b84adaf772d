package store

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/PratikDhanave/answer-sessions/internal/models"
)

// MemoryStore is a process-local raw log store for development and tests.
// Contents are lost on exit.
type MemoryStore struct {
	mu   sync.RWMutex
	logs map[string][]models.RawLogRecord
	// PingErr, when set, is returned by Ping.
	PingErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{logs: map[string][]models.RawLogRecord{}}
}

func (m *MemoryStore) Ping(context.Context) error { return m.PingErr }

func (m *MemoryStore) InsertRawLogs(_ context.Context, tenantID string, _ uuid.UUID, recs []models.RawLogRecord) (int64, error) {
	if tenantID == "" {
		return 0, errors.New("tenantID required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs[tenantID] = append(m.logs[tenantID], recs...)
	return int64(len(recs)), nil
}

func (m *MemoryStore) ListRawLogs(_ context.Context, tenantID, eventID string) ([]models.RawLogRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.RawLogRecord
	for _, r := range m.logs[tenantID] {
		if eventID == "" || r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}
