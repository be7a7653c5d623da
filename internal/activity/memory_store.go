package activity

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ritee123/loginsight/internal/idgen"
)

// MemoryStore is an in-memory login-activity store for demo/development mode.
type MemoryStore struct {
	records []*LoginRecord
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory login-activity store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make([]*LoginRecord, 0),
	}
}

func (m *MemoryStore) Query(ctx context.Context, f Filter) ([]*LoginRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*LoginRecord, 0)
	for _, rec := range m.records {
		if f.Matches(rec) {
			cp := *rec
			result = append(result, &cp)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if f.Descending {
			return result[i].Timestamp.After(result[j].Timestamp)
		}
		return result[i].Timestamp.Before(result[j].Timestamp)
	})

	if f.Limit > 0 && len(result) > f.Limit {
		result = result[:f.Limit]
	}
	return result, nil
}

func (m *MemoryStore) QueryBefore(ctx context.Context, before time.Time, userIDs []int64) ([]*LoginRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(userIDs) == 0 {
		return nil, nil
	}
	wanted := make(map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = true
	}

	result := make([]*LoginRecord, 0)
	for _, rec := range m.records {
		if rec.UserID != 0 && wanted[rec.UserID] && rec.Timestamp.Before(before) {
			cp := *rec
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (m *MemoryStore) Insert(ctx context.Context, rec *LoginRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *rec
	if cp.ID == "" {
		cp.ID = idgen.WithPrefix("la_")
	}
	m.records = append(m.records, &cp)
	return nil
}
