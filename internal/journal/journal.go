package journal

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/DoyleJ11/yahtzee-backend/internal/engine"
)

// Entry records one committed round. Entries are never summed into totals;
// keeping a scorecard is the player's business.
type Entry struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	TableCode string          `gorm:"index;size:16;not null" json:"table_code"`
	Category  engine.Category `gorm:"size:32;not null" json:"category"`
	Dice      engine.Dice     `gorm:"serializer:json;type:text;not null" json:"dice"`
	Score     int             `gorm:"not null" json:"score"`
	CreatedAt time.Time       `json:"created_at"`
}

func (Entry) TableName() string { return "round_entries" }

type Journal interface {
	Append(ctx context.Context, e Entry) error
	// List returns a table's entries, oldest first.
	List(ctx context.Context, tableCode string) ([]Entry, error)
	Close() error
}

var _ Journal = (*Memory)(nil)

type Memory struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) Append(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.ID = uint(len(m.entries) + 1)
	if e.CreatedAt.IsZero() {
		e.CreatedAt = m.now()
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *Memory) List(_ context.Context, tableCode string) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []Entry{}
	for _, e := range m.entries {
		if e.TableCode == tableCode {
			out = append(out, e)
		}
	}
	return slices.Clip(out), nil
}

func (m *Memory) Close() error { return nil }
