package eventlog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stallion/core/events"
)

// Record is one committed event row.
type Record struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Sequence   int64     `gorm:"uniqueIndex" json:"sequence"`
	Type       string    `gorm:"index" json:"type"`
	Attributes string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Attrs decodes the stored attribute map.
func (r Record) Attrs() map[string]string {
	out := map[string]string{}
	if strings.TrimSpace(r.Attributes) == "" {
		return out
	}
	_ = json.Unmarshal([]byte(r.Attributes), &out)
	return out
}

// Open connects to the configured SQL backend.
func Open(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), cfg)
	case "postgres":
		return gorm.Open(postgres.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("eventlog: unsupported driver %q", driver)
	}
}

// Store persists committed events. It implements events.Emitter; write
// failures are logged because the escrow state has already committed.
type Store struct {
	db  *gorm.DB
	now func() time.Time

	mu  sync.Mutex
	seq int64
}

// NewStore migrates the schema and resumes the sequence from the last row.
func NewStore(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("eventlog: database required")
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("eventlog: migrate: %w", err)
	}
	var last int64
	if err := db.Model(&Record{}).Select("COALESCE(MAX(sequence), 0)").Scan(&last).Error; err != nil {
		return nil, fmt.Errorf("eventlog: load sequence: %w", err)
	}
	return &Store{db: db, now: time.Now, seq: last}, nil
}

// Emit implements events.Emitter.
func (s *Store) Emit(evt events.Event) {
	if s == nil || evt == nil {
		return
	}
	if err := s.Append(context.Background(), evt); err != nil {
		slog.Error("eventlog append failed", "type", evt.EventType(), "error", err)
	}
}

// Append writes evt as the next row.
func (s *Store) Append(ctx context.Context, evt events.Event) error {
	attrs := map[string]string{}
	if typed, ok := evt.(events.Typed); ok {
		if rendered := typed.Event(); rendered != nil {
			attrs = rendered.Attributes
		}
	}
	encoded, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("eventlog: encode attributes: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec := Record{
		ID:         uuid.New(),
		Sequence:   s.seq + 1,
		Type:       evt.EventType(),
		Attributes: string(encoded),
		CreatedAt:  s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return err
	}
	s.seq = rec.Sequence
	return nil
}

// Query filters List results.
type Query struct {
	Type  string
	After int64
	Limit int
}

const maxLimit = 500

// List returns rows ordered by sequence.
func (s *Store) List(ctx context.Context, q Query) ([]Record, error) {
	limit := q.Limit
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}
	tx := s.db.WithContext(ctx).Model(&Record{}).Where("sequence > ?", q.After)
	if t := strings.TrimSpace(q.Type); t != "" {
		tx = tx.Where("type = ?", t)
	}
	var out []Record
	if err := tx.Order("sequence asc").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
