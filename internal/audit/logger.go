package audit

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Logger writes audit events to the audit_logs table.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Record(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	row := models.AuditLog{
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Metadata: metaJSON,
	}
	if ev.ActorID != "" {
		actor := ev.ActorID
		row.ActorID = &actor
	}

	return l.db.WithContext(ctx).Create(&row).Error
}

type ListFilter struct {
	ActorID  string
	Action   string
	Entity   string
	EntityID string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// List returns one page of logs, newest first, and the total matching
// count.
func (l *Logger) List(ctx context.Context, f ListFilter) ([]models.AuditLog, int64, error) {
	q := l.db.WithContext(ctx).Model(&models.AuditLog{})

	if f.ActorID != "" {
		q = q.Where("actor_id = ?", f.ActorID)
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if f.EntityID != "" {
		q = q.Where("entity_id = ?", f.EntityID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(f.Offset).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
