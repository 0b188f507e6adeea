package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

// AuditRepositoryImpl implements domain.AuditSink using GORM. Append-only:
// rows are never updated or read back by the core.
type AuditRepositoryImpl struct {
	db *gorm.DB
}

// DBAuditEvent represents the database model for AuditEvent
type DBAuditEvent struct {
	ID           uint      `gorm:"primaryKey"`
	Action       string    `gorm:"index;size:64"`
	Outcome      string    `gorm:"index;size:16"`
	ActorID      *uint     `gorm:"index"`
	ResourceType string    `gorm:"size:64"`
	ResourceID   string    `gorm:"size:64"`
	IPAddress    string    `gorm:"size:64"`
	UserAgent    string    `gorm:"size:512"`
	Detail       string    `gorm:"size:1024"`
	Timestamp    time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBAuditEvent) TableName() string {
	return "audit_events"
}

// NewAuditRepository creates a new audit sink backed by the database
func NewAuditRepository(db *gorm.DB) domain.AuditSink {
	return &AuditRepositoryImpl{db: db}
}

// Append implements domain.AuditSink
func (r *AuditRepositoryImpl) Append(ctx context.Context, event *domain.AuditEvent) error {
	row := &DBAuditEvent{
		Action:       string(event.Action),
		Outcome:      string(event.Outcome),
		ActorID:      event.ActorID,
		ResourceType: event.ResourceType,
		ResourceID:   event.ResourceID,
		IPAddress:    event.IPAddress,
		UserAgent:    event.UserAgent,
		Detail:       event.Detail,
		Timestamp:    event.Timestamp,
	}
	return r.db.WithContext(ctx).Create(row).Error
}
