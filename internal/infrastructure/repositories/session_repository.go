package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository using GORM
type SessionRepositoryImpl struct {
	db *gorm.DB
}

// DBSession represents the database model for Session (with GORM tags)
type DBSession struct {
	ID                string `gorm:"primaryKey;size:64"`
	AccountID         uint   `gorm:"index"`
	IPAddress         string `gorm:"size:64"`
	UserAgent         string `gorm:"size:512"`
	IsActive          bool   `gorm:"index"`
	PreviousIP        string `gorm:"size:64"`
	IPChanged         bool
	IPChangedAt       *time.Time
	LastActivityAt    time.Time `gorm:"index"`
	TerminatedAt      *time.Time
	TerminationReason string `gorm:"size:32"`
	CreatedAt         time.Time
}

// TableName returns the table name for GORM
func (DBSession) TableName() string {
	return "sessions"
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) domain.SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

// ReplaceActive implements domain.SessionRepository. Termination of the
// displaced sessions and creation of the new one happen inside one
// transaction; the owning account row is locked first so two concurrent
// logins for the same account are serialized and exactly one session remains
// active. Cross-account logins do not contend.
func (r *SessionRepositoryImpl) ReplaceActive(ctx context.Context, session *domain.Session, priorReason domain.TerminationReason) (int64, error) {
	var displaced int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// SQLite serializes writers on its own and rejects FOR UPDATE.
		if tx.Dialector.Name() == "postgres" {
			var account DBAccount
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Select("id").Where("id = ?", session.AccountID).
				First(&account).Error; err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		res := tx.Model(&DBSession{}).
			Where("account_id = ? AND is_active = ?", session.AccountID, true).
			Updates(map[string]interface{}{
				"is_active":          false,
				"terminated_at":      now,
				"termination_reason": string(domain.NormalizeTerminationReason(priorReason)),
			})
		if res.Error != nil {
			return res.Error
		}
		displaced = res.RowsAffected

		return tx.Create(r.domainToDB(session)).Error
	})
	if err != nil {
		return 0, err
	}
	return displaced, nil
}

// FindByID implements domain.SessionRepository
func (r *SessionRepositoryImpl) FindByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	var dbSession DBSession
	err := r.db.WithContext(ctx).Where("id = ?", sessionID).First(&dbSession).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbSession), nil
}

// FindActiveByAccount implements domain.SessionRepository
func (r *SessionRepositoryImpl) FindActiveByAccount(ctx context.Context, accountID uint) ([]*domain.Session, error) {
	var dbSessions []DBSession
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND is_active = ?", accountID, true).
		Find(&dbSessions).Error
	if err != nil {
		return nil, err
	}

	sessions := make([]*domain.Session, 0, len(dbSessions))
	for i := range dbSessions {
		sessions = append(sessions, r.dbToDomain(&dbSessions[i]))
	}
	return sessions, nil
}

// FindActiveIdleSince implements domain.SessionRepository
func (r *SessionRepositoryImpl) FindActiveIdleSince(ctx context.Context, cutoff time.Time) ([]*domain.Session, error) {
	var dbSessions []DBSession
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND last_activity_at < ?", true, cutoff).
		Find(&dbSessions).Error
	if err != nil {
		return nil, err
	}

	sessions := make([]*domain.Session, 0, len(dbSessions))
	for i := range dbSessions {
		sessions = append(sessions, r.dbToDomain(&dbSessions[i]))
	}
	return sessions, nil
}

// Save implements domain.SessionRepository
func (r *SessionRepositoryImpl) Save(ctx context.Context, session *domain.Session) error {
	return r.db.WithContext(ctx).Save(r.domainToDB(session)).Error
}

// MarkTerminated implements domain.SessionRepository
func (r *SessionRepositoryImpl) MarkTerminated(ctx context.Context, sessionID string, reason domain.TerminationReason, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&DBSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]interface{}{
			"is_active":          false,
			"terminated_at":      at,
			"termination_reason": string(domain.NormalizeTerminationReason(reason)),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// domainToDB converts domain session to database session
func (r *SessionRepositoryImpl) domainToDB(session *domain.Session) *DBSession {
	return &DBSession{
		ID:                session.ID,
		AccountID:         session.AccountID,
		IPAddress:         session.IPAddress,
		UserAgent:         session.UserAgent,
		IsActive:          session.IsActive,
		PreviousIP:        session.PreviousIP,
		IPChanged:         session.IPChanged,
		IPChangedAt:       session.IPChangedAt,
		LastActivityAt:    session.LastActivityAt,
		TerminatedAt:      session.TerminatedAt,
		TerminationReason: string(session.TerminationReason),
		CreatedAt:         session.CreatedAt,
	}
}

// dbToDomain converts database session to domain session
func (r *SessionRepositoryImpl) dbToDomain(dbSession *DBSession) *domain.Session {
	return &domain.Session{
		ID:                dbSession.ID,
		AccountID:         dbSession.AccountID,
		IPAddress:         dbSession.IPAddress,
		UserAgent:         dbSession.UserAgent,
		IsActive:          dbSession.IsActive,
		PreviousIP:        dbSession.PreviousIP,
		IPChanged:         dbSession.IPChanged,
		IPChangedAt:       dbSession.IPChangedAt,
		LastActivityAt:    dbSession.LastActivityAt,
		TerminatedAt:      dbSession.TerminatedAt,
		TerminationReason: domain.TerminationReason(dbSession.TerminationReason),
		CreatedAt:         dbSession.CreatedAt,
	}
}
