package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

// AccountRepositoryImpl implements domain.AccountRepository using GORM
type AccountRepositoryImpl struct {
	db *gorm.DB
}

// DBAccount represents the database model for Account (with GORM tags)
type DBAccount struct {
	ID                 uint       `gorm:"primaryKey"`
	Username           string     `gorm:"uniqueIndex;size:255"`
	PasswordHash       string     `gorm:"column:password"`
	Role               string     `gorm:"index;size:64"`
	IsActive           bool       `gorm:"index"`
	TwoFactorEnabled   bool       `gorm:"index"`
	TwoFactorSecret    string     `gorm:"size:64"`
	TwoFactorEnabledAt *time.Time
	LastLoginAt        *time.Time
	CreatedAt          time.Time `gorm:"index"`
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBAccount) TableName() string {
	return "accounts"
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) domain.AccountRepository {
	return &AccountRepositoryImpl{db: db}
}

// Create implements domain.AccountRepository
func (r *AccountRepositoryImpl) Create(ctx context.Context, account *domain.Account) error {
	dbAccount := r.domainToDB(account)
	if err := r.db.WithContext(ctx).Create(dbAccount).Error; err != nil {
		return err
	}
	account.ID = dbAccount.ID
	return nil
}

// FindByUsername implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&dbAccount).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// FindByID implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbAccount).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// UpdateTwoFactorFields implements domain.AccountRepository. Only the
// two-factor columns are touched; the rest of the row is owned elsewhere.
func (r *AccountRepositoryImpl) UpdateTwoFactorFields(ctx context.Context, id uint, enabled bool, secret string, enabledAt *time.Time) error {
	return r.db.WithContext(ctx).Model(&DBAccount{}).Where("id = ?", id).Updates(map[string]interface{}{
		"two_factor_enabled":    enabled,
		"two_factor_secret":     secret,
		"two_factor_enabled_at": enabledAt,
	}).Error
}

// UpdateLastLogin implements domain.AccountRepository
func (r *AccountRepositoryImpl) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&DBAccount{}).Where("id = ?", id).Update("last_login_at", at).Error
}

// SetActive implements domain.AccountRepository
func (r *AccountRepositoryImpl) SetActive(ctx context.Context, id uint, active bool) error {
	res := r.db.WithContext(ctx).Model(&DBAccount{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// Delete implements domain.AccountRepository (soft delete via gorm.DeletedAt)
func (r *AccountRepositoryImpl) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&DBAccount{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// CountActiveAdmins implements domain.AccountRepository
func (r *AccountRepositoryImpl) CountActiveAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBAccount{}).
		Where("role = ? AND is_active = ?", domain.RoleAdministrateur, true).
		Count(&count).Error
	return count, err
}

// domainToDB converts domain account to database account
func (r *AccountRepositoryImpl) domainToDB(account *domain.Account) *DBAccount {
	return &DBAccount{
		ID:                 account.ID,
		Username:           account.Username,
		PasswordHash:       account.PasswordHash,
		Role:               account.Role,
		IsActive:           account.IsActive,
		TwoFactorEnabled:   account.TwoFactorEnabled,
		TwoFactorSecret:    account.TwoFactorSecret,
		TwoFactorEnabledAt: account.TwoFactorEnabledAt,
		LastLoginAt:        account.LastLoginAt,
	}
}

// dbToDomain converts database account to domain account
func (r *AccountRepositoryImpl) dbToDomain(dbAccount *DBAccount) *domain.Account {
	return &domain.Account{
		ID:                 dbAccount.ID,
		Username:           dbAccount.Username,
		PasswordHash:       dbAccount.PasswordHash,
		Role:               dbAccount.Role,
		IsActive:           dbAccount.IsActive,
		TwoFactorEnabled:   dbAccount.TwoFactorEnabled,
		TwoFactorSecret:    dbAccount.TwoFactorSecret,
		TwoFactorEnabledAt: dbAccount.TwoFactorEnabledAt,
		LastLoginAt:        dbAccount.LastLoginAt,
		CreatedAt:          dbAccount.CreatedAt,
		UpdatedAt:          dbAccount.UpdatedAt,
	}
}
