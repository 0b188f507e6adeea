package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MYK-OTAKU/Template-sub000/domain"
)

func seedAccount(t *testing.T, repo domain.AccountRepository, account *domain.Account) *domain.Account {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), account))
	return account
}

func TestAccountRepositoryCreateAndFind(t *testing.T) {
	repo := NewAccountRepository(setupTestDB(t))
	ctx := context.Background()

	account := seedAccount(t, repo, &domain.Account{
		Username:     "alice",
		PasswordHash: "$2a$10$digest",
		Role:         domain.RoleManager,
		IsActive:     true,
	})
	assert.NotZero(t, account.ID)

	byName, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byName.ID)
	assert.Equal(t, domain.RoleManager, byName.Role)
	assert.True(t, byName.IsActive)

	byID, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestAccountRepositoryFindMissing(t *testing.T) {
	repo := NewAccountRepository(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountRepositoryUpdateTwoFactorFields(t *testing.T) {
	repo := NewAccountRepository(setupTestDB(t))
	ctx := context.Background()

	account := seedAccount(t, repo, &domain.Account{Username: "alice", Role: domain.RoleEmploye, IsActive: true})

	enabledAt := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateTwoFactorFields(ctx, account.ID, true, "JBSWY3DPEHPK3PXP", &enabledAt))

	got, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, got.TwoFactorEnabled)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", got.TwoFactorSecret)
	require.NotNil(t, got.TwoFactorEnabledAt)
	assert.WithinDuration(t, enabledAt, *got.TwoFactorEnabledAt, time.Second)

	// Disable with a nil timestamp clears the column.
	require.NoError(t, repo.UpdateTwoFactorFields(ctx, account.ID, false, "", nil))
	got, err = repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.False(t, got.TwoFactorEnabled)
	assert.Empty(t, got.TwoFactorSecret)
	assert.Nil(t, got.TwoFactorEnabledAt)
}

func TestAccountRepositoryUpdateLastLogin(t *testing.T) {
	repo := NewAccountRepository(setupTestDB(t))
	ctx := context.Background()

	account := seedAccount(t, repo, &domain.Account{Username: "alice", Role: domain.RoleEmploye, IsActive: true})

	at := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, account.ID, at))

	got, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
	assert.WithinDuration(t, at, *got.LastLoginAt, time.Second)
}

func TestAccountRepositorySetActive(t *testing.T) {
	repo := NewAccountRepository(setupTestDB(t))
	ctx := context.Background()

	account := seedAccount(t, repo, &domain.Account{Username: "alice", Role: domain.RoleEmploye, IsActive: true})

	require.NoError(t, repo.SetActive(ctx, account.ID, false))
	got, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	assert.ErrorIs(t, repo.SetActive(ctx, 9999, false), domain.ErrAccountNotFound)
}

func TestAccountRepositoryDeleteIsSoft(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	account := seedAccount(t, repo, &domain.Account{Username: "alice", Role: domain.RoleEmploye, IsActive: true})

	require.NoError(t, repo.Delete(ctx, account.ID))

	_, err := repo.FindByID(ctx, account.ID)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	// The row survives for forensics.
	var count int64
	require.NoError(t, db.Unscoped().Model(&DBAccount{}).Where("id = ?", account.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	assert.ErrorIs(t, repo.Delete(ctx, account.ID), domain.ErrAccountNotFound)
}

func TestAccountRepositoryCountActiveAdmins(t *testing.T) {
	repo := NewAccountRepository(setupTestDB(t))
	ctx := context.Background()

	seedAccount(t, repo, &domain.Account{Username: "root", Role: domain.RoleAdministrateur, IsActive: true})
	seedAccount(t, repo, &domain.Account{Username: "root2", Role: domain.RoleAdministrateur, IsActive: false})
	seedAccount(t, repo, &domain.Account{Username: "bob", Role: domain.RoleManager, IsActive: true})

	count, err := repo.CountActiveAdmins(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
