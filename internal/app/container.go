package app

import (
	"context"

	"github.com/casbin/casbin/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/MYK-OTAKU/Template-sub000/domain"
	"github.com/MYK-OTAKU/Template-sub000/internal/config"
	"github.com/MYK-OTAKU/Template-sub000/internal/infrastructure/auth"
	"github.com/MYK-OTAKU/Template-sub000/internal/infrastructure/database"
	"github.com/MYK-OTAKU/Template-sub000/internal/infrastructure/notifications"
	"github.com/MYK-OTAKU/Template-sub000/internal/infrastructure/repositories"
	"github.com/MYK-OTAKU/Template-sub000/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Log    *logrus.Logger

	// Infrastructure
	DB       *gorm.DB
	Redis    *database.RedisClient
	Enforcer *casbin.Enforcer

	// Repositories
	AccountRepo    domain.AccountRepository
	SessionRepo    domain.SessionRepository
	AuditSink      domain.AuditSink
	ChallengeStore domain.ChallengeStore

	// Services
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	Gate            domain.RoleGate
	Registry        domain.SessionRegistry
	CredentialSvc   domain.CredentialVerifier
	TwoFactorSvc    domain.TwoFactorService
	AuthSvc         domain.AuthService
	AccountAdminSvc domain.AccountAdminService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config, log *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log}

	gdb, err := database.Open(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(gdb); err != nil {
		return nil, err
	}
	c.DB = gdb

	cas, err := auth.NewCasbinService(gdb, cfg.CasbinModelPath)
	if err != nil {
		return nil, err
	}
	c.Enforcer = cas.E

	c.Redis = database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := c.Redis.Ping(context.Background()); err != nil {
		return nil, err
	}

	// Repositories
	c.AccountRepo = repositories.NewAccountRepository(gdb)
	c.SessionRepo = repositories.NewSessionRepository(gdb)
	c.AuditSink = repositories.NewAuditRepository(gdb)
	c.ChallengeStore = repositories.NewChallengeStore(c.Redis.Client)

	// Services
	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTTL, cfg.ChallengeTTL)
	c.NotificationSvc = notifications.NewTwilioService(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom)
	c.Gate = services.NewHierarchyGate()

	c.Registry = services.NewSessionRegistry(c.SessionRepo, c.AuditSink, c.NotificationSvc, cfg.TwilioAlertTo, log)
	c.CredentialSvc = services.NewCredentialVerifier(c.AccountRepo, c.PasswordSvc, c.AuditSink, log)
	c.TwoFactorSvc = services.NewTwoFactorService(c.AccountRepo, c.Registry, c.AuditSink, log, services.TwoFactorConfig{
		Issuer:            cfg.TOTPIssuer,
		Digits:            cfg.TOTPDigits,
		Period:            cfg.TOTPPeriod,
		Skew:              cfg.TOTPSkew,
		SecretSize:        cfg.TOTPSecretSize,
		ReactivationGrace: cfg.ReactivationGrace,
	})
	c.AuthSvc = services.NewAuthService(
		c.CredentialSvc,
		c.TwoFactorSvc,
		c.Registry,
		c.AccountRepo,
		c.TokenSvc,
		c.ChallengeStore,
		c.AuditSink,
		log,
	)
	c.AccountAdminSvc = services.NewAccountAdminService(c.AccountRepo, c.Registry, c.Gate, c.AuditSink, log)

	return c, nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Redis != nil {
		c.Redis.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
