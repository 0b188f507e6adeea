package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/MYK-OTAKU/Template-sub000/internal/config"
	httpx "github.com/MYK-OTAKU/Template-sub000/internal/http"
	"github.com/MYK-OTAKU/Template-sub000/internal/http/handlers"
	"github.com/MYK-OTAKU/Template-sub000/internal/http/middleware"
)

func Run(cfg *config.Config) error {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	applyGinMode(cfg)

	container, err := NewContainer(cfg, log)
	if err != nil {
		return err
	}
	defer container.Close()

	// Handlers
	authH := handlers.NewAuthHandlers(container.AuthSvc)
	twoFactorH := handlers.NewTwoFactorHandlers(container.TwoFactorSvc)
	accountH := handlers.NewAccountHandlers(container.AccountAdminSvc, container.AccountRepo, container.Registry, container.Gate)

	// Middleware
	jwtMW := middleware.NewAuthMW(container.TokenSvc, container.Registry)
	casbinMW := middleware.NewCasbinMW(container.Enforcer)

	r := httpx.BuildRouter(authH, twoFactorH, accountH, jwtMW, casbinMW)

	seedPolicies(container, log)
	startIdleSweep(container, cfg, log)

	addr := ":" + cfg.Port
	log.WithField("addr", addr).Info("listening")
	return http.ListenAndServe(addr, r)
}

// applyGinMode switches gin between debug and release output. An empty value
// keeps gin's default.
func applyGinMode(cfg *config.Config) {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
}

func seedPolicies(c *Container, log *logrus.Logger) {
	policies, _ := c.Enforcer.GetPolicy()
	if len(policies) > 0 {
		return
	}
	c.Enforcer.AddPolicy("role_Administrateur", "/admin/*", "(GET|POST|PUT|DELETE)")
	for _, role := range []string{"role_Administrateur", "role_Manager", "role_Employe"} {
		c.Enforcer.AddPolicy(role, "/auth/me", "GET")
		c.Enforcer.AddPolicy(role, "/auth/logout", "POST")
		c.Enforcer.AddPolicy(role, "/auth/2fa/*", "POST")
	}
	if err := c.Enforcer.SavePolicy(); err != nil {
		log.WithError(err).Warn("casbin: failed to persist seeded policies")
		return
	}
	log.Info("casbin: seeded default policies")
}

// startIdleSweep runs the lazy idle-session eviction in the background.
func startIdleSweep(c *Container, cfg *config.Config, log *logrus.Logger) {
	go func() {
		ticker := time.NewTicker(cfg.SessionSweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			swept, err := c.Registry.SweepIdle(ctx, cfg.SessionIdleTimeout)
			cancel()
			if err != nil {
				log.WithError(err).Error("idle session sweep failed")
				continue
			}
			if swept > 0 {
				log.WithField("count", swept).Info("idle sessions swept")
			}
		}
	}()
}
