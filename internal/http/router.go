package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/MYK-OTAKU/Template-sub000/internal/http/handlers"
	"github.com/MYK-OTAKU/Template-sub000/internal/http/middleware"
)

func BuildRouter(ah *handlers.AuthHandlers, tfh *handlers.TwoFactorHandlers, ach *handlers.AccountHandlers, jwtmw *middleware.AuthMW, cb *middleware.CasbinMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/login", ah.Login)
	auth.POST("/2fa/verify", ah.VerifyTwoFactor)

	v := r.Group("/").Use(jwtmw.WithJWT(), cb.Enforce())
	v.GET("/auth/me", ah.Me)
	v.POST("/auth/logout", ah.Logout)
	v.POST("/auth/2fa/enable", tfh.Enable)
	v.POST("/auth/2fa/disable", tfh.Disable)
	v.POST("/auth/2fa/regenerate", tfh.Regenerate)

	adm := r.Group("/admin").Use(jwtmw.WithJWT(), cb.Enforce())
	adm.GET("/accounts/:id/can-manage", ach.CanManage)
	adm.POST("/accounts/:id/deactivate", ach.Deactivate)
	adm.DELETE("/accounts/:id", ach.Delete)
	adm.POST("/sessions/:id/terminate", ach.TerminateSession)

	return r
}
