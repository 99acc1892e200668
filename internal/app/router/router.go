package router

import (
	"fmt"
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	usershandler "user_backend/internal/feature/users/transport/handler"
	"user_backend/internal/platform/config"
	platformhandler "user_backend/internal/platform/http/handler"
	"user_backend/internal/platform/http/middleware"
	"user_backend/internal/platform/validation"
)

func NewRouter(users *usershandler.UserHandler, health *platformhandler.HealthHandler, cfg *config.Config) (*gin.Engine, error) {
	// バインド前にカスタムバリデータを登録
	if err := validation.Register(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	r := gin.New()

	// リクエストID → アクセスログ → Sentry → パニック回復 の順
	r.Use(middleware.RequestID(), middleware.AccessLog())
	if cfg.SentryDSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(gin.Recovery())

	// CORS追加（許可オリジンが設定されている場合のみ）
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.CORSOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.HeaderRequestID},
			ExposeHeaders: []string{middleware.HeaderRequestID},
			MaxAge:        12 * time.Hour,
		}))
	}

	// 導通確認用
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)
	r.OPTIONS("/healthz", health.Health)

	// ユーザーCRUD
	g := r.Group("/users")
	{
		g.POST("", users.Create)
		g.GET("", users.List)
		g.GET("/:id", users.Get)
		g.PUT("/:id", users.Update)
		g.DELETE("/:id", users.Delete)
	}

	return r, nil
}
