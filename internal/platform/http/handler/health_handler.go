// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"user_backend/internal/api"
)

// Pinger はヘルスチェック対象の依存先（DB接続プール等）を表します。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// pingTimeout はヘルスチェック1回あたりのDB疎通確認の上限時間です。
const pingTimeout = 2 * time.Second

// HealthHandler はサービスヘルスチェック用の /healthz エンドポイントを処理します。
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler はHealthHandlerの新しいインスタンスを生成します。
// dbがnilの場合、DB疎通確認は行いません。
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health はHTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
// - HEAD: 200（DB到達不可なら503）
// - OPTIONS: 204
// - それ以外: {"status","db"} のJSON（DB到達不可なら503）
func (h *HealthHandler) Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusNoContent)
		return
	}

	status, body := h.check(c.Request.Context())
	if c.Request.Method == http.MethodHead {
		c.Status(status)
		return
	}
	c.JSON(status, body)
}

func (h *HealthHandler) check(ctx context.Context) (int, api.HealthResponse) {
	if h.db == nil {
		return http.StatusOK, api.HealthResponse{Status: "ok", DB: "skipped"}
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		slog.Error("health check: database unreachable", "error", err)
		return http.StatusServiceUnavailable, api.HealthResponse{Status: "unavailable", DB: "unreachable"}
	}
	return http.StatusOK, api.HealthResponse{Status: "ok", DB: "ok"}
}
