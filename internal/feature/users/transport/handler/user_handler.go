// Package handler はusersフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"user_backend/internal/api"
	"user_backend/internal/feature/users/domain/entity"
	"user_backend/internal/feature/users/usecase"
	"user_backend/internal/platform/http/middleware"
)

const (
	msgEmailTaken    = "Email already registered"
	msgUserNotFound  = "User not found"
	msgDatabaseError = "Database error"
	msgUserDeleted   = "User deleted successfully"
)

// UserUsecase はハンドラーが依存するユーザー操作を定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type UserUsecase interface {
	Create(ctx context.Context, in usecase.UserInput) (*entity.User, error)
	Get(ctx context.Context, id uint) (*entity.User, error)
	Update(ctx context.Context, id uint, in usecase.UserInput) (*entity.User, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]entity.User, error)
}

// UserHandler はユーザーレコードのHTTPリクエストを処理します。
type UserHandler struct {
	uc UserUsecase
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
func NewUserHandler(uc UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Create は POST /users を処理します。
// - バリデーションエラー時は422を返却
// - メール重複時は400を返却
// - 成功時は作成したユーザーと共に200を返却
func (h *UserHandler) Create(c *gin.Context) {
	var req api.UserCreateRequest
	if !bindBody(c, &req) {
		return
	}
	user, err := h.uc.Create(c.Request.Context(), toInput(req))
	if err != nil {
		h.fail(c, err, "create user failed", "email", string(req.Email))
		return
	}
	slog.Info("user created", "user_id", user.ID, "request_id", requestID(c))
	c.JSON(http.StatusOK, toResponse(user))
}

// Get は GET /users/:id を処理します。
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	user, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "get user failed", "user_id", id)
		return
	}
	c.JSON(http.StatusOK, toResponse(user))
}

// Update は PUT /users/:id を処理します。
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	var req api.UserCreateRequest
	if !bindBody(c, &req) {
		return
	}
	user, err := h.uc.Update(c.Request.Context(), id, toInput(req))
	if err != nil {
		h.fail(c, err, "update user failed", "user_id", id)
		return
	}
	slog.Info("user updated", "user_id", user.ID, "request_id", requestID(c))
	c.JSON(http.StatusOK, toResponse(user))
}

// Delete は DELETE /users/:id を処理します。
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	if err := h.uc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, "delete user failed", "user_id", id)
		return
	}
	slog.Info("user deleted", "user_id", id, "request_id", requestID(c))
	c.JSON(http.StatusOK, api.MessageResponse{Message: msgUserDeleted})
}

// List は GET /users を処理します。
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.uc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "list users failed")
		return
	}
	out := make([]api.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toResponse(&users[i]))
	}
	c.JSON(http.StatusOK, out)
}

// fail はユースケースのエラーをステータスコードに変換してレスポンスを書き込みます。
// ストレージエラーの詳細はログとSentryにのみ送り、クライアントには返しません。
func (h *UserHandler) fail(c *gin.Context, err error, msg string, attrs ...any) {
	attrs = append(attrs, "error", err, "remote_addr", c.ClientIP(), "request_id", requestID(c))

	switch {
	case errors.Is(err, usecase.ErrEmailAlreadyExists):
		slog.Warn(msg, attrs...)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: msgEmailTaken})
	case errors.Is(err, usecase.ErrUserNotFound):
		slog.Warn(msg, attrs...)
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: msgUserNotFound})
	case errors.Is(err, usecase.ErrStorage):
		slog.Error(msg, attrs...)
		captureException(c, err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: msgDatabaseError})
	default:
		slog.Error(msg, attrs...)
		captureException(c, err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
	}
}

// bindBody はJSONボディをデコード・検証します。失敗時は422を書き込みfalseを返します。
func bindBody(c *gin.Context, req *api.UserCreateRequest) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		slog.Warn("request validation failed", "error", err, "remote_addr", c.ClientIP(), "request_id", requestID(c))
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: "invalid request", Details: err.Error()})
		return false
	}
	return true
}

// bindID は :id パスパラメータを解析します。失敗時は422を書き込みfalseを返します。
func bindID(c *gin.Context) (uint, bool) {
	var id uint
	err := runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		slog.Warn("invalid user id", "error", err, "id", c.Param("id"), "request_id", requestID(c))
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: "invalid user id", Details: err.Error()})
		return 0, false
	}
	return id, true
}

func toInput(req api.UserCreateRequest) usecase.UserInput {
	return usecase.UserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Nickname:  req.Nickname,
		Email:     string(req.Email),
		Password:  req.Password,
	}
}

func toResponse(u *entity.User) api.UserResponse {
	return api.UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Nickname:  u.Nickname,
		Email:     openapi_types.Email(u.Email),
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(middleware.ContextRequestID)
}

func captureException(c *gin.Context, err error) {
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
}
