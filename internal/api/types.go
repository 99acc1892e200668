// Package api はHTTP APIのリクエスト/レスポンスボディを定義します。
package api

import (
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// UserCreateRequest は POST /users と PUT /users/{id} のボディです。
// Email はJSONデコード時と "email" タグの両方で検証されます。
type UserCreateRequest struct {
	FirstName string              `json:"first_name" binding:"required,notblank"`
	LastName  string              `json:"last_name" binding:"required,notblank"`
	Nickname  string              `json:"nickname" binding:"required,notblank"`
	Email     openapi_types.Email `json:"email" binding:"required,email"`
	// bcryptは72バイトを超える入力を拒否するため、文字数ではなくバイト数で制限する
	Password string `json:"password" binding:"required,maxbytes=72"`
}

// UserResponse はユーザーの公開表現です。パスワードハッシュは含みません。
type UserResponse struct {
	ID        uint                `json:"id"`
	FirstName string              `json:"first_name"`
	LastName  string              `json:"last_name"`
	Nickname  string              `json:"nickname"`
	Email     openapi_types.Email `json:"email"`
}

// MessageResponse は成功のみを通知する操作のレスポンスです。
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse は2xx以外のレスポンスボディです。
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HealthResponse は GET /healthz のボディです。
type HealthResponse struct {
	Status string `json:"status"`
	DB     string `json:"db"`
}
