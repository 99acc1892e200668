// Package usecase はusersフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound は指定IDのユーザーが存在しない場合に返されます。
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists は登録済みのメールアドレスでユーザーを作成しようとした場合に返されます。
	ErrEmailAlreadyExists = errors.New("email already registered")

	// ErrStorage はストレージ層の失敗すべてに共通するエラー種別です。
	// errors.Is で判定し、実体は *StorageError です。
	ErrStorage = errors.New("storage error")
)

// StorageError は失敗した操作名と元のドライバーエラーを保持します。
// 返却時点で書き込み中のトランザクションはロールバック済みです。
type StorageError struct {
	// Op はリポジトリ操作名（例: "create", "update"）
	Op string
	// SQLState はドライバーが報告した5文字のSQLSTATE（ない場合は空）
	SQLState string
	// Err は元のドライバーエラー
	Err error
}

func (e *StorageError) Error() string {
	if e.SQLState != "" {
		return fmt.Sprintf("storage error during %s (SQLSTATE %s): %v", e.Op, e.SQLState, e.Err)
	}
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is はtargetがErrStorageかどうかを報告します。
func (e *StorageError) Is(target error) bool { return target == ErrStorage }
