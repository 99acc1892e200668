// Package adapters はusersフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"user_backend/internal/feature/users/domain/entity"
	"user_backend/internal/feature/users/usecase"
	"user_backend/internal/platform/db"
)

// userGorm はUserRepositoryインターフェースのGORM実装です。
// 書き込みはトランザクション内で実行し、失敗時はロールバックされます。
type userGorm struct {
	db *gorm.DB
}

// userGormがUserRepositoryを実装していることをコンパイル時に保証
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserRepository はuserGormの新しいインスタンスを生成します。
func NewUserRepository(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create はユーザーを挿入し、採番IDとタイムスタンプを設定します。
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return storageError("create", errors.New("user is nil"))
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(u).Error
	})
	if err != nil {
		return storageError("create", err)
	}
	return nil
}

// FindByID はIDでユーザーを検索します。見つからない場合は usecase.ErrUserNotFound を返します。
func (r *userGorm) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, storageError("find_by_id", err)
	}
	return &u, nil
}

// FindByEmail はメールアドレスでユーザーを検索します。見つからない場合は usecase.ErrUserNotFound を返します。
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, storageError("find_by_email", err)
	}
	return &u, nil
}

// Update はu.IDの行の更新可能な全カラムを上書きします。
// Saveと異なり、行が存在しない場合に挿入はしません。
func (r *userGorm) Update(ctx context.Context, u *entity.User) error {
	now := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.User{}).
			Where("id = ?", u.ID).
			Updates(map[string]any{
				"first_name": u.FirstName,
				"last_name":  u.LastName,
				"nickname":   u.Nickname,
				"email":      u.Email,
				"password":   u.Password,
				"updated_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return usecase.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			return err
		}
		return storageError("update", err)
	}
	u.UpdatedAt = now
	return nil
}

// Delete は行を物理削除します。削除対象がない場合は usecase.ErrUserNotFound を返します。
func (r *userGorm) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&entity.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return usecase.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			return err
		}
		return storageError("delete", err)
	}
	return nil
}

// List は全ユーザーをID昇順で返します。
func (r *userGorm) List(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, storageError("list", err)
	}
	return users, nil
}

// storageError はドライバーエラーを usecase.StorageError に包みます。
func storageError(op string, err error) error {
	return &usecase.StorageError{Op: op, SQLState: db.SQLState(err), Err: err}
}
