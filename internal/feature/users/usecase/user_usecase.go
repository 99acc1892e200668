package usecase

import (
	"context"
	"errors"
	"fmt"

	"user_backend/internal/feature/users/domain/entity"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新規ユーザーを保存し、採番されたIDを設定します。
	Create(ctx context.Context, user *entity.User) error

	// FindByID は該当行がない場合 ErrUserNotFound を返します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// FindByEmail は該当行がない場合 ErrUserNotFound を返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Update は既存ユーザーの更新可能な全カラムを書き込みます。
	Update(ctx context.Context, user *entity.User) error

	// Delete は行を物理削除します。削除対象がない場合は ErrUserNotFound を返します。
	Delete(ctx context.Context, id uint) error

	// List は全ユーザーをID順で返します。
	List(ctx context.Context) ([]entity.User, error)
}

// PasswordHasher は平文パスワードを User.Password に保存する値へ変換します。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// UserInput は作成・更新で受け付けるフィールドです。
type UserInput struct {
	FirstName string
	LastName  string
	Nickname  string
	Email     string
	Password  string
}

// UserUsecase はユーザーのCRUD操作を実装します。
// リクエスト単位の状態は持たず、注入されたリポジトリ経由で処理します。
type UserUsecase struct {
	users  UserRepository
	hasher PasswordHasher
}

// NewUserUsecase はUserUsecaseの新しいインスタンスを生成します。
func NewUserUsecase(users UserRepository, hasher PasswordHasher) *UserUsecase {
	return &UserUsecase{users: users, hasher: hasher}
}

// Create はメールアドレスが未登録であることを確認してからユーザーを登録します。
// - 登録済みの場合は ErrEmailAlreadyExists
// - パスワードはbcryptでハッシュ化して保存
func (u *UserUsecase) Create(ctx context.Context, in UserInput) (*entity.User, error) {
	existing, err := u.users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil && existing != nil:
		return nil, ErrEmailAlreadyExists
	case err != nil && !errors.Is(err, ErrUserNotFound):
		return nil, err
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Nickname:  in.Nickname,
		Email:     in.Email,
		Password:  hashed,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get は指定IDのユーザーを返します。
func (u *UserUsecase) Get(ctx context.Context, id uint) (*entity.User, error) {
	return u.users.FindByID(ctx, id)
}

// Update は既存ユーザーの全フィールドを置き換えます。
// パスワードは値が変わっていなくても毎回再ハッシュします。
// 他ユーザーとのメール重複チェックは行わず、ストレージの一意制約に任せます。
func (u *UserUsecase) Update(ctx context.Context, id uint, in UserInput) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Nickname = in.Nickname
	user.Email = in.Email
	user.Password = hashed

	if err := u.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete は指定IDのユーザーを削除します。
func (u *UserUsecase) Delete(ctx context.Context, id uint) error {
	if _, err := u.users.FindByID(ctx, id); err != nil {
		return err
	}
	return u.users.Delete(ctx, id)
}

// List は登録済みの全ユーザーを返します。
func (u *UserUsecase) List(ctx context.Context) ([]entity.User, error) {
	return u.users.List(ctx)
}
