// Package cache はリポジトリインターフェースのキャッシュ実装を提供します。
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"user_backend/internal/feature/users/domain/entity"
	"user_backend/internal/feature/users/usecase"
)

// CachingUserRepository はUserRepositoryにRedisキャッシュを付与するデコレーターです。
// 内部リポジトリを変更せずに、FindByIDとListの結果を透過的にキャッシュします。
//
// 書き込みのたびに世代カウンタ（<namespace>:gen）を進めます。DB読み取りの前後で世代が
// 変わっていればキャッシュへ保存しないため、更新・削除と競合した古い値は残りません。
type CachingUserRepository struct {
	inner     usecase.UserRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// CachingUserRepositoryがUserRepositoryを実装していることをコンパイル時に保証
var _ usecase.UserRepository = (*CachingUserRepository)(nil)

// NewCachingUserRepository はUserRepositoryをRedisキャッシュでデコレートします。
// ttlが0以下の場合は5分、namespaceが空の場合は "users" を使用します。
func NewCachingUserRepository(rdb *redis.Client, ttl time.Duration, inner usecase.UserRepository, namespace string) *CachingUserRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "users"
	}
	return &CachingUserRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create はユーザーを作成し、一覧キャッシュを無効化します。
func (c *CachingUserRepository) Create(ctx context.Context, u *entity.User) error {
	if err := c.inner.Create(ctx, u); err != nil {
		return err
	}
	c.invalidate(ctx, c.listKey())
	return nil
}

// FindByID はまずキャッシュを確認し、なければDBにフォールバックします。
// 見つからなかった結果はキャッシュしません。
func (c *CachingUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	// Redis未設定の場合はキャッシュをバイパス
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.userKey(id)

	// 1) キャッシュを確認
	var cached entity.User
	if c.get(ctx, key, &cached) {
		return &cached, nil
	}

	// 2) DBにフォールバック（読み取り前の世代を記録）
	gen := c.generation(ctx)
	u, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3) 世代が変わっていなければキャッシュに保存（ベストエフォート）
	c.set(ctx, gen, key, u)
	return u, nil
}

// FindByEmail は重複チェックに使われるため常に内部リポジトリを参照します。
func (c *CachingUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return c.inner.FindByEmail(ctx, email)
}

// Update はユーザーを更新し、該当ユーザーと一覧のキャッシュを無効化します。
func (c *CachingUserRepository) Update(ctx context.Context, u *entity.User) error {
	if err := c.inner.Update(ctx, u); err != nil {
		return err
	}
	c.invalidate(ctx, c.userKey(u.ID), c.listKey())
	return nil
}

// Delete はユーザーを削除し、該当ユーザーと一覧のキャッシュを無効化します。
func (c *CachingUserRepository) Delete(ctx context.Context, id uint) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, c.userKey(id), c.listKey())
	return nil
}

// List はキャッシュ済みの一覧があればそれを返し、なければDBから取得して保存します。
func (c *CachingUserRepository) List(ctx context.Context) ([]entity.User, error) {
	if c.rdb == nil {
		return c.inner.List(ctx)
	}

	key := c.listKey()

	var cached []entity.User
	if c.get(ctx, key, &cached) {
		return cached, nil
	}

	gen := c.generation(ctx)
	users, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, gen, key, users)
	return users, nil
}

// get はキャッシュから値を読み出します。壊れたエントリは削除します。
func (c *CachingUserRepository) get(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		// 破損したキャッシュエントリを削除
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// errGenerationChanged はDB読み取り中に書き込みが入ったことを示します。
var errGenerationChanged = errors.New("user cache generation changed")

// generation は現在の世代を返します。未設定・取得失敗時は空文字です。
func (c *CachingUserRepository) generation(ctx context.Context) string {
	gen, err := c.rdb.Get(ctx, c.genKey()).Result()
	if err != nil {
		return ""
	}
	return gen
}

// set は世代がgenのままの場合に限り値を保存します。
// WATCHにより、確認から保存までの間に書き込みが入った場合もトランザクションは失敗します。
func (c *CachingUserRepository) set(ctx context.Context, gen, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	genKey := c.genKey()
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errGenerationChanged
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errGenerationChanged), errors.Is(err, redis.TxFailedErr):
		slog.Debug("skip caching stale user read", "key", key)
	default:
		slog.Warn("failed to write user cache", "key", key, "error", err)
	}
}

// invalidate は世代を進めてからキャッシュキーを削除します。失敗してもエラーにはしません。
func (c *CachingUserRepository) invalidate(ctx context.Context, keys ...string) {
	if c.rdb == nil {
		return
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.genKey())
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		slog.Warn("failed to invalidate user cache", "keys", keys, "error", err)
	}
}

// userKey はユーザー単位のキャッシュキーを生成します。
func (c *CachingUserRepository) userKey(id uint) string {
	return c.namespace + ":id:" + strconv.FormatUint(uint64(id), 10)
}

// listKey は一覧のキャッシュキーを生成します。
func (c *CachingUserRepository) listKey() string {
	return c.namespace + ":list"
}

// genKey は世代カウンタのキーを生成します。
func (c *CachingUserRepository) genKey() string {
	return c.namespace + ":gen"
}
