// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"user_backend/internal/feature/users/adapters"
	usershandler "user_backend/internal/feature/users/transport/handler"
	"user_backend/internal/feature/users/usecase"
	"user_backend/internal/platform/cache"
	"user_backend/internal/platform/password"
)

// NewUserRepository creates a UserRepository implementation.
// If Redis is available, the GORM repository is wrapped with a read-through cache.
// Otherwise, it talks to the database directly.
func NewUserRepository(rdb *redis.Client, db *gorm.DB, ttl time.Duration) usecase.UserRepository {
	repo := adapters.NewUserRepository(db)
	if rdb != nil {
		return cache.NewCachingUserRepository(rdb, ttl, repo, "users")
	}
	return repo
}

// NewUserHandler wires repository, hasher, usecase and handler for the users feature.
func NewUserHandler(rdb *redis.Client, db *gorm.DB, ttl time.Duration, bcryptCost int) *usershandler.UserHandler {
	repo := NewUserRepository(rdb, db, ttl)
	uc := usecase.NewUserUsecase(repo, password.NewBcryptHasher(bcryptCost))
	return usershandler.NewUserHandler(uc)
}
