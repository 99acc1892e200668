package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"user_backend/internal/feature/users/domain/entity"
	"user_backend/internal/feature/users/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(&entity.User{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func newUser(email string) *entity.User {
	return &entity.User{
		FirstName: "John",
		LastName:  "Doe",
		Nickname:  "johnd",
		Email:     email,
		Password:  "hashed_password",
	}
}

func countUsers(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&entity.User{}).Count(&n).Error)
	return n
}

func TestNewUserRepository(t *testing.T) {
	db := setupTestDB(t)

	repo := NewUserRepository(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestUserGorm_Create(t *testing.T) {
	t.Run("successful user creation", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		user := newUser("test@example.com")
		err := repo.Create(context.Background(), user)

		assert.NoError(t, err, "failed to create user")
		assert.Equal(t, uint(1), user.ID, "first ID should be 1")
		assert.False(t, user.CreatedAt.IsZero(), "CreatedAt is not set")
		assert.False(t, user.UpdatedAt.IsZero(), "UpdatedAt is not set")
	})

	t.Run("unique constraint violation is a storage error and rolls back", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		require.NoError(t, repo.Create(context.Background(), newUser("duplicate@example.com")))

		err := repo.Create(context.Background(), newUser("duplicate@example.com"))

		assert.ErrorIs(t, err, usecase.ErrStorage)
		var se *usecase.StorageError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "create", se.Op)
		assert.Equal(t, int64(1), countUsers(t, db), "no partial row should persist")
	})

	t.Run("nil user error", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		err := repo.Create(context.Background(), nil)

		assert.ErrorIs(t, err, usecase.ErrStorage)
	})

	t.Run("ids are not reused after deletion", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		first := newUser("first@example.com")
		require.NoError(t, repo.Create(context.Background(), first))
		second := newUser("second@example.com")
		require.NoError(t, repo.Create(context.Background(), second))
		require.NoError(t, repo.Delete(context.Background(), second.ID))

		third := newUser("third@example.com")
		require.NoError(t, repo.Create(context.Background(), third))

		assert.Greater(t, third.ID, second.ID)
	})
}

func TestUserGorm_FindByID(t *testing.T) {
	t.Run("find user by ID successfully", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		expected := newUser("findbyid@example.com")
		require.NoError(t, repo.Create(context.Background(), expected))

		found, err := repo.FindByID(context.Background(), expected.ID)

		require.NoError(t, err, "failed to find user")
		assert.Equal(t, expected.ID, found.ID)
		assert.Equal(t, expected.FirstName, found.FirstName)
		assert.Equal(t, expected.LastName, found.LastName)
		assert.Equal(t, expected.Nickname, found.Nickname)
		assert.Equal(t, expected.Email, found.Email)
		assert.Equal(t, expected.Password, found.Password)
	})

	t.Run("ID not found error", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		found, err := repo.FindByID(context.Background(), 999)

		assert.ErrorIs(t, err, usecase.ErrUserNotFound, "should return ErrUserNotFound")
		assert.Nil(t, found, "user should be nil")
	})

	t.Run("ID 0 error", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		found, err := repo.FindByID(context.Background(), 0)

		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
		assert.Nil(t, found)
	})
}

func TestUserGorm_FindByEmail(t *testing.T) {
	t.Run("find correct user when multiple users exist", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		users := []*entity.User{
			newUser("user1@example.com"),
			newUser("user2@example.com"),
			newUser("user3@example.com"),
		}
		for _, u := range users {
			require.NoError(t, repo.Create(context.Background(), u), "failed to create test data")
		}

		found, err := repo.FindByEmail(context.Background(), "user2@example.com")

		require.NoError(t, err)
		assert.Equal(t, users[1].ID, found.ID, "ID does not match")
		assert.Equal(t, "user2@example.com", found.Email)
	})

	t.Run("email not found error", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		found, err := repo.FindByEmail(context.Background(), "notfound@example.com")

		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
		assert.Nil(t, found)
	})
}

func TestUserGorm_Update(t *testing.T) {
	t.Run("overwrites all mutable fields", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		user := newUser("old@example.com")
		require.NoError(t, repo.Create(context.Background(), user))
		createdAt := user.CreatedAt

		user.FirstName = "Jane"
		user.LastName = "Roe"
		user.Nickname = "janer"
		user.Email = "new@example.com"
		user.Password = "new_hash"
		require.NoError(t, repo.Update(context.Background(), user))

		found, err := repo.FindByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Jane", found.FirstName)
		assert.Equal(t, "Roe", found.LastName)
		assert.Equal(t, "janer", found.Nickname)
		assert.Equal(t, "new@example.com", found.Email)
		assert.Equal(t, "new_hash", found.Password)
		assert.Equal(t, createdAt.Unix(), found.CreatedAt.Unix(), "CreatedAt must not change")
		assert.False(t, found.UpdatedAt.Before(createdAt))
	})

	t.Run("missing row is not found and nothing is inserted", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		user := newUser("ghost@example.com")
		user.ID = 42

		err := repo.Update(context.Background(), user)

		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
		assert.Equal(t, int64(0), countUsers(t, db))
	})

	t.Run("email collision with another row is a storage error", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		require.NoError(t, repo.Create(context.Background(), newUser("a@example.com")))
		b := newUser("b@example.com")
		require.NoError(t, repo.Create(context.Background(), b))

		b.Email = "a@example.com"
		err := repo.Update(context.Background(), b)

		assert.ErrorIs(t, err, usecase.ErrStorage)

		found, err := repo.FindByID(context.Background(), b.ID)
		require.NoError(t, err)
		assert.Equal(t, "b@example.com", found.Email, "failed update must be rolled back")
	})
}

func TestUserGorm_Delete(t *testing.T) {
	t.Run("hard deletes the row", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		user := newUser("delete@example.com")
		require.NoError(t, repo.Create(context.Background(), user))

		require.NoError(t, repo.Delete(context.Background(), user.ID))

		_, err := repo.FindByID(context.Background(), user.ID)
		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
		assert.Equal(t, int64(0), countUsers(t, db))
	})

	t.Run("missing row", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		err := repo.Delete(context.Background(), 7)

		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
	})
}

func TestUserGorm_List(t *testing.T) {
	t.Run("empty table", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		users, err := repo.List(context.Background())

		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("returns all users ordered by ID", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		for _, email := range []string{"c@example.com", "a@example.com", "b@example.com"} {
			require.NoError(t, repo.Create(context.Background(), newUser(email)))
		}

		users, err := repo.List(context.Background())

		require.NoError(t, err)
		require.Len(t, users, 3)
		assert.Equal(t, "c@example.com", users[0].Email)
		assert.Equal(t, "a@example.com", users[1].Email)
		assert.Equal(t, "b@example.com", users[2].Email)
		assert.Less(t, users[0].ID, users[1].ID)
		assert.Less(t, users[1].ID, users[2].ID)
	})

	t.Run("storage failure", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)
		require.NoError(t, db.Migrator().DropTable(&entity.User{}))

		_, err := repo.List(context.Background())

		assert.ErrorIs(t, err, usecase.ErrStorage)
	})
}
