package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"edubatch/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	t.Run("successful_creation", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewUserRepository(db)

		now := time.Now()
		mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO users (name, email, phone_number, gender, role, password_hash, created_by, updated_by, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
		RETURNING id, created_at, updated_at
	`)).
			WithArgs("alice", "alice@example.com", "5550100", 1, domain.RoleStudent, "hashed", int64(1), int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(int64(3), now, now))

		user := &domain.User{
			Name:         "alice",
			Email:        "alice@example.com",
			PhoneNumber:  "5550100",
			Gender:       1,
			Role:         domain.RoleStudent,
			PasswordHash: "hashed",
			CreatedBy:    1,
			UpdatedBy:    1,
		}

		err = repo.Create(context.Background(), user)
		require.NoError(t, err)
		assert.Equal(t, int64(3), user.ID)
		assert.True(t, user.IsActive)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate_email_error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewUserRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

		err = repo.Create(context.Background(), &domain.User{Email: "alice@example.com"})
		require.Error(t, err)
		assert.Equal(t, domain.ErrEmailExists, err)
	})

	t.Run("duplicate_phone_error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewUserRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_phone_number_key"})

		err = repo.Create(context.Background(), &domain.User{PhoneNumber: "5550100"})
		require.Error(t, err)
		assert.Equal(t, domain.ErrPhoneExists, err)
	})

	t.Run("query_error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewUserRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
			WillReturnError(errors.New("database error"))

		err = repo.Create(context.Background(), &domain.User{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create user")
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	t.Run("successful_retrieval", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewUserRepository(db)

		now := time.Now()
		mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, name, email, phone_number, gender, role, password_hash, created_at, created_by, updated_at, updated_by, is_active
		FROM users
		WHERE id = $1
	`)).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone_number", "gender", "role", "password_hash", "created_at", "created_by", "updated_at", "updated_by", "is_active"}).
				AddRow(int64(3), "alice", "alice@example.com", "5550100", 1, int(domain.RoleMentor), "hashed", now, int64(1), now, int64(1), true))

		user, err := repo.GetByID(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Name)
		assert.Equal(t, domain.RoleMentor, user.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("user_not_found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewUserRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM users`)).
			WithArgs(int64(404)).
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetByID(context.Background(), 404)
		require.Error(t, err)
		assert.Nil(t, user)
		assert.Equal(t, domain.ErrUserNotFound, err)
	})
}

func TestUserRepository_Update(t *testing.T) {
	t.Run("missing_user", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewUserRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users`)).
			WillReturnError(sql.ErrNoRows)

		err = repo.Update(context.Background(), &domain.User{ID: 404})
		require.Error(t, err)
		assert.Equal(t, domain.ErrUserNotFound, err)
	})
}
