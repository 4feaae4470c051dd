package repository_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/lokatani/marketplace-api/internal/models"
	repository "github.com/lokatani/marketplace-api/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewUserRepo(db)
	ctx := t.Context()

	insertSQL := regexp.QuoteMeta(`INSERT INTO users (username, password, name, phone, role)`)
	selectSQL := regexp.QuoteMeta(`FROM users WHERE username = $1`)

	t.Run("CreateUser", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			// Arrange
			user := &models.User{Username: "farmerA", Password: "hashed", Name: "Farmer A", Phone: "0812", Role: models.RoleSeller}
			newID := uuid.New()
			now := time.Now()

			mock.ExpectQuery(insertSQL).
				WithArgs(user.Username, user.Password, user.Name, user.Phone, user.Role).
				WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(newID.String(), now))

			// Act
			err := repo.CreateUser(ctx, user)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, newID, user.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Duplicate username", func(t *testing.T) {
			// Arrange
			user := &models.User{Username: "farmerA", Password: "hashed", Role: models.RoleSeller}

			mock.ExpectQuery(insertSQL).WillReturnError(&pq.Error{Code: "23505"})

			// Act
			err := repo.CreateUser(ctx, user)

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, repository.ErrDuplicateUsername)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Database error", func(t *testing.T) {
			dbError := errors.New("connection reset")
			mock.ExpectQuery(insertSQL).WillReturnError(dbError)

			err := repo.CreateUser(ctx, &models.User{Username: "buyerB"})

			assert.ErrorIs(t, err, dbError)
			assert.NotErrorIs(t, err, repository.ErrDuplicateUsername)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("GetUserByUsername", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			// Arrange
			id := uuid.New()
			now := time.Now()

			mock.ExpectQuery(selectSQL).
				WithArgs("buyerB").
				WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "name", "phone", "role", "created_at"}).
					AddRow(id.String(), "buyerB", "hashed", "Buyer B", "0813", "buyer", now))

			// Act
			user, err := repo.GetUserByUsername(ctx, "buyerB")

			// Assert
			require.NoError(t, err)
			assert.Equal(t, id, user.ID)
			assert.Equal(t, models.RoleBuyer, user.Role)
			assert.Equal(t, "hashed", user.Password)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Not Found", func(t *testing.T) {
			mock.ExpectQuery(selectSQL).WithArgs("nobody").WillReturnError(sql.ErrNoRows)

			user, err := repo.GetUserByUsername(ctx, "nobody")

			assert.Nil(t, user)
			assert.ErrorIs(t, err, sql.ErrNoRows)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})
}
