package repository_test

import (
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lokatani/marketplace-api/internal/models"
	repository "github.com/lokatani/marketplace-api/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartRepository(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewCartRepo(db)
	ctx := t.Context()

	userID := uuid.New()
	productID := uuid.New()
	now := time.Now()

	selectSQL := regexp.QuoteMeta(`SELECT user_id, items, updated_at FROM carts WHERE user_id = $1`)
	upsertSQL := regexp.QuoteMeta(`ON CONFLICT (user_id) DO UPDATE SET items = EXCLUDED.items`)
	updateSQL := regexp.QuoteMeta(`UPDATE carts SET items = $1, updated_at = NOW() WHERE user_id = $2`)

	t.Run("GetCartByUserID", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			// Arrange
			items, _ := json.Marshal([]models.CartItem{{ProductID: productID, Quantity: 3}})

			mock.ExpectQuery(selectSQL).
				WithArgs(userID).
				WillReturnRows(sqlmock.NewRows([]string{"user_id", "items", "updated_at"}).AddRow(userID.String(), items, now))

			// Act
			cart, err := repo.GetCartByUserID(ctx, userID)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, userID, cart.UserID)
			require.Len(t, cart.Items, 1)
			assert.Equal(t, productID, cart.Items[0].ProductID)
			assert.Equal(t, 3, cart.Items[0].Quantity)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Empty items decode to an empty slice", func(t *testing.T) {
			mock.ExpectQuery(selectSQL).
				WithArgs(userID).
				WillReturnRows(sqlmock.NewRows([]string{"user_id", "items", "updated_at"}).AddRow(userID.String(), []byte(`[]`), now))

			cart, err := repo.GetCartByUserID(ctx, userID)

			require.NoError(t, err)
			assert.NotNil(t, cart.Items)
			assert.Empty(t, cart.Items)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Not Found", func(t *testing.T) {
			mock.ExpectQuery(selectSQL).WithArgs(userID).WillReturnError(sql.ErrNoRows)

			cart, err := repo.GetCartByUserID(ctx, userID)

			assert.Nil(t, cart)
			assert.ErrorIs(t, err, sql.ErrNoRows)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("UpsertCart", func(t *testing.T) {
		t.Run("Writes an empty list for a cleared cart", func(t *testing.T) {
			// Arrange
			cart := &models.Cart{UserID: userID}

			mock.ExpectQuery(upsertSQL).
				WithArgs(userID, []byte(`[]`)).
				WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

			// Act
			err := repo.UpsertCart(ctx, cart)

			// Assert
			require.NoError(t, err)
			assert.WithinDuration(t, now, cart.UpdatedAt, time.Second)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Writes the full item list", func(t *testing.T) {
			cart := &models.Cart{UserID: userID, Items: []models.CartItem{{ProductID: productID, Quantity: 2}}}
			expected, _ := json.Marshal(cart.Items)

			mock.ExpectQuery(upsertSQL).
				WithArgs(userID, expected).
				WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

			err := repo.UpsertCart(ctx, cart)

			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("UpdateCartItems", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			cart := &models.Cart{UserID: userID, Items: []models.CartItem{}}

			mock.ExpectQuery(updateSQL).
				WithArgs([]byte(`[]`), userID).
				WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

			err := repo.UpdateCartItems(ctx, cart)

			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Missing cart", func(t *testing.T) {
			cart := &models.Cart{UserID: userID}

			mock.ExpectQuery(updateSQL).
				WithArgs([]byte(`[]`), userID).
				WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))

			err := repo.UpdateCartItems(ctx, cart)

			assert.ErrorIs(t, err, sql.ErrNoRows)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})
}
