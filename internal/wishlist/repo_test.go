package wishlist

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rewear/rewear-backend/pkg/db/dbtest"
	"github.com/rewear/rewear-backend/pkg/db/models"
	"github.com/rewear/rewear-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seed(t *testing.T, conn *gorm.DB, names ...string) ([]models.User, models.Item) {
	t.Helper()
	users := make([]models.User, 0, len(names))
	for _, name := range names {
		u := models.User{Name: name, Email: uuid.NewString() + "@example.com", PasswordHash: "x"}
		require.NoError(t, conn.Create(&u).Error)
		users = append(users, u)
	}
	item := models.Item{
		SellerID:    users[0].ID,
		Title:       "Linen shirt",
		Description: "Loose summer linen shirt",
		Category:    enums.ItemCategoryShirts,
		Condition:   enums.ItemConditionExcellent,
		Size:        "L",
		Price:       decimal.NewFromInt(15),
		Images:      []string{"/uploads/a.jpg"},
		Location:    "Lyon",
		IsAvailable: true,
	}
	require.NoError(t, conn.Create(&item).Error)
	return users, item
}

func TestToggleAddsThenRemoves(t *testing.T) {
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()
	users, item := seed(t, client.DB(), "Ana", "Ben")

	added, err := repo.Toggle(ctx, users[1].ID, item.ID)
	require.NoError(t, err)
	assert.True(t, added)

	exists, err := repo.Exists(ctx, users[1].ID, item.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	added, err = repo.Toggle(ctx, users[1].ID, item.ID)
	require.NoError(t, err)
	assert.False(t, added)

	exists, err = repo.Exists(ctx, users[1].ID, item.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestToggleInsideTransaction(t *testing.T) {
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()
	users, item := seed(t, client.DB(), "Ana", "Ben")

	var added bool
	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		added, err = repo.WithTx(tx).Toggle(ctx, users[1].ID, item.ID)
		return err
	}))
	assert.True(t, added)

	var count int64
	require.NoError(t, client.DB().Model(&models.WishlistItem{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestToggleRejectsNilIDs(t *testing.T) {
	client := dbtest.Open(t)
	_, err := NewRepository(client.DB()).Toggle(context.Background(), uuid.Nil, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrInvalidValue)
}

func TestUsersForItemReturnsIDAndNameInOrder(t *testing.T) {
	client := dbtest.Open(t)
	conn := client.DB()
	repo := NewRepository(conn)
	ctx := context.Background()
	users, item := seed(t, conn, "Ana", "Ben", "Cy")

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, conn.Create(&models.WishlistItem{UserID: users[2].ID, ItemID: item.ID, CreatedAt: base}).Error)
	require.NoError(t, conn.Create(&models.WishlistItem{UserID: users[1].ID, ItemID: item.ID, CreatedAt: base.Add(time.Minute)}).Error)

	got, err := repo.UsersForItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Cy", got[0].Name)
	assert.Equal(t, "Ben", got[1].Name)
	assert.Empty(t, got[0].Email)
}

func TestDeleteByItemClearsEntries(t *testing.T) {
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()
	users, item := seed(t, client.DB(), "Ana", "Ben")
	_, err := repo.Toggle(ctx, users[0].ID, item.ID)
	require.NoError(t, err)
	_, err = repo.Toggle(ctx, users[1].ID, item.ID)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByItem(ctx, item.ID))

	got, err := repo.UsersForItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}
