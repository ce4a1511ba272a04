package items

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rewear/rewear-backend/internal/wishlist"
	"github.com/rewear/rewear-backend/pkg/db"
	"github.com/rewear/rewear-backend/pkg/db/dbtest"
	"github.com/rewear/rewear-backend/pkg/db/models"
	"github.com/rewear/rewear-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	client *db.Client
	repo   *Repository
	wish   *wishlist.Repository
	images *fakeImages
	svc    Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	client := dbtest.Open(t)
	f := &fixture{
		client: client,
		repo:   NewRepository(client.DB()),
		wish:   wishlist.NewRepository(client.DB()),
		images: &fakeImages{},
	}
	svc, err := NewService(ServiceParams{
		Repo:         f.repo,
		Wishlist:     f.wish,
		DB:           client,
		Images:       f.images,
		ImagesPrefix: "/uploads",
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	u := &models.User{
		Name:         name,
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
		Location:     "Austin",
	}
	require.NoError(t, f.client.DB().Create(u).Error)
	return u
}

type itemOpt func(*models.Item)

func (f *fixture) item(t *testing.T, seller *models.User, opts ...itemOpt) *models.Item {
	t.Helper()
	it := &models.Item{
		SellerID:     seller.ID,
		Title:        "Denim Jacket",
		Description:  "Classic blue denim jacket",
		Category:     enums.ItemCategoryOuterwear,
		Condition:    enums.ItemConditionGood,
		Size:         "M",
		Price:        decimal.RequireFromString("25.00"),
		Points:       50,
		Images:       []string{"/uploads/images_1_abc.jpg"},
		Location:     "Austin",
		IsAvailable:  true,
		ExchangeType: enums.ExchangeTypeSale,
	}
	for _, opt := range opts {
		opt(it)
	}
	_, err := f.repo.Create(context.Background(), it)
	require.NoError(t, err)
	return it
}

func withTitle(title string) itemOpt { return func(i *models.Item) { i.Title = title } }

func withPrice(price string) itemOpt {
	return func(i *models.Item) { i.Price = decimal.RequireFromString(price) }
}

func withCategory(c enums.ItemCategory) itemOpt { return func(i *models.Item) { i.Category = c } }

func unavailable() itemOpt { return func(i *models.Item) { i.IsAvailable = false } }

func featured() itemOpt { return func(i *models.Item) { i.IsFeatured = true } }

func createdAt(ts time.Time) itemOpt { return func(i *models.Item) { i.CreatedAt = ts } }

type fakeImages struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (f *fakeImages) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return f.err
}
