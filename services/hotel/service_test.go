package hotel

import (
	"context"
	"sync"
	"testing"
	"time"

	hotelRepo "staybridge/database/repository/hotel"
	"staybridge/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryHotelRepo struct {
	mu     sync.Mutex
	hotels map[string]models.Hotel
}

func (r *memoryHotelRepo) Upsert(_ context.Context, h *models.Hotel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hotels == nil {
		r.hotels = map[string]models.Hotel{}
	}
	h.LastUpdated = time.Now().UTC()
	r.hotels[h.ID] = *h
	return nil
}

func (r *memoryHotelRepo) GetByID(_ context.Context, id string) (*models.Hotel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hotels[id]
	if !ok {
		return nil, hotelRepo.ErrHotelNotFound
	}
	return &h, nil
}

func newTestService() (*DefaultHotelService, *memoryHotelRepo) {
	repo := &memoryHotelRepo{}
	return &DefaultHotelService{Repo: repo, Logger: zap.NewNop()}, repo
}

func TestSeedTestHotel_IsIdempotent(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.SeedTestHotel(context.Background())
	require.NoError(t, err)
	_, err = svc.SeedTestHotel(context.Background())
	require.NoError(t, err)

	assert.Len(t, repo.hotels, 1)
	got, err := svc.Get(context.Background(), TestHotelID)
	require.NoError(t, err)
	assert.Equal(t, "Test Hotel (Do Not Book)", got.Name)
	assert.Equal(t, 5, got.StarRating)
	assert.Equal(t, []string{"Free Wifi", "Parking"}, got.Amenities)
	assert.False(t, got.LastUpdated.IsZero())
}

func TestGet_Missing(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, hotelRepo.ErrHotelNotFound)

	_, err = svc.Get(context.Background(), "")
	assert.ErrorIs(t, err, hotelRepo.ErrHotelNotFound)
}

func TestUpsert_Validates(t *testing.T) {
	svc, repo := newTestService()

	assert.ErrorIs(t, svc.Upsert(context.Background(), &models.Hotel{Name: "No ID"}), ErrInvalidHotel)
	assert.ErrorIs(t, svc.Upsert(context.Background(), &models.Hotel{ID: "h1"}), ErrInvalidHotel)
	assert.ErrorIs(t, svc.Upsert(context.Background(), nil), ErrInvalidHotel)
	assert.Empty(t, repo.hotels)

	require.NoError(t, svc.Upsert(context.Background(), &models.Hotel{ID: "h1", Name: "One"}))
	assert.Len(t, repo.hotels, 1)
}
