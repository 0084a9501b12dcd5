package hotel

import (
	"context"
	"errors"
	"fmt"

	hotelRepo "staybridge/database/repository/hotel"
	"staybridge/models"

	"go.uber.org/zap"
)

// TestHotelID is the supplier's sandbox property used for certification bookings.
const TestHotelID = "test_hotel_do_not_book"

var ErrInvalidHotel = errors.New("hotel id and name are required")

type HotelService interface {
	SeedTestHotel(ctx context.Context) (*models.Hotel, error)
	Get(ctx context.Context, id string) (*models.Hotel, error)
	Upsert(ctx context.Context, hotel *models.Hotel) error
}

type DefaultHotelService struct {
	Repo   hotelRepo.HotelRepository
	Logger *zap.Logger
}

// TestHotel returns the certification hotel document.
func TestHotel() *models.Hotel {
	return &models.Hotel{
		ID:          TestHotelID,
		Name:        "Test Hotel (Do Not Book)",
		RegionID:    0,
		Address:     "Test Address",
		StarRating:  5,
		Images:      []string{"https://via.placeholder.com/300"},
		Description: "This is a test hotel for API certification.",
		Amenities:   []string{"Free Wifi", "Parking"},
	}
}

func (s *DefaultHotelService) SeedTestHotel(ctx context.Context) (*models.Hotel, error) {
	h := TestHotel()
	if err := s.Upsert(ctx, h); err != nil {
		return nil, err
	}
	s.Logger.Info("seeded test hotel", zap.String("hotel_id", h.ID))
	return h, nil
}

func (s *DefaultHotelService) Get(ctx context.Context, id string) (*models.Hotel, error) {
	if id == "" {
		return nil, hotelRepo.ErrHotelNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultHotelService) Upsert(ctx context.Context, hotel *models.Hotel) error {
	if hotel == nil || hotel.ID == "" || hotel.Name == "" {
		return ErrInvalidHotel
	}
	if err := s.Repo.Upsert(ctx, hotel); err != nil {
		return fmt.Errorf("failed to cache hotel: %w", err)
	}
	return nil
}
