package hotelRepo

import (
	"context"
	"errors"

	"staybridge/models"
)

// ErrHotelNotFound is returned when no cached document has the requested id.
var ErrHotelNotFound = errors.New("hotel not found")

// HotelRepository is the keyed upsert cache for supplier hotel metadata.
type HotelRepository interface {
	Upsert(ctx context.Context, hotel *models.Hotel) error
	GetByID(ctx context.Context, id string) (*models.Hotel, error)
}
