package hotelRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staybridge/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const hotelsCollection = "hotels"

// MongoHotelRepo implements HotelRepository using MongoDB.
type MongoHotelRepo struct {
	coll *mongo.Collection
}

// NewMongoHotelRepo binds the repository to the "hotels" collection and makes sure its indexes exist.
func NewMongoHotelRepo(db *mongo.Database) (*MongoHotelRepo, error) {
	repo := &MongoHotelRepo{coll: db.Collection(hotelsCollection)}
	if err := repo.ensureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

// Upsert replaces the document with the same supplier id, inserting it when missing.
func (r *MongoHotelRepo) Upsert(ctx context.Context, hotel *models.Hotel) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	hotel.LastUpdated = time.Now().UTC()
	filter := bson.M{"id": hotel.ID}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, filter, hotel, opts); err != nil {
		return fmt.Errorf("failed to upsert hotel %s: %w", hotel.ID, err)
	}
	return nil
}

func (r *MongoHotelRepo) GetByID(ctx context.Context, id string) (*models.Hotel, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var hotel models.Hotel
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&hotel); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrHotelNotFound
		}
		return nil, fmt.Errorf("failed to fetch hotel with id %s: %w", id, err)
	}
	return &hotel, nil
}
