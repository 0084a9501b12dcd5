package models

import "time"

// Hotel is the cached supplier metadata for one property.
type Hotel struct {
	ID          string    `bson:"id" json:"id" binding:"required"` // supplier hotel id
	Name        string    `bson:"name" json:"name" binding:"required"`
	RegionID    int       `bson:"region_id,omitempty" json:"region_id,omitempty"`
	Address     string    `bson:"address,omitempty" json:"address,omitempty"`
	StarRating  int       `bson:"star_rating,omitempty" json:"star_rating,omitempty"`
	Images      []string  `bson:"images,omitempty" json:"images,omitempty"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Latitude    float64   `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude   float64   `bson:"longitude,omitempty" json:"longitude,omitempty"`
	Amenities   []string  `bson:"amenities,omitempty" json:"amenities,omitempty"`
	LastUpdated time.Time `bson:"last_updated" json:"last_updated"`
}
