package main

import (
	"context"
	"log"
	"time"

	"staybridge/config"
	"staybridge/database"
	hotelRepo "staybridge/database/repository/hotel"
	"staybridge/services/hotel"
	"staybridge/utils"

	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	database.InitDB(logger)
	defer func() {
		if err := database.CloseDB(context.Background()); err != nil {
			logger.Warn("failed to disconnect from MongoDB", zap.Error(err))
		}
	}()

	repo, err := hotelRepo.NewMongoHotelRepo(database.Database())
	if err != nil {
		log.Fatalf("Failed to initialize hotel repository: %v", err)
	}
	svc := &hotel.DefaultHotelService{Repo: repo, Logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	seeded, err := svc.SeedTestHotel(ctx)
	if err != nil {
		log.Fatalf("Failed to seed test hotel: %v", err)
	}
	log.Printf("Seeded %s (%s) into %s.hotels", seeded.ID, seeded.Name, config.AppConfig.DatabaseName)
}
