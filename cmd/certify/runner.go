package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"staybridge/models"
	"staybridge/services/booking"
	"staybridge/services/hotel"
	"staybridge/services/supplier"

	"go.uber.org/zap"
)

type searchAPI interface {
	SearchRegion(ctx context.Context, req supplier.RegionSearchRequest) (json.RawMessage, error)
	SearchHotels(ctx context.Context, req supplier.HotelsSearchRequest) (json.RawMessage, error)
	HotelPage(ctx context.Context, req supplier.HotelPageRequest) (json.RawMessage, error)
	Prebook(ctx context.Context, req supplier.PrebookRequest) (json.RawMessage, error)
}

type runner struct {
	api          searchAPI
	orchestrator *booking.Orchestrator
	logger       *zap.Logger

	checkin, checkout, currency string
}

func (r *runner) params(sc scenario) supplier.SearchParams {
	return supplier.SearchParams{
		Checkin:   r.checkin,
		Checkout:  r.checkout,
		Residency: sc.Residency,
		Currency:  r.currency,
		Guests:    sc.Guests,
	}
}

func (r *runner) run(ctx context.Context, idx int, sc scenario) error {
	hotelID, err := r.search(ctx, sc)
	if err != nil {
		return err
	}
	r.logger.Info("Found hotel", zap.String("hotel_id", hotelID))

	raw, err := r.api.HotelPage(ctx, supplier.HotelPageRequest{SearchParams: r.params(sc), ID: hotelID})
	if err != nil {
		return fmt.Errorf("hotel page: %w", err)
	}
	offer, err := firstHotel(raw)
	if err != nil {
		return fmt.Errorf("hotel page: %w", err)
	}
	r.logger.Info("HP Hotel", zap.String("hotel_id", offer.ID), zap.Int("rates", len(offer.Rates)))

	rate, err := r.prebook(ctx, offer.Rates)
	if err != nil {
		return err
	}
	if len(sc.Rooms) == 0 {
		return nil
	}

	payment, ok := rate.Selection("deposit")
	if !ok {
		return errors.New("prebooked rate has no payment types")
	}
	req := models.BookingRequest{
		BookHash:       rate.BookHash,
		PartnerOrderID: fmt.Sprintf("ord_cert_%d_%d", idx, time.Now().UnixMilli()),
		Rooms:          sc.Rooms,
		Contact: models.ContactInfo{
			Email:   "test@example.com",
			Phone:   "1234567890",
			Comment: sc.Comment,
		},
		Payment: payment,
	}

	out := r.orchestrator.Execute(ctx, req, func(s models.BookingSession) {
		fields := []zap.Field{zap.String("phase", string(s.Phase)), zap.Int("attempt", s.Attempt)}
		if s.LastPercent != nil {
			fields = append(fields, zap.Int("percent", *s.LastPercent))
		}
		r.logger.Info(s.Label, fields...)
	})
	r.logger.Info(out.Message(), zap.String("partner_order_id", out.PartnerOrderID))
	if out.Failed() {
		return fmt.Errorf("booking failed: %s", out.Reason)
	}
	return nil
}

func (r *runner) search(ctx context.Context, sc scenario) (string, error) {
	var (
		raw json.RawMessage
		err error
	)
	if sc.RegionID != 0 {
		r.logger.Info(fmt.Sprintf("Searching Region %d...", sc.RegionID))
		raw, err = r.api.SearchRegion(ctx, supplier.RegionSearchRequest{SearchParams: r.params(sc), RegionID: sc.RegionID})
	} else {
		r.logger.Info("Searching...")
		raw, err = r.api.SearchHotels(ctx, supplier.HotelsSearchRequest{SearchParams: r.params(sc), IDs: []string{hotel.TestHotelID}})
	}
	if err != nil {
		return "", fmt.Errorf("search: %w", err)
	}
	offer, err := firstHotel(raw)
	if err != nil {
		return "", fmt.Errorf("search: %w", err)
	}
	return offer.ID, nil
}

// prebook walks the first few rates until the supplier hands back a book hash.
func (r *runner) prebook(ctx context.Context, rates []supplier.Rate) (supplier.Rate, error) {
	tries := min(len(rates), maxPrebookTries)
	for i := 0; i < tries; i++ {
		hash := rates[i].Hash()
		r.logger.Info(fmt.Sprintf("Trying rate %d", i), zap.String("hash", hash))

		raw, err := r.api.Prebook(ctx, supplier.PrebookRequest{Hash: hash})
		if err != nil {
			r.logger.Warn(fmt.Sprintf("Prebook failed for rate %d", i), zap.Error(err))
			continue
		}
		offer, err := firstHotel(raw)
		if err != nil || len(offer.Rates) == 0 || offer.Rates[0].BookHash == "" {
			r.logger.Warn(fmt.Sprintf("Prebook for rate %d returned no book hash", i))
			continue
		}
		r.logger.Info("Prebook successful!", zap.String("book_hash", offer.Rates[0].BookHash))
		return offer.Rates[0], nil
	}
	return supplier.Rate{}, errors.New("all prebook attempts failed")
}

func firstHotel(raw json.RawMessage) (supplier.HotelOffer, error) {
	hotels, err := supplier.DecodeHotels(raw)
	if err != nil {
		return supplier.HotelOffer{}, err
	}
	if len(hotels) == 0 {
		return supplier.HotelOffer{}, errors.New("no hotels found")
	}
	return hotels[0], nil
}
