package supplier

import (
	"context"
	"encoding/json"
	"fmt"

	"staybridge/models"
)

const (
	defaultCurrency      = "USD"
	defaultSearchTimeout = 30 // seconds, passed to the supplier
)

// GuestGroup is the occupancy of one requested room.
type GuestGroup struct {
	Adults   int   `json:"adults"`
	Children []int `json:"children"` // ages
}

// SearchParams are shared by every availability request.
type SearchParams struct {
	Checkin   string       `json:"checkin" binding:"required"`
	Checkout  string       `json:"checkout" binding:"required"`
	Residency string       `json:"residency"`
	Currency  string       `json:"currency,omitempty"`
	Guests    []GuestGroup `json:"guests" binding:"required,min=1"`
	Timeout   int          `json:"timeout,omitempty"`
}

type RegionSearchRequest struct {
	SearchParams
	RegionID int `json:"region_id"`
}

type HotelsSearchRequest struct {
	SearchParams
	IDs []string `json:"ids"`
}

type HotelPageRequest struct {
	SearchParams
	ID string `json:"id"`
}

type PrebookRequest struct {
	Hash                 string `json:"hash"`
	PriceIncreasePercent int    `json:"price_increase_percent,omitempty"`
}

func (p SearchParams) withDefaults(currency bool) SearchParams {
	if currency && p.Currency == "" {
		p.Currency = defaultCurrency
	}
	if p.Timeout == 0 {
		p.Timeout = defaultSearchTimeout
	}
	return p
}

// SearchRegion runs a SERP search over a whole region.
func (c *Client) SearchRegion(ctx context.Context, req RegionSearchRequest) (json.RawMessage, error) {
	req.SearchParams = req.SearchParams.withDefaults(true)
	return c.post(ctx, "search_region", "/search/serp/region/", req)
}

// SearchHotels runs a SERP search restricted to the given hotel ids.
func (c *Client) SearchHotels(ctx context.Context, req HotelsSearchRequest) (json.RawMessage, error) {
	req.SearchParams = req.SearchParams.withDefaults(true)
	return c.post(ctx, "search_hotels", "/search/serp/hotels/", req)
}

// HotelPage returns every rate of one hotel.
func (c *Client) HotelPage(ctx context.Context, req HotelPageRequest) (json.RawMessage, error) {
	req.SearchParams = req.SearchParams.withDefaults(false)
	return c.post(ctx, "hotel_page", "/search/hp/", req)
}

// Prebook re-checks a rate and returns the book_hash needed to create an order.
func (c *Client) Prebook(ctx context.Context, req PrebookRequest) (json.RawMessage, error) {
	if req.PriceIncreasePercent < 0 {
		req.PriceIncreasePercent = 0
	}
	return c.post(ctx, "prebook", "/hotel/prebook/", req)
}

// HotelOffer is the slice of a search/hotel-page/prebook hotel entry the backend needs to read.
type HotelOffer struct {
	ID    string `json:"id"`
	Rates []Rate `json:"rates"`
}

type Rate struct {
	BookHash       string         `json:"book_hash"`
	MatchHash      string         `json:"match_hash"`
	RoomName       string         `json:"room_name"`
	PaymentOptions PaymentOptions `json:"payment_options"`
}

type PaymentOptions struct {
	PaymentTypes []PaymentType `json:"payment_types"`
}

type PaymentType struct {
	Type             string `json:"type"`
	Amount           string `json:"amount"`
	CurrencyCode     string `json:"currency_code"`
	ShowAmount       string `json:"show_amount"`
	ShowCurrencyCode string `json:"show_currency_code"`
}

// Hash prefers the book hash and falls back to the match hash.
func (r Rate) Hash() string {
	if r.BookHash != "" {
		return r.BookHash
	}
	return r.MatchHash
}

// Selection echoes the first payment type of the rate under the given payment kind.
func (r Rate) Selection(kind string) (models.PaymentSelection, bool) {
	if len(r.PaymentOptions.PaymentTypes) == 0 {
		return models.PaymentSelection{}, false
	}
	pt := r.PaymentOptions.PaymentTypes[0]
	return models.PaymentSelection{
		Type:         kind,
		Amount:       pt.Amount,
		CurrencyCode: pt.CurrencyCode,
	}, true
}

// DecodeHotels reads the "hotels" array out of a search, hotel page or prebook payload.
func DecodeHotels(data json.RawMessage) ([]HotelOffer, error) {
	var payload struct {
		Hotels []HotelOffer `json:"hotels"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode hotels: %w", err)
	}
	return payload.Hotels, nil
}
