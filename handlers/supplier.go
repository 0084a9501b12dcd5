package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"staybridge/services/supplier"
	"staybridge/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SearchAPI is the availability side of the supplier client.
type SearchAPI interface {
	SearchRegion(ctx context.Context, req supplier.RegionSearchRequest) (json.RawMessage, error)
	SearchHotels(ctx context.Context, req supplier.HotelsSearchRequest) (json.RawMessage, error)
	HotelPage(ctx context.Context, req supplier.HotelPageRequest) (json.RawMessage, error)
	Prebook(ctx context.Context, req supplier.PrebookRequest) (json.RawMessage, error)
}

// SupplierHandler forwards search, hotel page and prebook requests to the supplier.
type SupplierHandler struct {
	API SearchAPI
}

func NewSupplierHandler(api SearchAPI) *SupplierHandler {
	return &SupplierHandler{API: api}
}

type searchInput struct {
	RegionID  int                   `json:"regionId"`
	IDs       []string              `json:"ids"`
	Checkin   string                `json:"checkin" binding:"required"`
	Checkout  string                `json:"checkout" binding:"required"`
	Guests    []supplier.GuestGroup `json:"guests" binding:"required,min=1"`
	Residency string                `json:"residency"`
	Currency  string                `json:"currency"`
}

func (in searchInput) params() supplier.SearchParams {
	return supplier.SearchParams{
		Checkin:   in.Checkin,
		Checkout:  in.Checkout,
		Residency: in.Residency,
		Currency:  in.Currency,
		Guests:    in.Guests,
	}
}

// SearchHandler searches by hotel ids when given, otherwise by region.
func (h *SupplierHandler) SearchHandler(c *gin.Context) {
	var in searchInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid search request", err.Error())
		return
	}

	var (
		data json.RawMessage
		err  error
	)
	switch {
	case len(in.IDs) > 0:
		data, err = h.API.SearchHotels(c.Request.Context(), supplier.HotelsSearchRequest{SearchParams: in.params(), IDs: in.IDs})
	case in.RegionID != 0:
		data, err = h.API.SearchRegion(c.Request.Context(), supplier.RegionSearchRequest{SearchParams: in.params(), RegionID: in.RegionID})
	default:
		utils.JSONError(c, http.StatusBadRequest, "Region ID or Hotel IDs required", "")
		return
	}
	if err != nil {
		supplierError(c, "search failed", err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", nonNull(data))
}

type hotelPageInput struct {
	SearchID  string                `json:"searchId"`
	HotelID   string                `json:"hotelId" binding:"required"`
	Checkin   string                `json:"checkin" binding:"required"`
	Checkout  string                `json:"checkout" binding:"required"`
	Guests    []supplier.GuestGroup `json:"guests" binding:"required,min=1"`
	Residency string                `json:"residency"`
	Currency  string                `json:"currency"`
}

// HotelPageHandler returns all rates of one hotel.
func (h *SupplierHandler) HotelPageHandler(c *gin.Context) {
	var in hotelPageInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid hotel page request", err.Error())
		return
	}
	if in.SearchID != "" {
		getLogger(c).Debug("hotel page requested from search", zap.String("search_id", in.SearchID))
	}

	data, err := h.API.HotelPage(c.Request.Context(), supplier.HotelPageRequest{
		SearchParams: supplier.SearchParams{
			Checkin:   in.Checkin,
			Checkout:  in.Checkout,
			Residency: in.Residency,
			Currency:  in.Currency,
			Guests:    in.Guests,
		},
		ID: in.HotelID,
	})
	if err != nil {
		supplierError(c, "hotel page failed", err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", nonNull(data))
}

// PrebookHandler re-checks a rate and returns its book hash.
func (h *SupplierHandler) PrebookHandler(c *gin.Context) {
	var in struct {
		Hash                 string `json:"hash" binding:"required"`
		PriceIncreasePercent int    `json:"price_increase_percent"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid prebook request", err.Error())
		return
	}

	data, err := h.API.Prebook(c.Request.Context(), supplier.PrebookRequest{
		Hash:                 in.Hash,
		PriceIncreasePercent: in.PriceIncreasePercent,
	})
	if err != nil {
		supplierError(c, "prebook failed", err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", nonNull(data))
}

// nonNull turns an absent data member into an empty object.
func nonNull(data json.RawMessage) []byte {
	if len(data) == 0 || string(data) == "null" {
		return []byte("{}")
	}
	return data
}
