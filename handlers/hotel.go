package handlers

import (
	"errors"
	"net/http"

	hotelRepo "staybridge/database/repository/hotel"
	"staybridge/models"
	"staybridge/services/hotel"
	"staybridge/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HotelHandler struct {
	Service hotel.HotelService
}

func NewHotelHandler(svc hotel.HotelService) *HotelHandler {
	return &HotelHandler{Service: svc}
}

// SeedTestHotelHandler caches the certification hotel.
func (h *HotelHandler) SeedTestHotelHandler(c *gin.Context) {
	seeded, err := h.Service.SeedTestHotel(c.Request.Context())
	if err != nil {
		getLogger(c).Error("failed to seed test hotel", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to seed test hotel", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Test hotel seeded", "hotel": seeded})
}

// UpsertHotelHandler caches supplier metadata for the hotel named in the path.
func (h *HotelHandler) UpsertHotelHandler(c *gin.Context) {
	in := models.Hotel{ID: c.Param("id")}
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid hotel", err.Error())
		return
	}
	in.ID = c.Param("id")

	err := h.Service.Upsert(c.Request.Context(), &in)
	if errors.Is(err, hotel.ErrInvalidHotel) {
		utils.JSONError(c, http.StatusBadRequest, "invalid hotel", err.Error())
		return
	}
	if err != nil {
		getLogger(c).Error("failed to cache hotel", zap.String("hotel_id", in.ID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to cache hotel", err.Error())
		return
	}
	c.JSON(http.StatusOK, in)
}

func (h *HotelHandler) GetHotelHandler(c *gin.Context) {
	id := c.Param("id")
	found, err := h.Service.Get(c.Request.Context(), id)
	if errors.Is(err, hotelRepo.ErrHotelNotFound) {
		utils.JSONError(c, http.StatusNotFound, "hotel not found", id)
		return
	}
	if err != nil {
		getLogger(c).Error("failed to fetch hotel", zap.String("hotel_id", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch hotel", err.Error())
		return
	}
	c.JSON(http.StatusOK, found)
}
