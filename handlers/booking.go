package handlers

import (
	"errors"
	"net/http"

	"staybridge/models"
	"staybridge/services/booking"
	"staybridge/services/supplier"
	"staybridge/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the individual order calls and the orchestrated booking flow.
type BookingHandler struct {
	Orders  booking.OrderAPI
	Service booking.BookingService
}

func NewBookingHandler(orders booking.OrderAPI, svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Orders: orders, Service: svc}
}

// CreateBookingHandler forwards an order form to the supplier.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var req supplier.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid create request", err.Error())
		return
	}
	if req.Language == "" {
		req.Language = models.DefaultBookingLanguage
	}
	if req.UserIP == "" {
		req.UserIP = c.ClientIP()
	}

	res, err := h.Orders.CreateOrder(c.Request.Context(), req)
	if err != nil {
		supplierError(c, "create booking failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type startInput struct {
	PartnerOrderID string                  `json:"partner_order_id" binding:"required"`
	PaymentType    models.PaymentSelection `json:"payment_type"`
	Rooms          []models.Room           `json:"rooms" binding:"required,min=1,dive"`
	User           models.ContactInfo      `json:"user"`
	Language       string                  `json:"language"`
}

// StartBookingHandler submits guests and payment for a created order.
func (h *BookingHandler) StartBookingHandler(c *gin.Context) {
	var in startInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid start request", err.Error())
		return
	}
	if in.Language == "" {
		in.Language = models.DefaultBookingLanguage
	}

	err := h.Orders.StartOrder(c.Request.Context(), supplier.StartOrderRequest{
		Partner:     supplier.PartnerRef{PartnerOrderID: in.PartnerOrderID},
		PaymentType: in.PaymentType,
		Rooms:       in.Rooms,
		User:        in.User,
		Language:    in.Language,
	})
	if err != nil {
		supplierError(c, "start booking failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"partner_order_id": in.PartnerOrderID})
}

// BookingStatusHandler performs a single status check.
func (h *BookingHandler) BookingStatusHandler(c *gin.Context) {
	var in supplier.PartnerRef
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid status request", err.Error())
		return
	}

	st, err := h.Orders.OrderStatus(c.Request.Context(), in.PartnerOrderID)
	if err != nil {
		supplierError(c, "check booking status failed", err)
		return
	}
	resp := gin.H{"partner_order_id": in.PartnerOrderID}
	if percent, ok := st.Percent(); ok {
		resp["percent"] = percent
	}
	c.JSON(http.StatusOK, resp)
}

// BookHandler runs the whole create, start and poll workflow and answers with its outcome.
func (h *BookingHandler) BookHandler(c *gin.Context) {
	logger := getLogger(c)
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking request", err.Error())
		return
	}

	out := h.Service.Book(c.Request.Context(), req)
	logger.Info("booking finished",
		zap.String("partner_order_id", out.PartnerOrderID),
		zap.String("status", string(out.Status)),
		zap.Int("attempts", out.Attempts),
	)
	c.JSON(outcomeStatusCode(out), gin.H{
		"outcome": out,
		"message": out.Message(),
	})
}

// outcomeStatusCode keeps an unresolved booking apart from a failed one.
func outcomeStatusCode(out models.BookingOutcome) int {
	switch out.Status {
	case models.OutcomeConfirmed:
		return http.StatusOK
	case models.OutcomeTimedOut:
		return http.StatusAccepted
	default:
		return http.StatusUnprocessableEntity
	}
}

// EnqueueBookingHandler queues the workflow and returns immediately.
func (h *BookingHandler) EnqueueBookingHandler(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking request", err.Error())
		return
	}

	id, err := h.Service.Enqueue(c.Request.Context(), req)
	if errors.Is(err, booking.ErrDuplicateBooking) {
		utils.JSONError(c, http.StatusConflict, "booking already submitted", id)
		return
	}
	if err != nil {
		getLogger(c).Error("failed to enqueue booking", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to enqueue booking", err.Error())
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"partner_order_id": id,
		"progress_url":     "/api/booking/" + id + "/progress",
	})
}

// BookingProgressHandler returns the latest stored progress of a booking.
func (h *BookingHandler) BookingProgressHandler(c *gin.Context) {
	id := c.Param("partnerOrderId")
	session, err := h.Service.Progress(c.Request.Context(), id)
	if errors.Is(err, booking.ErrSessionNotFound) {
		utils.JSONError(c, http.StatusNotFound, "booking not found", id)
		return
	}
	if err != nil {
		getLogger(c).Error("failed to load booking progress", zap.String("partner_order_id", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to load booking progress", err.Error())
		return
	}
	c.JSON(http.StatusOK, session)
}
