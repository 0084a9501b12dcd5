package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingWebhookHandler acknowledges supplier order notifications. They are only logged;
// the polling workflow stays the source of truth for an order's outcome.
func BookingWebhookHandler(c *gin.Context) {
	logger := getLogger(c)
	body, err := c.GetRawData()
	if err != nil {
		logger.Warn("failed to read webhook body", zap.Error(err))
		c.String(http.StatusBadRequest, "invalid body")
		return
	}

	var event struct {
		PartnerOrderID string `json:"partner_order_id"`
		Status         string `json:"status"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		logger.Warn("received non-JSON booking webhook", zap.ByteString("body", body))
	} else {
		logger.Info("received booking webhook",
			zap.String("partner_order_id", event.PartnerOrderID),
			zap.String("status", event.Status),
			zap.ByteString("body", body),
		)
	}
	c.String(http.StatusOK, "OK")
}
