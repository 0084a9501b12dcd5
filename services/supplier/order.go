package supplier

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"staybridge/models"
)

type CreateOrderRequest struct {
	PartnerOrderID string `json:"partner_order_id" binding:"required"`
	BookHash       string `json:"book_hash" binding:"required"`
	Language       string `json:"language"`
	UserIP         string `json:"user_ip"`
}

type CreateOrderResult struct {
	PartnerOrderID string `json:"partner_order_id"`
	OrderID        int64  `json:"order_id,omitempty"`
	ItemID         int64  `json:"item_id,omitempty"`
}

type PartnerRef struct {
	PartnerOrderID string `json:"partner_order_id" binding:"required"`
}

type StartOrderRequest struct {
	Partner     PartnerRef              `json:"partner" binding:"required"`
	PaymentType models.PaymentSelection `json:"payment_type"`
	Rooms       []models.Room           `json:"rooms" binding:"required,min=1,dive"`
	User        models.ContactInfo      `json:"user"`
	Language    string                  `json:"language,omitempty"`
}

// OrderStatus is the reply of the finish/status endpoint. Percent is read leniently through
// Percent because the supplier omits or mangles it while the order is still being processed.
type OrderStatus struct {
	PartnerOrderID string          `json:"partner_order_id"`
	RawPercent     json.RawMessage `json:"percent"`
}

// Percent returns the completion percentage when it is a number (or numeric string) in [0,100].
func (s OrderStatus) Percent() (int, bool) {
	raw := strings.TrimSpace(string(s.RawPercent))
	if raw == "" || raw == "null" {
		return 0, false
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || f < 0 || f > 100 {
		return 0, false
	}
	return int(f), true
}

// CreateOrder registers the order form for a prebooked rate.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	data, err := c.post(ctx, "create_order", "/hotel/order/booking/form/", req)
	if err != nil {
		return nil, err
	}
	var result CreateOrderResult
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, &TransportError{Op: "create_order", Err: fmt.Errorf("failed to decode data: %w", err)}
		}
	}
	return &result, nil
}

// StartOrder finishes the booking: guests, payment and contact for an already created order.
func (c *Client) StartOrder(ctx context.Context, req StartOrderRequest) error {
	_, err := c.post(ctx, "start_order", "/hotel/order/booking/finish/", req)
	return err
}

// OrderStatus reports how far the supplier got with a started order.
func (c *Client) OrderStatus(ctx context.Context, partnerOrderID string) (*OrderStatus, error) {
	data, err := c.post(ctx, "order_status", "/hotel/order/booking/finish/status/", PartnerRef{PartnerOrderID: partnerOrderID})
	if err != nil {
		return nil, err
	}
	var status OrderStatus
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &status); err != nil {
			return nil, &TransportError{Op: "order_status", Err: fmt.Errorf("failed to decode data: %w", err)}
		}
	}
	return &status, nil
}
