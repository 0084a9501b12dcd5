package models

// Guest is one occupant of a room. Age is only sent for children.
type Guest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Age       *int   `json:"age,omitempty"`
}

// Room lists its guests in the order the supplier expects them.
type Room struct {
	Guests []Guest `json:"guests" binding:"required,dive"`
}

// ContactInfo is the lead guest contact passed to the supplier as "user".
type ContactInfo struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Comment string `json:"comment,omitempty"`
}

// PaymentSelection is echoed verbatim from the selected rate's payment type.
type PaymentSelection struct {
	Type         string `json:"type"`          // e.g. "deposit"
	Amount       string `json:"amount"`        // decimal string as returned by the supplier
	CurrencyCode string `json:"currency_code"` // ISO 4217
}

// BookingRequest is the immutable input of one booking attempt.
type BookingRequest struct {
	BookHash       string           `json:"book_hash" binding:"required"`
	PartnerOrderID string           `json:"partner_order_id"`
	Language       string           `json:"language,omitempty"`
	UserIP         string           `json:"user_ip,omitempty"`
	Rooms          []Room           `json:"rooms" binding:"required,min=1,dive"`
	Contact        ContactInfo      `json:"contact"`
	Payment        PaymentSelection `json:"payment"`
}

const (
	DefaultBookingLanguage = "en"
	DefaultBookingUserIP   = "127.0.0.1"
)

// WithDefaults returns a copy with language and user IP filled in.
func (r BookingRequest) WithDefaults() BookingRequest {
	if r.Language == "" {
		r.Language = DefaultBookingLanguage
	}
	if r.UserIP == "" {
		r.UserIP = DefaultBookingUserIP
	}
	return r
}

// GuestCount is the total number of guests across all rooms.
func (r BookingRequest) GuestCount() int {
	n := 0
	for _, room := range r.Rooms {
		n += len(room.Guests)
	}
	return n
}
