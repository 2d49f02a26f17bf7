package models

// LoginRequest is the credential payload forwarded to the backend.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the sign-up payload forwarded to the backend.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber"`
	Address         string `json:"address"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// TokenPair is a session/refresh credential pair as returned by the
// backend auth endpoints.
type TokenPair struct {
	SessionToken string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// BookingRequest creates an order on the backend from a cart item.
type BookingRequest struct {
	TourScheduleID string          `json:"tourScheduleId"`
	Name           string          `json:"name"`
	PhoneNumber    string          `json:"phoneNumber"`
	Email          string          `json:"email"`
	VoucherCode    string          `json:"voucherCode,omitempty"`
	Tickets        []BookingTicket `json:"tickets"`
}

// BookingTicket is one ticket line of a booking request.
type BookingTicket struct {
	TicketTypeID string `json:"ticketTypeId"`
	Quantity     int    `json:"quantity"`
}

// RatingRequest submits a review for a paid order.
type RatingRequest struct {
	OrderID string `json:"bookingId"`
	TourID  string `json:"tourId"`
	Star    int    `json:"star"`
	Comment string `json:"comment"`
}
