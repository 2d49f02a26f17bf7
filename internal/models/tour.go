package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tour is a bookable tour listing fetched from the backend catalog.
type Tour struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	CompanyName   string          `json:"companyName"`
	Description   string          `json:"description"`
	FirstDestination string       `json:"firstDestination"`
	Thumbnail     string          `json:"thumbnailUrl"`
	AvgStar       float64         `json:"avgStar"`
	TotalRating   int             `json:"totalRating"`
	OnlyFromCost  decimal.Decimal `json:"onlyFromCost"`
	IsDeleted     bool            `json:"isDeleted"`
}

// TourSchedule is one departure of a tour, with its own ticket
// availability and pricing.
type TourSchedule struct {
	ID             string       `json:"tourScheduleId"`
	TourID         string       `json:"tourId"`
	Day            string       `json:"day"` // departure date, yyyy-mm-dd
	AvailableSlots int          `json:"remainingCapacity"`
	TicketTypes    []TicketType `json:"ticketTypes"`
}

// TicketType is one ticket kind sold for a schedule.
type TicketType struct {
	ID           string          `json:"id"`
	Kind         string          `json:"ticketKind"` // "adult", "child", ...
	NetCost      decimal.Decimal `json:"netCost"`
	Capacity     int             `json:"capacity"`
	AvailableQty int             `json:"availableTicket"`
}

// IsAvailable reports whether any tickets of this type remain.
func (t TicketType) IsAvailable() bool {
	return t.AvailableQty > 0
}

// FindTicketType returns the ticket type with the given ID, or nil.
func (s *TourSchedule) FindTicketType(id string) *TicketType {
	for i := range s.TicketTypes {
		if s.TicketTypes[i].ID == id {
			return &s.TicketTypes[i]
		}
	}
	return nil
}

// Rating is a user review of a tour attached to a completed order.
type Rating struct {
	ID        string    `json:"id"`
	TourID    string    `json:"tourId"`
	OrderID   string    `json:"bookingId"`
	Star      int       `json:"star"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}
