package services

// SearchMode selects how the destination is chosen.
type SearchMode string

const (
	ModeExact    SearchMode = "exact"
	ModeVibe     SearchMode = "vibe"
	ModeGlobal   SearchMode = "global"
	ModeRoulette SearchMode = "roulette"
)

// DateKind tells whether the date value is a concrete day or a target month.
type DateKind string

const (
	DateExact DateKind = "exact"
	DateMonth DateKind = "month"
)

// TripRequest is the resolved inbound search intent. Origin and Date are
// always required; Destination only when Mode is exact.
type TripRequest struct {
	Mode        SearchMode
	Origin      string
	Destination string
	Vibe        string
	Budget      float64 // 0 = no ceiling
	Date        string  // YYYY-MM-DD, or YYYY-MM when DateKind is month
	DateKind    DateKind
	Nights      int
	Currency    string
}

// DestinationChoice is a resolved target airport plus display name and, for
// AI-driven modes, the model's short rationale.
type DestinationChoice struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Reason string `json:"reason,omitempty"`
}

// FlightOffer is the cheapest usable offer returned by the flight provider.
type FlightOffer struct {
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	Duration      string  `json:"duration,omitempty"`
	Stops         int     `json:"stops"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	DepartureDate string  `json:"departure_date"`
	ReturnDate    string  `json:"return_date,omitempty"`
}

// HotelEstimate is an AI lodging-cost guess for the full stay. A TotalPrice
// of 0 means unknown, never free.
type HotelEstimate struct {
	Name       string  `json:"name"`
	TotalPrice float64 `json:"total_price"`
	Nights     int     `json:"nights"`
}

// ContentPackage is the short-form marketing copy for an offer.
type ContentPackage struct {
	Hook            string `json:"hook"`
	Description     string `json:"description"`
	SoundtrackLabel string `json:"soundtrack_label"`
	AudioScript     string `json:"audio_script"`
	HotelName       string `json:"hotel_name"`
}

// TripOffer is the aggregate priced package returned to the caller.
type TripOffer struct {
	Origin          string  `json:"origin"`
	OriginCode      string  `json:"origin_code"`
	Destination     string  `json:"destination"`
	DestinationCode string  `json:"destination_code"`
	DepartureDate   string  `json:"departure_date"`
	ReturnDate      string  `json:"return_date,omitempty"`
	FlightPrice     float64 `json:"flight_price"`
	HotelPrice      float64 `json:"hotel_price"`
	TotalCost       float64 `json:"total_cost"`
	Currency        string  `json:"currency"`
	Nights          int     `json:"nights"`
	Duration        string  `json:"duration,omitempty"`
	Stops           int     `json:"stops"`
	Reason          string  `json:"reason,omitempty"`
}
