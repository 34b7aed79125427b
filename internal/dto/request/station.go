package request

// SlotConfigRequest configures one vehicle category. An EV flag without an
// EV rate is stored as not offered.
type SlotConfigRequest struct {
	Enabled       bool     `json:"enabled"`
	Slots         int      `json:"slots" validate:"gte=0"`
	RatePerHour   float64  `json:"rate_per_hour" validate:"gte=0"`
	EVEnabled     bool     `json:"ev_enabled"`
	EVRatePerHour *float64 `json:"ev_rate_per_hour,omitempty" validate:"omitempty,gte=0"`
}

type StationRequest struct {
	Name        string            `json:"name" validate:"required,max=100"`
	Place       string            `json:"place" validate:"required,max=150"`
	Description *string           `json:"description,omitempty" validate:"omitempty,max=500"`
	TwoWheeler  SlotConfigRequest `json:"two_w"`
	FourWheeler SlotConfigRequest `json:"four_w"`
}

type StationListRequest struct {
	PaginatedRequest
	Place *string `json:"place,omitempty"`
}
