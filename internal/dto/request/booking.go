package request

type PreviewPriceRequest struct {
	StationID string `json:"station_id" validate:"required,uuid"`
	EV        bool   `json:"ev"`
}

type StartBookingRequest struct {
	StationID  string `json:"station_id" validate:"required,uuid"`
	SlotNumber *int   `json:"slot_number,omitempty" validate:"omitempty,gte=1"`
	EV         bool   `json:"ev"`
}
