package request

type RegisterRequest struct {
	Phone         string `json:"phone" validate:"required,numeric,min=8,max=15"`
	Password      string `json:"password" validate:"required,min=6,max=72"`
	VehicleNumber string `json:"vehicle_number" validate:"required,max=20"`
	VehicleType   string `json:"vehicle_type" validate:"required,oneof=2W 4W"`
}

type LoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}
