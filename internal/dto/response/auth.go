package response

import (
	"time"

	"parking-booking/internal/data/entity"
)

type AuthResponse struct {
	UserID      string             `json:"user_id"`
	Token       string             `json:"token"`
	ExpiresAt   time.Time          `json:"expires_at"`
	Phone       string             `json:"phone"`
	VehicleType entity.VehicleType `json:"vehicle_type"`
	Role        entity.UserRole    `json:"role"`
}

type UserResponse struct {
	ID            string             `json:"id"`
	Phone         string             `json:"phone"`
	VehicleNumber string             `json:"vehicle_number"`
	VehicleType   entity.VehicleType `json:"vehicle_type"`
	Role          entity.UserRole    `json:"role"`
	CreatedAt     time.Time          `json:"created_at"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:            user.ID.String(),
		Phone:         user.Phone,
		VehicleNumber: user.VehicleNumber,
		VehicleType:   user.VehicleType,
		Role:          user.Role,
		CreatedAt:     user.CreatedAt,
	}
}
