package entity

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	Base
	Phone         string      `db:"phone"`
	PasswordHash  string      `db:"password"`
	VehicleNumber string      `db:"vehicle_number"`
	VehicleType   VehicleType `db:"vehicle_type"`
	Role          UserRole    `db:"role"`
}
