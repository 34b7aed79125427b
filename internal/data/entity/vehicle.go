package entity

type VehicleType string

const (
	VehicleTwoWheeler  VehicleType = "2W"
	VehicleFourWheeler VehicleType = "4W"
)

func (v VehicleType) Valid() bool {
	return v == VehicleTwoWheeler || v == VehicleFourWheeler
}

func (v VehicleType) String() string {
	return string(v)
}
