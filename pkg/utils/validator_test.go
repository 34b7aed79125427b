package utils

import "testing"

type sampleRequest struct {
	Phone       string  `json:"phone" validate:"required,numeric"`
	VehicleType string  `json:"vehicle_type" validate:"oneof=2W 4W"`
	Rate        float64 `json:"rate_per_hour,omitempty" validate:"gte=0"`
}

func TestValidateStruct(t *testing.T) {
	if errs := ValidateStruct(sampleRequest{Phone: "98765", VehicleType: "2W"}); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}

	errs := ValidateStruct(sampleRequest{Phone: "98x", VehicleType: "3W", Rate: -1})
	want := map[string]string{
		"phone":         "Must contain digits only",
		"vehicle_type":  "Must be one of: 2W, 4W",
		"rate_per_hour": "Must be greater than or equal to 0",
	}
	if len(errs) != len(want) {
		t.Fatalf("expected %d errors, got %v", len(want), errs)
	}
	for field, msg := range want {
		if errs[field] != msg {
			t.Errorf("%s: expected %q, got %q", field, msg, errs[field])
		}
	}
}
