package models

import (
	"errors"
	"testing"

	"swms-backend/internal/apperrors"
)

func TestRegisterRequestValidate(t *testing.T) {
	valid := func() RegisterRequest {
		return RegisterRequest{
			FirstName: "Ana",
			LastName:  "Reyes",
			Email:     "ana@example.com",
			Password:  "supersecret",
		}
	}

	t.Run("defaults role to citizen", func(t *testing.T) {
		req := valid()
		if msg, err := req.Validate(); err != nil {
			t.Fatalf("Validate() = %q, %v", msg, err)
		}
		if req.Role != RoleCitizen {
			t.Errorf("Role = %q, want citizen", req.Role)
		}
	})

	t.Run("missing required field", func(t *testing.T) {
		req := valid()
		req.Email = "  "
		if _, err := req.Validate(); !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("Validate() = %v, want ErrValidation", err)
		}
	})

	t.Run("short password", func(t *testing.T) {
		req := valid()
		req.Password = "short"
		if msg, err := req.Validate(); !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("Validate() = %q, %v, want ErrValidation", msg, err)
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		req := valid()
		req.Role = "supervisor"
		if _, err := req.Validate(); !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("Validate() = %v, want ErrValidation", err)
		}
	})

	t.Run("driver requires four digit pin", func(t *testing.T) {
		for _, pin := range []string{"", "123", "12345", "12a4"} {
			req := valid()
			req.Role = RoleDriver
			req.DriverPin = pin
			if _, err := req.Validate(); !errors.Is(err, apperrors.ErrValidation) {
				t.Errorf("pin %q: Validate() = %v, want ErrValidation", pin, err)
			}
		}

		req := valid()
		req.Role = RoleDriver
		req.DriverPin = "0042"
		if msg, err := req.Validate(); err != nil {
			t.Errorf("pin 0042: Validate() = %q, %v", msg, err)
		}
	})

	t.Run("pin rejected for non-drivers", func(t *testing.T) {
		req := valid()
		req.DriverPin = "1234"
		if _, err := req.Validate(); !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("Validate() = %v, want ErrValidation", err)
		}
	})
}

func TestUserResponseHidesDriverFields(t *testing.T) {
	pin := "1234"
	status := DriverActive
	user := User{
		ID:           "u1",
		Email:        "c@example.com",
		Role:         RoleCitizen,
		DriverPin:    &pin,
		DriverStatus: &status,
	}

	resp := user.ToUserResponse()
	if resp.DriverPin != nil || resp.DriverStatus != nil {
		t.Error("driver fields leaked for a citizen account")
	}

	user.Role = RoleDriver
	resp = user.ToUserResponse()
	if resp.DriverPin == nil || resp.DriverStatus == nil {
		t.Error("driver fields missing for a driver account")
	}
}

func TestCreateComplaintRequestValidate(t *testing.T) {
	binID := "bin-1"
	blank := "  "

	tests := []struct {
		name    string
		req     CreateComplaintRequest
		wantErr bool
	}{
		{"bin reference", CreateComplaintRequest{BinID: &binID, Description: "overflowing"}, false},
		{"suggested bin", CreateComplaintRequest{SuggestedBin: true, Description: "no bin on this street"}, false},
		{"both", CreateComplaintRequest{BinID: &binID, SuggestedBin: true, Description: "ok"}, false},
		{"neither", CreateComplaintRequest{Description: "overflowing"}, true},
		{"blank bin id and no suggestion", CreateComplaintRequest{BinID: &blank, Description: "x"}, true},
		{"missing description", CreateComplaintRequest{BinID: &binID}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.Validate()
			if tt.wantErr && !errors.Is(err, apperrors.ErrValidation) {
				t.Errorf("Validate() = %v, want ErrValidation", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestCreateScheduleRequestValidate(t *testing.T) {
	valid := CreateScheduleRequest{
		Date:      "2026-09-01",
		Time:      "09:30",
		WasteType: "bulky",
		Reason:    "old furniture",
		Address:   "12 Mabini St",
	}
	if msg, err := valid.Validate(); err != nil {
		t.Fatalf("Validate() = %q, %v", msg, err)
	}

	missing := valid
	missing.Reason = ""
	if _, err := missing.Validate(); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("Validate() = %v, want ErrValidation", err)
	}
}

func TestCreateBinRequestValidate(t *testing.T) {
	valid := func() CreateBinRequest {
		return CreateBinRequest{
			Name:           "Market Bin 3",
			Location:       "Public Market Gate 2",
			Capacity:       CapacityMedium,
			CleaningPeriod: CleaningWeekly,
		}
	}

	req := valid()
	if msg, err := req.Validate(); err != nil {
		t.Fatalf("Validate() = %q, %v", msg, err)
	}

	t.Run("bad capacity", func(t *testing.T) {
		req := valid()
		req.Capacity = "gigantic"
		if _, err := req.Validate(); !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("Validate() = %v, want ErrValidation", err)
		}
	})

	t.Run("bad cleaning period", func(t *testing.T) {
		req := valid()
		req.CleaningPeriod = "fortnightly"
		if _, err := req.Validate(); !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("Validate() = %v, want ErrValidation", err)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		req := valid()
		req.Name = " "
		if _, err := req.Validate(); !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("Validate() = %v, want ErrValidation", err)
		}
	})
}
