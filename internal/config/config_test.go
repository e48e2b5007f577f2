package config

import (
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("Default config failed validation: %v", err)
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generate.NumCustomers = 0
	cfg.Generate.PEmail = 1.5
	cfg.Sales.PBuyMonth = -0.2
	cfg.Database.MaxOpenConns = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected validation error, got nil")
	}
	for _, want := range []string{
		"generate.num_customers",
		"generate.p_email",
		"p_buy_month",
		"database.max_open_conns",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected error to mention %q, got: %v", want, err)
		}
	}
}

func TestValidateDateRules(t *testing.T) {
	t.Run("MalformedDate", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Generate.Horizon = "12/31/2025"
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "generate.horizon") {
			t.Errorf("Expected a horizon format error, got: %v", err)
		}
	})

	t.Run("InvertedSignupWindow", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Generate.CreatedAtStart = "2026-01-01"
		cfg.Generate.CreatedAtEnd = "2020-01-01"
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "created_at_start") {
			t.Errorf("Expected a signup window error, got: %v", err)
		}
	})

	t.Run("HorizonBeforeSignups", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Generate.Horizon = "2014-01-01"
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "horizon") {
			t.Errorf("Expected a horizon ordering error, got: %v", err)
		}
	})
}

func TestSalesParamsRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	params := cfg.Sales.Params()

	if err := params.Validate(); err != nil {
		t.Fatalf("Converted params failed validation: %v", err)
	}
	if params.PBuyMonth != cfg.Sales.PBuyMonth {
		t.Errorf("PBuyMonth mismatch: %v vs %v", params.PBuyMonth, cfg.Sales.PBuyMonth)
	}
	if params.LinesRange.Min != cfg.Sales.LinesMin || params.LinesRange.Max != cfg.Sales.LinesMax {
		t.Errorf("LinesRange mismatch: %+v", params.LinesRange)
	}
	if len(params.DeviceRepeatDecay) != len(cfg.Sales.DeviceRepeatDecay) {
		t.Errorf("Decay length mismatch")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if d.Year() != 2024 || d.Month() != 3 || d.Day() != 15 {
		t.Errorf("Parsed wrong date: %s", d)
	}
	if _, err := ParseDate("not-a-date"); err == nil {
		t.Error("Expected an error for a malformed date")
	}
}
