package simulator

import (
	"strings"
	"testing"
)

func TestDefaultParamsAreValid(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("Default parameters failed validation: %v", err)
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr string
	}{
		{
			name:    "ProbabilityAboveOne",
			mutate:  func(p *Params) { p.PBuyMonth = 1.5 },
			wantErr: "p_buy_month",
		},
		{
			name:    "NegativeProbability",
			mutate:  func(p *Params) { p.PReturnLine = -0.1 },
			wantErr: "p_return_line",
		},
		{
			name:    "InvertedLinesRange",
			mutate:  func(p *Params) { p.LinesRange = IntRange{Min: 5, Max: 2} },
			wantErr: "lines_range",
		},
		{
			name:    "ZeroQuantityMin",
			mutate:  func(p *Params) { p.QtyRefill = IntRange{Min: 0, Max: 3} },
			wantErr: "qty_refill",
		},
		{
			name:    "InvertedPriceRange",
			mutate:  func(p *Params) { p.PriceDevice = FloatRange{Min: 650, Max: 120} },
			wantErr: "price_device",
		},
		{
			name:    "EmptyDecay",
			mutate:  func(p *Params) { p.DeviceRepeatDecay = nil },
			wantErr: "device_repeat_decay",
		},
		{
			name:    "IncreasingDecay",
			mutate:  func(p *Params) { p.DeviceRepeatDecay = []float64{0.1, 0.5} },
			wantErr: "non-increasing",
		},
		{
			name:    "NegativeMaxDevices",
			mutate:  func(p *Params) { p.MaxDevices = -1 },
			wantErr: "max_devices",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(p)
			err := p.Validate()
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error mentioning %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestParamsValidateCollectsAllErrors(t *testing.T) {
	p := DefaultParams()
	p.PBuyMonth = 2.0
	p.PLostMonth = -1.0
	p.LinesRange = IntRange{Min: 3, Max: 1}

	err := p.Validate()
	if err == nil {
		t.Fatal("Expected validation error, got nil")
	}
	for _, want := range []string{"p_buy_month", "p_lost_month", "lines_range"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected combined error to mention %q, got: %v", want, err)
		}
	}
}
