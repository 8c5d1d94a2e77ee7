package zone

import (
	"errors"
	"testing"
)

func TestFromURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"zone param", "https://hvac.example.com/feedback?zone=l3-east", "l3-east"},
		{"zoneId param", "https://hvac.example.com/?zoneId=%20z9%20", "z9"},
		{"unit param", "/widget?unit=ahu-4", "ahu-4"},
		{"query wins over path", "/zones/a?zone=b", "b"},
		{"zones path", "https://hvac.example.com/zones/l2-west/feedback", "l2-west"},
		{"zone path", "/zone/lobby", "lobby"},
		{"units path case", "/Units/U%201", "U 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromURL(tt.raw)
			if err != nil {
				t.Fatalf("FromURL(%q) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("FromURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFromURL_NoZone(t *testing.T) {
	for _, raw := range []string{"", "   ", "https://hvac.example.com/", "/zones/", "/zones", "/buildings/hq?zone="} {
		if _, err := FromURL(raw); !errors.Is(err, ErrNoZone) {
			t.Errorf("FromURL(%q) expected ErrNoZone, got %v", raw, err)
		}
	}
}
