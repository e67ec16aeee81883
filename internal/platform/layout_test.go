package platform

import (
	"errors"
	"testing"
)

func TestResolvePosition_Layouts(t *testing.T) {
	tests := []struct {
		spec string
		want Point
	}{
		{"center center", Point{560, 240}},
		{"top left", Point{0, 0}},
		{"top right", Point{1120, 0}},
		{"bottom left", Point{0, 480}},
		{"bottom right", Point{1120, 480}},
		{"  Top   Right ", Point{1120, 0}},
		{"100 200", Point{100, 200}},
		{"-50 0", Point{-50, 0}},
	}
	for _, tt := range tests {
		got, err := ResolvePosition(tt.spec, FallbackScreen, DefaultWindow)
		if err != nil {
			t.Errorf("ResolvePosition(%q): %v", tt.spec, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ResolvePosition(%q) = %+v, want %+v", tt.spec, got, tt.want)
		}
	}
}

func TestResolvePosition_OtherScreen(t *testing.T) {
	got, err := ResolvePosition("center center", Size{Width: 1440, Height: 900}, DefaultWindow)
	if err != nil {
		t.Fatal(err)
	}
	if got != (Point{320, 150}) {
		t.Errorf("got %+v, want {320 150}", got)
	}
}

func TestResolvePosition_Invalid(t *testing.T) {
	for _, spec := range []string{"", "middle", "left center", "1 2 3", "x 10", "10 y"} {
		_, err := ResolvePosition(spec, FallbackScreen, DefaultWindow)
		if !errors.Is(err, ErrInvalidPosition) {
			t.Errorf("ResolvePosition(%q) error = %v, want ErrInvalidPosition", spec, err)
		}
	}
}

func TestLayouts(t *testing.T) {
	if len(Layouts()) != 5 {
		t.Errorf("expected 5 layouts, got %v", Layouts())
	}
}
