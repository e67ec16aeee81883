package platform

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Named layout tokens accepted by ResolvePosition.
const (
	CenterCenter = "center center"
	TopLeft      = "top left"
	TopRight     = "top right"
	BottomLeft   = "bottom left"
	BottomRight  = "bottom right"
)

// Defaults used when the real screen or window size is unknown.
var (
	FallbackScreen = Size{Width: 1920, Height: 1080}
	DefaultWindow  = Size{Width: 800, Height: 600}
)

// ErrInvalidPosition is returned for a position that is neither a layout
// token nor an "x y" pair of integers.
var ErrInvalidPosition = errors.New("invalid position format")

// Layouts lists the named layout tokens.
func Layouts() []string {
	return []string{CenterCenter, TopLeft, TopRight, BottomLeft, BottomRight}
}

// ResolvePosition computes the top-left corner for a window of size window
// placed on screen according to spec. Tokens are matched case-insensitively
// with runs of whitespace collapsed; anything else must be "x y".
func ResolvePosition(spec string, screen, window Size) (Point, error) {
	fields := strings.Fields(spec)
	switch strings.ToLower(strings.Join(fields, " ")) {
	case CenterCenter:
		return Point{X: (screen.Width - window.Width) / 2, Y: (screen.Height - window.Height) / 2}, nil
	case TopLeft:
		return Point{X: 0, Y: 0}, nil
	case TopRight:
		return Point{X: screen.Width - window.Width, Y: 0}, nil
	case BottomLeft:
		return Point{X: 0, Y: screen.Height - window.Height}, nil
	case BottomRight:
		return Point{X: screen.Width - window.Width, Y: screen.Height - window.Height}, nil
	}

	if len(fields) != 2 {
		return Point{}, fmt.Errorf("%w: %q", ErrInvalidPosition, spec)
	}
	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return Point{}, fmt.Errorf("%w: %q", ErrInvalidPosition, spec)
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return Point{}, fmt.Errorf("%w: %q", ErrInvalidPosition, spec)
	}
	return Point{X: x, Y: y}, nil
}
