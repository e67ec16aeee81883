package platform

import (
	"fmt"
	"strconv"
	"strings"
)

// Size is a width/height pair in screen points.
type Size struct {
	Width, Height int
}

// Point is a screen coordinate in points, origin top-left.
type Point struct {
	X, Y int
}

// Bounds represents a screen rectangle.
type Bounds struct {
	X, Y, Width, Height int
}

// Size returns the width and height of b.
func (b Bounds) Size() Size {
	return Size{Width: b.Width, Height: b.Height}
}

// ParseDesktopBounds parses the "left, top, right, bottom" string Finder
// reports for the desktop window into a Bounds.
func ParseDesktopBounds(s string) (Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Bounds{}, fmt.Errorf("invalid desktop bounds %q: expected left, top, right, bottom", s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Bounds{}, fmt.Errorf("invalid desktop bounds %q: %w", s, err)
		}
		vals[i] = v
	}
	b := Bounds{X: vals[0], Y: vals[1], Width: vals[2] - vals[0], Height: vals[3] - vals[1]}
	if b.Width <= 0 || b.Height <= 0 {
		return Bounds{}, fmt.Errorf("invalid desktop bounds %q: empty area", s)
	}
	return b, nil
}
