package htmlpng

import (
	"fmt"
	"strconv"
	"strings"
)

// Viewport is the page size in CSS pixels
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (v Viewport) String() string {
	return fmt.Sprintf("%dx%d", v.Width, v.Height)
}

// ParseViewportString parses "WxH". An empty string yields the default
// 1280x720 viewport.
func ParseViewportString(viewport string) (Viewport, error) {
	if viewport == "" {
		return Viewport{Width: DefaultWidth, Height: DefaultHeight}, nil
	}

	parts := strings.Split(strings.ToLower(viewport), "x")
	if len(parts) != 2 {
		return Viewport{}, fmt.Errorf("invalid viewport format, expected WxH")
	}

	width, err := strconv.Atoi(parts[0])
	if err != nil || width <= 0 {
		return Viewport{}, fmt.Errorf("invalid viewport width")
	}

	height, err := strconv.Atoi(parts[1])
	if err != nil || height <= 0 {
		return Viewport{}, fmt.Errorf("invalid viewport height")
	}

	return Viewport{Width: width, Height: height}, nil
}
