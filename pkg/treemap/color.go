package treemap

import "image/color"

// Channels is the number of distinct hues available to categories.
const Channels = 3

// ChannelColor returns the fill of the index-th of n sub-categories of the
// given category. Channel category%3 (red, green, blue) is set to
// floor((index+1)*255/n); the other channels are zero and the color is
// opaque.
func ChannelColor(category, index, n int) color.RGBA {
	c := color.RGBA{A: 255}
	if n <= 0 || index < 0 {
		return c
	}
	v := uint8(min((index+1)*255/n, 255))
	switch category % Channels {
	case 0:
		c.R = v
	case 1:
		c.G = v
	case 2:
		c.B = v
	}
	return c
}
