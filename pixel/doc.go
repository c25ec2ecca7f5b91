// Package pixel implements the 1-bit color model and images used by the SH1106 driver.
//
// The types are compatible with Go's native [color.Color] and [image.Image] /
// [draw.Image] interfaces, so anything that draws on an image can draw on them.
package pixel
