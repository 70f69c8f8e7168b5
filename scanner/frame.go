package scanner

// Frame is a single camera frame as a raw 8-bit luminance plane, the
// format capture devices push to the station.
type Frame struct {
	Y      []byte
	Width  int
	Height int
}
