package opencv

// frameSeeker is the part of a video capture that seeking needs
type frameSeeker interface {
	SeekMs(ms int)
	// SeekLast positions before the final frame; false when the frame count is unknown
	SeekLast() bool
	Read() bool
}

// readAtOrBefore reads the frame closest to ms that is not after it. A seek
// lands on the next frame, so when there is none the final frame is read.
func readAtOrBefore(s frameSeeker, ms int) bool {
	s.SeekMs(ms)
	if s.Read() {
		return true
	}
	return s.SeekLast() && s.Read()
}
