package subtitle

// Segment is a time-bounded span of recognized speech produced by a
// transcription collaborator. Start and End are seconds from media start.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Duration returns the display window of the segment in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Track is a complete subtitle document.
type Track struct {
	Segments []Segment
	Language string
}
