// Package diarize defines the contract with the external speaker
// diarization service and an HTTP client for it. The model itself is
// opaque: the pipeline only consumes per-speaker embedding vectors and
// speech intervals.
package diarize

import (
	"context"
)

// Interval is a speech time range in seconds, relative to the diarized
// file.
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (i Interval) Duration() float64 {
	return i.End - i.Start
}

// SpeakerTrack is one detected speaker inside a diarized file: the voice
// embedding plus every interval attributed to that speaker.
type SpeakerTrack struct {
	Speaker   string     `json:"speaker"`
	Embedding []float32  `json:"embedding"`
	Intervals []Interval `json:"segments"`
}

type Diarizer interface {
	Diarize(ctx context.Context, audioPath string) ([]SpeakerTrack, error)
}
