// Package audio wraps the external audio tooling (ffmpeg/ffprobe) behind a
// small interface. Container/codec handling is an external concern; the
// pipeline only needs to probe, convert and slice.
package audio

import (
	"context"
)

type Processor interface {
	// DurationSeconds probes the length of an audio file.
	DurationSeconds(ctx context.Context, path string) (float64, error)
	// ConvertToWav transcodes any input container into a mono 16 kHz wav.
	ConvertToWav(ctx context.Context, src, dst string) error
	// ExportSegment writes the [startMs, endMs) slice of src to dst as wav.
	ExportSegment(ctx context.Context, src string, startMs, endMs int, dst string) error
}
