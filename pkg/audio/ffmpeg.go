package audio

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

type ffmpegProcessor struct{}

// NewFFmpeg returns a Processor that shells out to ffmpeg and ffprobe on
// PATH.
func NewFFmpeg() Processor {
	return ffmpegProcessor{}
}

func (ffmpegProcessor) DurationSeconds(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
	cmd := exec.CommandContext(ctx, "ffprobe", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed for %s: %w\nOutput: %s", path, err, string(output))
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe returned unparseable duration %q for %s: %w", strings.TrimSpace(string(output)), path, err)
	}
	return duration, nil
}

func (ffmpegProcessor) ConvertToWav(ctx context.Context, src, dst string) error {
	args := []string{
		"-i", src,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"-y",
		dst,
	}

	zerolog.Ctx(ctx).Debug().Str("src", src).Str("dst", dst).Msg("converting audio to wav")

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg conversion failed for %s: %w\nOutput: %s", src, err, string(output))
	}
	return nil
}

func (ffmpegProcessor) ExportSegment(ctx context.Context, src string, startMs, endMs int, dst string) error {
	args := []string{
		"-i", src,
		"-ss", msToSeconds(startMs),
		"-to", msToSeconds(endMs),
		"-acodec", "pcm_s16le",
		"-y",
		dst,
	}

	zerolog.Ctx(ctx).Debug().
		Str("src", src).
		Int("start_ms", startMs).
		Int("end_ms", endMs).
		Str("dst", dst).
		Msg("exporting audio segment")

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg export failed for %s [%d,%d)ms: %w\nOutput: %s", src, startMs, endMs, err, string(output))
	}
	return nil
}

func msToSeconds(ms int) string {
	return strconv.FormatFloat(float64(ms)/1000, 'f', 3, 64)
}
