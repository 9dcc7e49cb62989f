package captions

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/forPelevin/shortgen/internal/types"
)

var (
	ErrNoScenes        = errors.New("no scenes")
	ErrLengthMismatch  = errors.New("scene and duration counts differ")
	ErrEmptyNarration  = errors.New("empty narration")
	ErrInvalidDuration = errors.New("invalid duration")
)

// Track is the caption sequence for a run. Total is the voice duration.
type Track struct {
	Captions []types.Caption
	Total    float64
}

// Timeline folds clip durations into contiguous intervals starting at 0.
func Timeline(durations []float64) ([]types.Interval, float64, error) {
	out := make([]types.Interval, 0, len(durations))
	t := 0.0
	for i, d := range durations {
		if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
			return nil, 0, fmt.Errorf("%w: scene %d: %v", ErrInvalidDuration, i+1, d)
		}
		out = append(out, types.Interval{Start: t, End: t + d})
		t += d
	}
	return out, t, nil
}

// Build aligns scenes and durations by position and emits one caption per scene.
// All preconditions are checked before anything is produced.
func Build(scenes []types.Scene, durations []float64) (Track, error) {
	if len(scenes) == 0 {
		return Track{}, ErrNoScenes
	}
	if len(scenes) != len(durations) {
		return Track{}, fmt.Errorf("%w: %d scenes, %d durations", ErrLengthMismatch, len(scenes), len(durations))
	}
	for i, s := range scenes {
		if strings.TrimSpace(s.Narration) == "" {
			return Track{}, fmt.Errorf("%w: scene %d", ErrEmptyNarration, i+1)
		}
	}

	spans, total, err := Timeline(durations)
	if err != nil {
		return Track{}, err
	}

	caps := make([]types.Caption, len(scenes))
	for i, sp := range spans {
		caps[i] = types.Caption{
			Index: i + 1,
			Start: sp.Start,
			End:   sp.End,
			Text:  scenes[i].Narration,
		}
	}
	return Track{Captions: caps, Total: total}, nil
}

// FormatTimestamp renders seconds as HH:MM:SS,mmm.
// Rounding happens on the whole value so 59.9996 carries into 00:01:00,000.
func FormatTimestamp(sec float64) string {
	if sec < 0 || math.IsNaN(sec) {
		sec = 0
	}
	ms := int64(math.Round(sec * 1000))
	h := ms / 3_600_000
	ms -= h * 3_600_000
	m := ms / 60_000
	ms -= m * 60_000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// RenderSRT serializes captions as SubRip. Text is written as-is.
func RenderSRT(caps []types.Caption) string {
	lines := make([]string, 0, len(caps)*4)
	for _, c := range caps {
		lines = append(lines,
			strconv.Itoa(c.Index),
			FormatTimestamp(c.Start)+" --> "+FormatTimestamp(c.End),
			c.Text,
			"",
		)
	}
	return strings.Join(lines, "\n")
}
