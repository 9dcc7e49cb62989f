package ffmpeg

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/forPelevin/shortgen/internal/types"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

func (a *Adapter) ProbeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	return parseDuration(string(b))
}

func parseDuration(out string) (float64, error) {
	s := strings.TrimSpace(out)
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	if math.IsNaN(sec) || math.IsInf(sec, 0) || sec < 0 {
		return 0, fmt.Errorf("parse duration %q: not a non-negative finite number", s)
	}
	return sec, nil
}

func (a *Adapter) ConcatAudio(ctx context.Context, listFile, outWav string) error {
	return a.run(ctx, "concat audio", concatArgs(listFile, outWav))
}

func (a *Adapter) GenerateNoise(ctx context.Context, spec types.NoiseBed, seconds float64, outWav string) error {
	return a.run(ctx, "generate noise", noiseArgs(spec, seconds, outWav))
}

func (a *Adapter) MixAudio(ctx context.Context, voiceWav, musicWav string, spec types.MixSpec, outWav string) error {
	return a.run(ctx, "mix audio", mixArgs(voiceWav, musicWav, spec, outWav))
}

func (a *Adapter) RenderSlideshow(ctx context.Context, clips []types.SlideshowClip, spec types.SlideshowSpec, outMP4 string) error {
	if len(clips) == 0 {
		return fmt.Errorf("ffmpeg render slideshow: no clips")
	}
	return a.run(ctx, "render slideshow", slideshowArgs(clips, spec, outMP4))
}

func (a *Adapter) MuxAudio(ctx context.Context, videoMP4, audioWav, outMP4 string) error {
	return a.run(ctx, "mux audio", []string{
		"-y",
		"-i", videoMP4,
		"-i", audioWav,
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		outMP4,
	})
}

func (a *Adapter) BurnSubtitles(ctx context.Context, videoMP4, srtPath, outMP4 string) error {
	return a.run(ctx, "burn subtitles", []string{
		"-y",
		"-i", videoMP4,
		"-vf", "subtitles=" + escapeFilterPath(srtPath),
		"-c:a", "copy",
		outMP4,
	})
}

func (a *Adapter) run(ctx context.Context, action string, args []string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg %s: %w\n%s", action, err, string(b))
	}
	return nil
}

func concatArgs(listFile, outWav string) []string {
	return []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c", "copy",
		outWav,
	}
}

func noiseArgs(spec types.NoiseBed, seconds float64, outWav string) []string {
	return []string{
		"-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("anoisesrc=color=%s:amplitude=%s", spec.Color, fmtFloat(spec.Amplitude)),
		"-t", strconv.FormatFloat(seconds, 'f', 2, 64),
		"-af", fmt.Sprintf("lowpass=f=%d,volume=%s", spec.LowpassHz, fmtFloat(spec.Volume)),
		outWav,
	}
}

func mixArgs(voiceWav, musicWav string, spec types.MixSpec, outWav string) []string {
	filter := fmt.Sprintf(
		"[0:a]volume=%s[a0];[1:a]adelay=%d|%d,volume=%s[a1];[a0][a1]amix=inputs=2:dropout_transition=%d,volume=%s",
		fmtFloat(spec.VoiceGain),
		spec.MusicDelayMs, spec.MusicDelayMs,
		fmtFloat(spec.MusicGain),
		spec.DropoutTransition,
		fmtFloat(spec.MasterGain),
	)
	return []string{
		"-y",
		"-i", voiceWav,
		"-i", musicWav,
		"-filter_complex", filter,
		"-ar", strconv.Itoa(spec.SampleRate),
		outWav,
	}
}

// slideshowArgs loops every image for its clip duration, applies a slow
// zoom and concatenates the results into one silent video stream.
func slideshowArgs(clips []types.SlideshowClip, spec types.SlideshowSpec, outMP4 string) []string {
	args := []string{"-y"}
	for _, c := range clips {
		args = append(args, "-loop", "1", "-t", fmtSeconds(c.Duration), "-i", c.Image)
	}

	size := fmt.Sprintf("%dx%d", spec.Width, spec.Height)
	parts := make([]string, 0, len(clips)+1)
	var labels strings.Builder
	for i, c := range clips {
		parts = append(parts, fmt.Sprintf(
			"[%d:v]settb=AVTB,format=rgba,scale=%d:%d,zoompan=z='min(%s,zoom+%s)':d=%d:s=%s:fps=%d,trim=duration=%s,setpts=PTS-STARTPTS[v%d]",
			i, spec.Width, spec.Height,
			fmtFloat(spec.MaxZoom), fmtFloat(spec.ZoomStep),
			spec.ZoomFrames, size, spec.FPS,
			fmtSeconds(c.Duration), i,
		))
		fmt.Fprintf(&labels, "[v%d]", i)
	}
	parts = append(parts, fmt.Sprintf("%sconcat=n=%d:v=1:a=0,format=yuv420p[v]", labels.String(), len(clips)))

	args = append(args,
		"-filter_complex", strings.Join(parts, ";"),
		"-map", "[v]",
		"-preset", spec.Preset,
		"-r", strconv.Itoa(spec.FPS),
		outMP4,
	)
	return args
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 2, 64)
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "\\\\")
	p = strings.ReplaceAll(p, ":", "\\:")
	p = strings.ReplaceAll(p, "'", "\\'")
	return p
}
