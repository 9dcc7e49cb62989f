package ports

import (
	"context"

	"github.com/forPelevin/shortgen/internal/types"
)

type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, outWav string) error
}

type DurationProber interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
}

type ImageRenderer interface {
	RenderTitleCard(ctx context.Context, card types.TitleCard, outPNG string) error
}

type AudioMixer interface {
	ConcatAudio(ctx context.Context, listFile, outWav string) error
	GenerateNoise(ctx context.Context, spec types.NoiseBed, seconds float64, outWav string) error
	MixAudio(ctx context.Context, voiceWav, musicWav string, spec types.MixSpec, outWav string) error
}

type VideoCompositor interface {
	RenderSlideshow(ctx context.Context, clips []types.SlideshowClip, spec types.SlideshowSpec, outMP4 string) error
	MuxAudio(ctx context.Context, videoMP4, audioWav, outMP4 string) error
	BurnSubtitles(ctx context.Context, videoMP4, srtPath, outMP4 string) error
}
