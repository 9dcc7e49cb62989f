package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/forPelevin/shortgen/internal/catalog"
	"github.com/forPelevin/shortgen/internal/domain/artifacts"
	"github.com/forPelevin/shortgen/internal/domain/captions"
	"github.com/forPelevin/shortgen/internal/ports"
	"github.com/forPelevin/shortgen/internal/types"
)

// tailPadding extends the noise bed past the end of the narration.
const tailPadding = 2.0

type Deps struct {
	Speech ports.SpeechSynthesizer
	Prober ports.DurationProber
	Images ports.ImageRenderer
	Audio  ports.AudioMixer
	Video  ports.VideoCompositor
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	Catalog types.Catalog
	OutDir  string
	RunID   string
	Logf    func(format string, args ...any)
}

type Result struct {
	Track         captions.Track
	Durations     []float64
	VoiceDuration float64
	TotalDuration float64
	FinalVideo    string
}

// Layout is the directory structure of a run.
type Layout struct {
	Root   string
	Meta   string
	Audio  string
	Images string
	Video  string
}

func NewLayout(root string) Layout {
	return Layout{
		Root:   root,
		Meta:   filepath.Join(root, "meta"),
		Audio:  filepath.Join(root, "audio"),
		Images: filepath.Join(root, "images"),
		Video:  filepath.Join(root, "video"),
	}
}

func (l Layout) Ensure() error {
	for _, dir := range []string{l.Meta, l.Audio, l.Images, l.Video} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Run produces every artifact of a run, one stage after another. The first
// failing stage aborts the run and leaves earlier files in place.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	logf := in.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	cat := in.Catalog
	if err := catalog.Validate(cat); err != nil {
		return Result{}, err
	}
	l := NewLayout(in.OutDir)

	// text artifacts
	if err := writeFile(filepath.Join(l.Meta, "script.txt"), artifacts.Script(cat.Project, cat.Scenes)); err != nil {
		return Result{}, err
	}
	if err := writeFile(filepath.Join(l.Meta, "image_prompts.txt"), artifacts.ImagePrompts(cat.Scenes)); err != nil {
		return Result{}, err
	}

	// narration
	clips := make([]string, len(cat.Scenes))
	for i, s := range cat.Scenes {
		clips[i] = filepath.Join(l.Audio, artifacts.SceneAudioName(i))
		logf("synthesizing scene %d/%d", i+1, len(cat.Scenes))
		if err := u.d.Speech.Synthesize(ctx, s.Narration, clips[i]); err != nil {
			return Result{}, fmt.Errorf("scene %d: %w", i+1, err)
		}
	}

	durations := make([]float64, len(clips))
	for i, clip := range clips {
		d, err := u.d.Prober.ProbeDuration(ctx, clip)
		if err != nil {
			return Result{}, fmt.Errorf("scene %d: %w", i+1, err)
		}
		durations[i] = d
	}

	// captions
	track, err := captions.Build(cat.Scenes, durations)
	if err != nil {
		return Result{}, err
	}
	srtPath := filepath.Join(l.Meta, "captions.srt")
	if err := writeFile(srtPath, captions.RenderSRT(track.Captions)); err != nil {
		return Result{}, err
	}
	logf("captions: %d entries, voice %.2fs", len(track.Captions), track.Total)

	// audio
	absClips := make([]string, len(clips))
	for i, clip := range clips {
		abs, err := filepath.Abs(clip)
		if err != nil {
			return Result{}, err
		}
		absClips[i] = abs
	}
	listFile := filepath.Join(l.Audio, "concat_list.txt")
	if err := writeFile(listFile, artifacts.ConcatList(absClips)); err != nil {
		return Result{}, err
	}
	voiceover := filepath.Join(l.Audio, "voiceover.wav")
	if err := u.d.Audio.ConcatAudio(ctx, listFile, voiceover); err != nil {
		return Result{}, err
	}

	voiceDuration := track.Total
	totalDuration := voiceDuration + tailPadding
	music := filepath.Join(l.Audio, "music.wav")
	if err := u.d.Audio.GenerateNoise(ctx, types.DefaultNoiseBed(), totalDuration, music); err != nil {
		return Result{}, err
	}
	finalAudio := filepath.Join(l.Audio, "final_audio.wav")
	if err := u.d.Audio.MixAudio(ctx, voiceover, music, types.DefaultMixSpec(), finalAudio); err != nil {
		return Result{}, err
	}
	logf("audio mixed: %s", finalAudio)

	// images
	slides := make([]types.SlideshowClip, len(cat.Scenes))
	for i, s := range cat.Scenes {
		img := filepath.Join(l.Images, artifacts.SceneImageName(i))
		if err := u.d.Images.RenderTitleCard(ctx, artifacts.TitleCardFor(i, s), img); err != nil {
			return Result{}, fmt.Errorf("scene %d: %w", i+1, err)
		}
		slides[i] = types.SlideshowClip{Image: img, Duration: durations[i]}
	}

	meta, err := artifacts.VideoMetadataJSON(types.VideoMetadata{
		RunID:         in.RunID,
		Project:       cat.Project,
		Scenes:        cat.Scenes,
		Durations:     durations,
		VoiceDuration: voiceDuration,
		TotalDuration: totalDuration,
	})
	if err != nil {
		return Result{}, err
	}
	if err := writeFile(filepath.Join(l.Meta, "video_metadata.json"), string(meta)); err != nil {
		return Result{}, err
	}

	// video
	tempVideo := filepath.Join(l.Video, "temp_video.mp4")
	if err := u.d.Video.RenderSlideshow(ctx, slides, types.DefaultSlideshowSpec(), tempVideo); err != nil {
		return Result{}, err
	}
	withAudio := filepath.Join(l.Video, "video_with_audio.mp4")
	if err := u.d.Video.MuxAudio(ctx, tempVideo, finalAudio, withAudio); err != nil {
		return Result{}, err
	}
	finalVideo := filepath.Join(l.Video, "final_video.mp4")
	if err := u.d.Video.BurnSubtitles(ctx, withAudio, srtPath, finalVideo); err != nil {
		return Result{}, err
	}
	logf("video: %s", finalVideo)

	// distribution
	if err := writeFile(filepath.Join(l.Meta, "thumbnail_prompt.txt"), artifacts.ThumbnailPrompt(cat.Thumbnail)); err != nil {
		return Result{}, err
	}
	if err := writeFile(filepath.Join(l.Meta, "distribution_meta.txt"), artifacts.DistributionMeta(cat.Distribution)); err != nil {
		return Result{}, err
	}

	return Result{
		Track:         track,
		Durations:     durations,
		VoiceDuration: voiceDuration,
		TotalDuration: totalDuration,
		FinalVideo:    finalVideo,
	}, nil
}

func writeFile(path, s string) error {
	return os.WriteFile(path, []byte(s), 0o644)
}
