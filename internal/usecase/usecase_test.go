package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/forPelevin/shortgen/internal/catalog"
	"github.com/forPelevin/shortgen/internal/domain/captions"
	"github.com/forPelevin/shortgen/internal/types"
)

func TestRun_StageOrderAndArtifacts(t *testing.T) {
	t.Parallel()

	out := newLayout(t)
	tools := newFakeTools(1.5, 2.25)
	uc := New(tools.deps())

	res, err := uc.Run(context.Background(), Input{
		Catalog: testCatalog(),
		OutDir:  out.Root,
		RunID:   "run-1",
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	wantCalls := []string{
		"synthesize scene1.wav",
		"synthesize scene2.wav",
		"probe scene1.wav",
		"probe scene2.wav",
		"concat voiceover.wav",
		"noise music.wav",
		"mix final_audio.wav",
		"card scene01.png",
		"card scene02.png",
		"slideshow temp_video.mp4",
		"mux video_with_audio.mp4",
		"burn final_video.mp4",
	}
	if !reflect.DeepEqual(tools.calls, wantCalls) {
		t.Fatalf("unexpected call order:\n got %v\nwant %v", tools.calls, wantCalls)
	}

	if res.VoiceDuration != 3.75 || res.TotalDuration != 5.75 {
		t.Fatalf("unexpected durations: voice=%v total=%v", res.VoiceDuration, res.TotalDuration)
	}
	if tools.noiseSeconds != 5.75 {
		t.Fatalf("noise bed = %vs, want 5.75s", tools.noiseSeconds)
	}
	if res.FinalVideo != filepath.Join(out.Video, "final_video.mp4") {
		t.Fatalf("unexpected final video %s", res.FinalVideo)
	}

	srt := readFile(t, filepath.Join(out.Meta, "captions.srt"))
	wantSRT := "1\n00:00:00,000 --> 00:00:01,500\nFirst line.\n\n" +
		"2\n00:00:01,500 --> 00:00:03,750\nSecond line.\n"
	if srt != wantSRT {
		t.Fatalf("captions.srt:\n got %q\nwant %q", srt, wantSRT)
	}

	var meta types.VideoMetadata
	if err := json.Unmarshal([]byte(readFile(t, filepath.Join(out.Meta, "video_metadata.json"))), &meta); err != nil {
		t.Fatalf("decode metadata: %v", err)
	}
	if meta.RunID != "run-1" || meta.TotalDuration != 5.75 || !reflect.DeepEqual(meta.Durations, []float64{1.5, 2.25}) {
		t.Fatalf("unexpected metadata: %+v", meta)
	}

	list := readFile(t, filepath.Join(out.Audio, "concat_list.txt"))
	if strings.Count(list, "file '") != 2 || !strings.Contains(list, "scene2.wav'") {
		t.Fatalf("unexpected concat list: %s", list)
	}

	for _, name := range []string{"script.txt", "image_prompts.txt", "thumbnail_prompt.txt", "distribution_meta.txt"} {
		if _, err := os.Stat(filepath.Join(out.Meta, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}

	if len(tools.slides) != 2 || tools.slides[1].Duration != 2.25 {
		t.Fatalf("unexpected slideshow clips: %+v", tools.slides)
	}
	if tools.cards[0].Title != "Scene 1: Opening" {
		t.Fatalf("unexpected card title %q", tools.cards[0].Title)
	}
}

func TestRun_InvalidCatalogRunsNothing(t *testing.T) {
	t.Parallel()

	out := newLayout(t)
	tools := newFakeTools()
	cat := testCatalog()
	cat.Scenes[1].Narration = "  "

	_, err := New(tools.deps()).Run(context.Background(), Input{Catalog: cat, OutDir: out.Root})
	if !errors.Is(err, catalog.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if len(tools.calls) != 0 {
		t.Fatalf("expected no tool calls, got %v", tools.calls)
	}
	if _, err := os.Stat(filepath.Join(out.Meta, "script.txt")); !os.IsNotExist(err) {
		t.Fatalf("expected no script, stat err=%v", err)
	}
}

func TestRun_FailsFast(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		failOn    string
		wantCalls int
	}{
		{name: "synthesis", failOn: "synthesize scene2.wav", wantCalls: 2},
		{name: "probe", failOn: "probe scene1.wav", wantCalls: 3},
		{name: "mix", failOn: "mix final_audio.wav", wantCalls: 7},
		{name: "burn", failOn: "burn final_video.mp4", wantCalls: 12},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out := newLayout(t)
			tools := newFakeTools(1, 1)
			tools.failOn = tc.failOn

			_, err := New(tools.deps()).Run(context.Background(), Input{Catalog: testCatalog(), OutDir: out.Root})
			if !errors.Is(err, errTool) {
				t.Fatalf("expected tool error, got %v", err)
			}
			if len(tools.calls) != tc.wantCalls {
				t.Fatalf("expected %d calls before abort, got %v", tc.wantCalls, tools.calls)
			}
			if tools.calls[len(tools.calls)-1] != tc.failOn {
				t.Fatalf("last call = %q, want %q", tools.calls[len(tools.calls)-1], tc.failOn)
			}
		})
	}
}

func TestRun_InvalidDurationAbortsBeforeCaptions(t *testing.T) {
	t.Parallel()

	for _, d := range []float64{-0.5, math.NaN(), math.Inf(1)} {
		out := newLayout(t)
		tools := newFakeTools(1, d)

		_, err := New(tools.deps()).Run(context.Background(), Input{Catalog: testCatalog(), OutDir: out.Root})
		if !errors.Is(err, captions.ErrInvalidDuration) {
			t.Fatalf("duration %v: expected ErrInvalidDuration, got %v", d, err)
		}
		if _, err := os.Stat(filepath.Join(out.Meta, "captions.srt")); !os.IsNotExist(err) {
			t.Fatalf("duration %v: expected no captions file, stat err=%v", d, err)
		}
		if last := tools.calls[len(tools.calls)-1]; last != "probe scene2.wav" {
			t.Fatalf("duration %v: unexpected last call %q", d, last)
		}
	}
}

var errTool = errors.New("tool exited with status 1")

// fakeTools implements every media port and records calls by output file name.
type fakeTools struct {
	durations    map[string]float64
	failOn       string
	calls        []string
	noiseSeconds float64
	cards        []types.TitleCard
	slides       []types.SlideshowClip
}

func newFakeTools(durations ...float64) *fakeTools {
	f := &fakeTools{durations: map[string]float64{}}
	for i, d := range durations {
		f.durations["scene"+string(rune('1'+i))+".wav"] = d
	}
	return f
}

func (f *fakeTools) deps() Deps {
	return Deps{Speech: f, Prober: f, Images: f, Audio: f, Video: f}
}

func (f *fakeTools) record(action, path string) error {
	call := action + " " + filepath.Base(path)
	f.calls = append(f.calls, call)
	if call == f.failOn {
		return errTool
	}
	return nil
}

func (f *fakeTools) Synthesize(_ context.Context, _, outWav string) error {
	return f.record("synthesize", outWav)
}

func (f *fakeTools) ProbeDuration(_ context.Context, path string) (float64, error) {
	if err := f.record("probe", path); err != nil {
		return 0, err
	}
	return f.durations[filepath.Base(path)], nil
}

func (f *fakeTools) RenderTitleCard(_ context.Context, card types.TitleCard, outPNG string) error {
	f.cards = append(f.cards, card)
	return f.record("card", outPNG)
}

func (f *fakeTools) ConcatAudio(_ context.Context, _, outWav string) error {
	return f.record("concat", outWav)
}

func (f *fakeTools) GenerateNoise(_ context.Context, _ types.NoiseBed, seconds float64, outWav string) error {
	f.noiseSeconds = seconds
	return f.record("noise", outWav)
}

func (f *fakeTools) MixAudio(_ context.Context, _, _ string, _ types.MixSpec, outWav string) error {
	return f.record("mix", outWav)
}

func (f *fakeTools) RenderSlideshow(_ context.Context, clips []types.SlideshowClip, _ types.SlideshowSpec, outMP4 string) error {
	f.slides = clips
	return f.record("slideshow", outMP4)
}

func (f *fakeTools) MuxAudio(_ context.Context, _, _, outMP4 string) error {
	return f.record("mux", outMP4)
}

func (f *fakeTools) BurnSubtitles(_ context.Context, _, _, outMP4 string) error {
	return f.record("burn", outMP4)
}

func testCatalog() types.Catalog {
	return types.Catalog{
		Project: types.Project{Title: "Test Run", Outro: "Bye."},
		Scenes: []types.Scene{
			{Title: "Opening", Visual: "a door", Prompt: "door, noir", Narration: "First line."},
			{Title: "Closing", Visual: "a street", Prompt: "street, rain", Narration: "Second line."},
		},
		Thumbnail:    types.Thumbnail{Title: "T", VisualPrompt: "V"},
		Distribution: types.Distribution{Title: "D", Hashtags: []string{"x"}},
	}
}

func newLayout(t *testing.T) Layout {
	t.Helper()
	l := NewLayout(filepath.Join(t.TempDir(), "run"))
	if err := l.Ensure(); err != nil {
		t.Fatalf("ensure layout: %v", err)
	}
	return l
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}
