package ffmpeg

import (
	"strings"
	"testing"

	"github.com/forPelevin/shortgen/internal/types"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "3.250000\n", want: 3.25},
		{in: "  0\n", want: 0},
		{in: "N/A\n", wantErr: true},
		{in: "", wantErr: true},
		{in: "-1.5", wantErr: true},
		{in: "NaN", wantErr: true},
		{in: "+Inf", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDuration(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("parseDuration(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNoiseArgs(t *testing.T) {
	got := strings.Join(noiseArgs(types.DefaultNoiseBed(), 21.456, "music.wav"), " ")
	want := "-y -f lavfi -i anoisesrc=color=pink:amplitude=0.06 -t 21.46 -af lowpass=f=800,volume=0.3 music.wav"
	if got != want {
		t.Fatalf("noiseArgs:\n got %s\nwant %s", got, want)
	}
}

func TestMixArgs(t *testing.T) {
	args := mixArgs("voice.wav", "music.wav", types.DefaultMixSpec(), "final.wav")
	got := strings.Join(args, " ")
	want := "-y -i voice.wav -i music.wav -filter_complex " +
		"[0:a]volume=1.6[a0];[1:a]adelay=500|500,volume=0.6[a1];[a0][a1]amix=inputs=2:dropout_transition=2,volume=1.4 " +
		"-ar 48000 final.wav"
	if got != want {
		t.Fatalf("mixArgs:\n got %s\nwant %s", got, want)
	}
}

func TestConcatArgs(t *testing.T) {
	got := strings.Join(concatArgs("list.txt", "voice.wav"), " ")
	if got != "-y -f concat -safe 0 -i list.txt -c copy voice.wav" {
		t.Fatalf("concatArgs: %s", got)
	}
}

func TestSlideshowArgs(t *testing.T) {
	clips := []types.SlideshowClip{
		{Image: "scene01.png", Duration: 1.234},
		{Image: "scene02.png", Duration: 2.5},
	}
	args := slideshowArgs(clips, types.DefaultSlideshowSpec(), "temp.mp4")

	joined := strings.Join(args, " ")
	if !strings.HasPrefix(joined, "-y -loop 1 -t 1.23 -i scene01.png -loop 1 -t 2.50 -i scene02.png -filter_complex ") {
		t.Fatalf("unexpected inputs: %s", joined)
	}
	if !strings.HasSuffix(joined, " -map [v] -preset veryfast -r 30 temp.mp4") {
		t.Fatalf("unexpected outputs: %s", joined)
	}

	var filter string
	for i, a := range args {
		if a == "-filter_complex" {
			filter = args[i+1]
		}
	}
	wantFirst := "[0:v]settb=AVTB,format=rgba,scale=1080:1920,zoompan=z='min(1.2,zoom+0.0015)':d=125:s=1080x1920:fps=30,trim=duration=1.23,setpts=PTS-STARTPTS[v0]"
	parts := strings.Split(filter, ";")
	if len(parts) != 3 {
		t.Fatalf("expected 3 filter chains, got %d: %s", len(parts), filter)
	}
	if parts[0] != wantFirst {
		t.Fatalf("first chain:\n got %s\nwant %s", parts[0], wantFirst)
	}
	if parts[2] != "[v0][v1]concat=n=2:v=1:a=0,format=yuv420p[v]" {
		t.Fatalf("concat chain: %s", parts[2])
	}
}

func TestEscapeFilterPath(t *testing.T) {
	got := escapeFilterPath(`C:\out\it's.srt`)
	want := `C\:\\out\\it\'s.srt`
	if got != want {
		t.Fatalf("escapeFilterPath = %q, want %q", got, want)
	}
}
