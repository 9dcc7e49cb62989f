package types

// Scene is one unit of narrated content: one narration clip, one image, one caption.
// Its position in the catalog is its only identity.
type Scene struct {
	Title     string `yaml:"title" json:"title"`
	Visual    string `yaml:"visual" json:"visual"`
	Prompt    string `yaml:"prompt" json:"prompt"`
	Narration string `yaml:"narration" json:"narration"`
}

type Project struct {
	Title      string `yaml:"title" json:"title,omitempty"`
	Topic      string `yaml:"topic" json:"topic,omitempty"`
	Uniqueness string `yaml:"uniqueness" json:"uniqueness,omitempty"`
	Outro      string `yaml:"outro" json:"outro,omitempty"`
}

type Thumbnail struct {
	Title        string `yaml:"title" json:"title"`
	VisualPrompt string `yaml:"visual_prompt" json:"visual_prompt"`
}

type Distribution struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Hashtags    []string `yaml:"hashtags" json:"hashtags"`
	Tags        []string `yaml:"tags" json:"tags"`
}

// Catalog is the content of a single run. It is read once and never mutated.
type Catalog struct {
	Project      Project      `yaml:"project" json:"project"`
	Scenes       []Scene      `yaml:"scenes" json:"scenes"`
	Thumbnail    Thumbnail    `yaml:"thumbnail" json:"thumbnail"`
	Distribution Distribution `yaml:"distribution" json:"distribution"`
}

// Interval is a half-open [Start, End) range in seconds.
type Interval struct {
	Start float64
	End   float64
}

type Caption struct {
	Index int
	Start float64
	End   float64
	Text  string
}

type VideoMetadata struct {
	RunID         string    `json:"runId"`
	Project       Project   `json:"project"`
	Scenes        []Scene   `json:"scenes"`
	Durations     []float64 `json:"durations"`
	VoiceDuration float64   `json:"voiceDuration"`
	TotalDuration float64   `json:"totalDuration"`
}

// TitleCard describes a placeholder image: a title near the top and a
// description below the center of a vertical canvas.
type TitleCard struct {
	Title   string
	Caption string
	Width   int
	Height  int
}

type SlideshowClip struct {
	Image    string
	Duration float64
}

type NoiseBed struct {
	Color     string
	Amplitude float64
	LowpassHz int
	Volume    float64
}

func DefaultNoiseBed() NoiseBed {
	return NoiseBed{Color: "pink", Amplitude: 0.06, LowpassHz: 800, Volume: 0.3}
}

type MixSpec struct {
	VoiceGain         float64
	MusicGain         float64
	MusicDelayMs      int
	DropoutTransition int
	MasterGain        float64
	SampleRate        int
}

func DefaultMixSpec() MixSpec {
	return MixSpec{
		VoiceGain:         1.6,
		MusicGain:         0.6,
		MusicDelayMs:      500,
		DropoutTransition: 2,
		MasterGain:        1.4,
		SampleRate:        48000,
	}
}

type SlideshowSpec struct {
	Width      int
	Height     int
	FPS        int
	MaxZoom    float64
	ZoomStep   float64
	ZoomFrames int
	Preset     string
}

func DefaultSlideshowSpec() SlideshowSpec {
	return SlideshowSpec{
		Width:      1080,
		Height:     1920,
		FPS:        30,
		MaxZoom:    1.2,
		ZoomStep:   0.0015,
		ZoomFrames: 125,
		Preset:     "veryfast",
	}
}
