package espeak

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

const (
	DefaultVoice = "en-us+m3"
	DefaultSpeed = 155
)

type Adapter struct {
	bin   string
	voice string
	speed int
}

func New(binPath, voice string, speed int) *Adapter {
	if binPath == "" {
		binPath = "espeak"
	}
	if voice == "" {
		voice = DefaultVoice
	}
	if speed <= 0 {
		speed = DefaultSpeed
	}
	return &Adapter{bin: binPath, voice: voice, speed: speed}
}

func (a *Adapter) Synthesize(ctx context.Context, text, outWav string) error {
	cmd := exec.CommandContext(ctx, a.bin, a.args(text, outWav)...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("espeak synthesize: %w\n%s", err, string(b))
	}
	return nil
}

// args passes the text as a single argv entry, so no shell quoting is needed.
func (a *Adapter) args(text, outWav string) []string {
	return []string{
		"-v", a.voice,
		"-s", strconv.Itoa(a.speed),
		"-w", outWav,
		text,
	}
}
