package imagemagick

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/forPelevin/shortgen/internal/types"
)

type Adapter struct {
	bin string
}

func New(binPath string) *Adapter {
	if binPath == "" {
		binPath = "convert"
	}
	return &Adapter{bin: binPath}
}

func (a *Adapter) RenderTitleCard(ctx context.Context, card types.TitleCard, outPNG string) error {
	cmd := exec.CommandContext(ctx, a.bin, cardArgs(card, outPNG)...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("convert title card: %w\n%s", err, string(b))
	}
	return nil
}

func cardArgs(card types.TitleCard, outPNG string) []string {
	return []string{
		"-size", fmt.Sprintf("%dx%d", card.Width, card.Height),
		"gradient:#0f172a-#1f2937",
		"-gravity", "center",
		"-fill", "#e2e8f0",
		"-font", "DejaVu-Sans",
		"-pointsize", "54",
		"-annotate", "+0-650", card.Title,
		"-fill", "#f8fafc",
		"-pointsize", "42",
		"-annotate", "+0+200", card.Caption,
		outPNG,
	}
}
