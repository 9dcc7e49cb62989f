package artifacts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/forPelevin/shortgen/internal/types"
)

const (
	CardWidth  = 1080
	CardHeight = 1920
)

// Script renders the narration script: the first scene is the hook, the rest are numbered beats.
func Script(p types.Project, scenes []types.Scene) string {
	lines := []string{
		"TITLE: " + p.Title,
		"",
		"HOOK:",
	}
	if len(scenes) > 0 {
		lines = append(lines, scenes[0].Narration)
	}
	lines = append(lines, "", "STORY BEATS:")
	for i, s := range scenes[min(1, len(scenes)):] {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, s.Narration))
	}
	lines = append(lines, "", "OUTRO:", `"`+p.Outro+`"`)
	return strings.Join(lines, "\n")
}

func ImagePrompts(scenes []types.Scene) string {
	blocks := make([]string, len(scenes))
	for i, s := range scenes {
		blocks[i] = fmt.Sprintf("Scene %d: %s\nDescription: %s\nPrompt: %s\n", i+1, s.Title, s.Visual, s.Prompt)
	}
	return strings.Join(blocks, "\n")
}

func ThumbnailPrompt(t types.Thumbnail) string {
	return strings.Join([]string{
		fmt.Sprintf("Title: '%s'", t.Title),
		"Visual Prompt: " + t.VisualPrompt,
	}, "\n")
}

func DistributionMeta(d types.Distribution) string {
	hashtags := make([]string, 0, len(d.Hashtags))
	for _, h := range d.Hashtags {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if !strings.HasPrefix(h, "#") {
			h = "#" + h
		}
		hashtags = append(hashtags, h)
	}
	return strings.Join([]string{
		"YouTube Title: " + d.Title,
		"",
		"Description:",
		d.Description,
		"",
		"Hashtags:",
		strings.Join(hashtags, " "),
		"",
		"Tags:",
		strings.Join(d.Tags, ", "),
	}, "\n")
}

func VideoMetadataJSON(m types.VideoMetadata) ([]byte, error) {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal video metadata: %w", err)
	}
	return b, nil
}

// ConcatList renders an ffmpeg concat demuxer list.
func ConcatList(paths []string) string {
	lines := make([]string, len(paths))
	for i, p := range paths {
		lines[i] = "file '" + strings.ReplaceAll(p, "'", `'\''`) + "'"
	}
	return strings.Join(lines, "\n")
}

// TitleCardFor builds the placeholder card of the scene at 0-based index i.
func TitleCardFor(i int, s types.Scene) types.TitleCard {
	return types.TitleCard{
		Title:   fmt.Sprintf("Scene %d: %s", i+1, s.Title),
		Caption: s.Visual,
		Width:   CardWidth,
		Height:  CardHeight,
	}
}

func SceneAudioName(i int) string { return fmt.Sprintf("scene%d.wav", i+1) }

func SceneImageName(i int) string { return fmt.Sprintf("scene%02d.png", i+1) }
