package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/Kamar-Folarin/game-updater/internal/progress"
)

const barWidth = 30

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderProgress formats a snapshot as a single status line.
func renderProgress(s progress.Snapshot) string {
	filled := s.Percentage * barWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	line := fmt.Sprintf("%s %3d%% %-12s", color.CyanString(bar), s.Percentage, s.Stage)
	if s.TotalObjects > 0 {
		line += fmt.Sprintf(" %d/%d objects", s.ReceivedObjects, s.TotalObjects)
	}
	if s.Speed > 0 {
		line += fmt.Sprintf(" %.1f KiB/s", s.Speed)
	}
	if s.ETA != "" {
		line += " ETA " + s.ETA
	}
	return line
}

func stageColor(stage progress.Stage) string {
	switch stage {
	case progress.StageDone:
		return color.GreenString(string(stage))
	case progress.StageFailed:
		return color.RedString(string(stage))
	default:
		return color.YellowString(string(stage))
	}
}
