package ffprobe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Prober reads media properties by shelling out to ffprobe. The subprocess
// exits before Duration returns, so no decoder handle outlives the call.
type Prober struct {
	binPath string
}

func New(binPath string) *Prober {
	if binPath == "" {
		binPath = "ffprobe"
	}
	return &Prober{binPath: binPath}
}

func (p *Prober) Duration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, p.binPath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w: %s", err, stderr.String())
	}
	return parseDuration(string(output))
}

func parseDuration(raw string) (time.Duration, error) {
	durStr := strings.TrimSpace(raw)
	if durStr == "" || durStr == "N/A" {
		return 0, errors.New("ffprobe: empty duration")
	}
	durSec, err := strconv.ParseFloat(durStr, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe: parse duration: %w", err)
	}
	if durSec <= 0 {
		return 0, nil
	}
	return time.Duration(durSec * float64(time.Second)), nil
}
