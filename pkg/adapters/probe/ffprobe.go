package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/user/gifcut/pkg/adapters/ffmpeg"
	"github.com/user/gifcut/pkg/ports"
)

// FFprobeProber reads stream properties by running ffprobe.
type FFprobeProber struct{}

// NewFFprobe creates a new FFprobeProber.
func NewFFprobe() *FFprobeProber {
	return &FFprobeProber{}
}

type ffprobeOutput struct {
	Streams []struct {
		CodecName  string `json:"codec_name"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		NbFrames   string `json:"nb_frames"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
}

// Probe runs ffprobe on the first video stream.
func (p *FFprobeProber) Probe(ctx context.Context, path string) (ports.VideoInfo, error) {
	ffprobePath, err := ffmpeg.FindFFprobe()
	if err != nil {
		return ports.VideoInfo{}, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_name,width,height,nb_frames,r_frame_rate",
		"-of", "json",
		path,
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return ports.VideoInfo{}, fmt.Errorf("ffprobe failed: %w\nstderr: %s", err, stderr.String())
	}

	return parseFFprobe(stdout.Bytes())
}

func parseFFprobe(data []byte) (ports.VideoInfo, error) {
	var out ffprobeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return ports.VideoInfo{}, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(out.Streams) == 0 {
		return ports.VideoInfo{}, ErrNoVideoTrack
	}

	s := out.Streams[0]
	info := ports.VideoInfo{
		Width:  s.Width,
		Height: s.Height,
		Codec:  s.CodecName,
	}
	if n, err := strconv.Atoi(s.NbFrames); err == nil {
		info.FrameCount = n
	}
	info.FPS = parseRate(s.RFrameRate)
	return info, nil
}

// parseRate parses an ffprobe rational such as "30000/1001".
func parseRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}

var _ ports.Prober = (*FFprobeProber)(nil)
