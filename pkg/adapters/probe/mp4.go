// Package probe reads video stream properties without decoding frames.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/gifcut/pkg/ports"
)

var (
	// ErrNoVideoTrack is returned when a container holds no video track.
	ErrNoVideoTrack = errors.New("probe: no video track found")

	// ErrUnsupportedContainer is returned by a prober that does not handle the file type.
	ErrUnsupportedContainer = errors.New("probe: unsupported container")
)

// MP4Prober reads ISO-BMFF (MP4, MOV, M4V) headers with mp4ff.
type MP4Prober struct{}

// NewMP4 creates a new MP4Prober.
func NewMP4() *MP4Prober {
	return &MP4Prober{}
}

// Handles reports whether path has an ISO-BMFF extension.
func (p *MP4Prober) Handles(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".m4v", ".mov":
		return true
	}
	return false
}

// Probe reads the first video track's sample entry.
func (p *MP4Prober) Probe(ctx context.Context, path string) (ports.VideoInfo, error) {
	if !p.Handles(path) {
		return ports.VideoInfo{}, fmt.Errorf("%w: %s", ErrUnsupportedContainer, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return ports.VideoInfo{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return ProbeMP4Reader(f)
}

// ProbeMP4Reader reads video properties from an MP4 stream.
func ProbeMP4Reader(reader io.ReadSeeker) (ports.VideoInfo, error) {
	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return ports.VideoInfo{}, fmt.Errorf("decode mp4: %w", err)
	}

	var traks []*mp4.TrakBox
	if mp4File.IsFragmented() && mp4File.Init != nil && mp4File.Init.Moov != nil {
		traks = append(traks, mp4File.Init.Moov.Traks...)
	}
	if mp4File.Moov != nil {
		traks = append(traks, mp4File.Moov.Traks...)
	}

	for _, trak := range traks {
		if info, ok := videoTrackInfo(trak); ok {
			return info, nil
		}
	}
	return ports.VideoInfo{}, ErrNoVideoTrack
}

func videoTrackInfo(trak *mp4.TrakBox) (ports.VideoInfo, bool) {
	if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
		return ports.VideoInfo{}, false
	}
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return ports.VideoInfo{}, false
	}
	stbl := trak.Mdia.Minf.Stbl

	for _, child := range stbl.Stsd.Children {
		entry, ok := child.(*mp4.VisualSampleEntryBox)
		if !ok {
			continue
		}

		info := ports.VideoInfo{
			Width:  int(entry.Width),
			Height: int(entry.Height),
			Codec:  codecName(child.Type()),
		}

		if stbl.Stsz != nil {
			info.FrameCount = int(stbl.Stsz.SampleNumber)
		}
		if mdhd := trak.Mdia.Mdhd; mdhd != nil && mdhd.Timescale > 0 && mdhd.Duration > 0 && info.FrameCount > 0 {
			seconds := float64(mdhd.Duration) / float64(mdhd.Timescale)
			info.FPS = float64(info.FrameCount) / seconds
		}
		return info, true
	}
	return ports.VideoInfo{}, false
}

func codecName(sampleEntry string) string {
	switch sampleEntry {
	case "avc1", "avc3":
		return "h264"
	case "hvc1", "hev1":
		return "hevc"
	case "av01":
		return "av1"
	case "vp08":
		return "vp8"
	case "vp09":
		return "vp9"
	default:
		return sampleEntry
	}
}

var _ ports.Prober = (*MP4Prober)(nil)
