package transform

import (
	"context"
	"testing"

	"github.com/user/gifcut/pkg/pipeline"
	"github.com/user/gifcut/pkg/pixbuf"
)

func TestTransform_OutputSize(t *testing.T) {
	sources := []struct {
		w, h     int
		channels pixbuf.ChannelLayout
	}{
		{1920, 1080, pixbuf.BGR},
		{640, 480, pixbuf.BGR},
		{100, 300, pixbuf.RGB},
		{7, 3, pixbuf.Gray},
		{500, 270, pixbuf.BGR},
	}

	for _, src := range sources {
		buf := pixbuf.Filled(src.w, src.h, src.channels, make([]byte, src.channels.Count())...)
		out, err := Transform(buf, 500, 270)
		if err != nil {
			t.Fatalf("%dx%d: unexpected error: %v", src.w, src.h, err)
		}
		if len(out.Data) != 500*270*3 {
			t.Errorf("%dx%d: expected %d bytes, got %d", src.w, src.h, 500*270*3, len(out.Data))
		}
		if out.Channels != pixbuf.RGB {
			t.Errorf("%dx%d: expected RGB output, got %s", src.w, src.h, out.Channels)
		}
	}
}

func TestTransform_SwapsChannels(t *testing.T) {
	buf := pixbuf.Filled(20, 10, pixbuf.BGR, 255, 0, 0) // pure blue in BGR

	out, err := Transform(buf, 10, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < len(out.Data); i += 3 {
		if out.Data[i] != 0 || out.Data[i+1] != 0 || out.Data[i+2] != 255 {
			t.Fatalf("pixel %d: expected [0 0 255], got %v", i/3, out.Data[i:i+3])
		}
	}
}

func TestTransform_SameSizeKeepsDimensions(t *testing.T) {
	buf := pixbuf.Filled(500, 270, pixbuf.RGB, 1, 2, 3)

	out, err := Transform(buf, 500, 270)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Width != buf.Width || out.Height != buf.Height || out.Channels != buf.Channels {
		t.Errorf("expected %dx%d %s, got %dx%d %s",
			buf.Width, buf.Height, buf.Channels, out.Width, out.Height, out.Channels)
	}
	for i := range out.Data {
		if out.Data[i] != buf.Data[i] {
			t.Fatalf("byte %d changed", i)
		}
	}
}

func TestTransform_DoesNotMutateInput(t *testing.T) {
	buf := pixbuf.Filled(8, 8, pixbuf.BGR, 10, 20, 30)
	orig := buf.Clone()

	out, err := Transform(buf, 8, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out.Data[0] = 99

	for i := range buf.Data {
		if buf.Data[i] != orig.Data[i] {
			t.Fatal("input buffer was mutated")
		}
	}
}

func TestTransform_InvalidTarget(t *testing.T) {
	buf := pixbuf.Filled(8, 8, pixbuf.BGR, 0, 0, 0)
	if _, err := Transform(buf, 0, 270); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestStage_Execute(t *testing.T) {
	stage := NewStage()

	input := Input{
		Frame:  pipeline.Frame{Index: 42, Buffer: pixbuf.Filled(64, 36, pixbuf.BGR, 0, 0, 0)},
		Width:  32,
		Height: 18,
	}

	out, err := stage.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Index != 42 {
		t.Errorf("expected index 42, got %d", out.Index)
	}
	if out.Buffer.Width != 32 || out.Buffer.Height != 18 {
		t.Errorf("expected 32x18, got %dx%d", out.Buffer.Width, out.Buffer.Height)
	}
}
