package feed

import (
	"image"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/facepix/internal/testutil"
)

func TestFeed_StartsEmpty(t *testing.T) {
	f := New()

	if f.Frame() != nil {
		t.Error("Frame() before any publish should be nil")
	}
	if seq := f.LastEvent().Seq; seq != 0 {
		t.Errorf("LastEvent().Seq before any publish = %d, want 0", seq)
	}
	if stats := f.Snapshot(); stats.Frames != 0 {
		t.Errorf("Snapshot().Frames before any publish = %d, want 0", stats.Frames)
	}
}

func TestFeed_Publish(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test in short mode")
	}

	f := New()

	frame := testutil.GradientFrame(320, 240)
	defer frame.Close()

	boxes := []image.Rectangle{
		image.Rect(10, 20, 60, 80),
		image.Rect(100, 100, 180, 190),
	}
	if err := f.Publish(frame, boxes, 2, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	jpeg := f.Frame()
	if len(jpeg) < 2 || jpeg[0] != 0xFF || jpeg[1] != 0xD8 {
		t.Error("Frame() should return JPEG-encoded bytes")
	}

	event := f.LastEvent()
	if event.Seq != 1 {
		t.Errorf("event.Seq = %d, want 1", event.Seq)
	}
	if event.Faces != 2 || event.Held {
		t.Errorf("event = %+v, want Faces 2 and Held false", event)
	}
	if len(event.Boxes) != 2 {
		t.Fatalf("event has %d boxes, want 2", len(event.Boxes))
	}
	if want := (Box{X: 10, Y: 20, Width: 50, Height: 60}); event.Boxes[0] != want {
		t.Errorf("event.Boxes[0] = %+v, want %+v", event.Boxes[0], want)
	}

	stats := f.Snapshot()
	if stats.Frames != 1 || stats.FramesMasked != 1 || stats.FacesMasked != 2 {
		t.Errorf("stats = %+v, want Frames 1, FramesMasked 1, FacesMasked 2", stats)
	}
	if stats.ActiveBoxes != 2 || stats.PeakFaces != 2 || stats.Holding {
		t.Errorf("stats = %+v, want ActiveBoxes 2, PeakFaces 2, Holding false", stats)
	}
}

func TestFeed_PublishWithoutBoxes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test in short mode")
	}

	f := New()

	frame := testutil.GradientFrame(64, 64)
	defer frame.Close()

	f.Publish(frame, []image.Rectangle{image.Rect(0, 0, 10, 10)}, 1, false)
	f.Publish(frame, nil, 0, false)

	event := f.LastEvent()
	if event.Seq != 2 {
		t.Errorf("event.Seq = %d, want 2", event.Seq)
	}
	if len(event.Boxes) != 0 {
		t.Errorf("event has %d boxes, want 0", len(event.Boxes))
	}

	stats := f.Snapshot()
	if stats.Frames != 2 || stats.FramesMasked != 1 {
		t.Errorf("stats = %+v, want Frames 2, FramesMasked 1", stats)
	}
	if stats.ActiveBoxes != 0 {
		t.Errorf("stats.ActiveBoxes = %d, want 0", stats.ActiveBoxes)
	}
}

func TestFeed_HeldBoxes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test in short mode")
	}

	f := New()

	frame := testutil.GradientFrame(64, 64)
	defer frame.Close()

	box := []image.Rectangle{image.Rect(5, 5, 25, 25)}
	f.Publish(frame, box, 1, false)
	f.Publish(frame, box, 0, true)

	event := f.LastEvent()
	if !event.Held || event.Faces != 0 {
		t.Errorf("event = %+v, want Held true and Faces 0", event)
	}
	if !f.Snapshot().Holding {
		t.Error("Snapshot().Holding = false, want true")
	}
}

func TestFeed_PeakFaces(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test in short mode")
	}

	f := New()

	frame := testutil.GradientFrame(64, 64)
	defer frame.Close()

	one := []image.Rectangle{image.Rect(0, 0, 8, 8)}
	three := []image.Rectangle{
		image.Rect(0, 0, 8, 8),
		image.Rect(10, 10, 20, 20),
		image.Rect(30, 30, 40, 40),
	}

	f.Publish(frame, one, 1, false)
	f.Publish(frame, three, 3, false)
	f.Publish(frame, one, 1, false)

	stats := f.Snapshot()
	if stats.PeakFaces != 3 {
		t.Errorf("stats.PeakFaces = %d, want 3", stats.PeakFaces)
	}
	if stats.ActiveBoxes != 1 {
		t.Errorf("stats.ActiveBoxes = %d, want 1", stats.ActiveBoxes)
	}
}

func TestFeed_EmptyFrame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test in short mode")
	}

	f := New()

	empty := gocv.NewMat()
	defer empty.Close()

	if err := f.Publish(&empty, nil, 0, false); err == nil {
		t.Error("Publish() of an empty frame should return an error")
	}

	// The frame still counts as processed even though the preview failed.
	if stats := f.Snapshot(); stats.Frames != 1 {
		t.Errorf("stats.Frames = %d, want 1", stats.Frames)
	}
	if f.Frame() != nil {
		t.Error("Frame() should stay nil when encoding never succeeded")
	}
}
