package video

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeStream struct {
	chunks chan []byte

	mu      sync.Mutex
	stopped int
}

func newFakeStream() *fakeStream {
	return &fakeStream{chunks: make(chan []byte, 16)}
}

func (s *fakeStream) Chunks() <-chan []byte { return s.chunks }

func (s *fakeStream) StopTracks() {
	s.mu.Lock()
	s.stopped++
	s.mu.Unlock()
}

func (s *fakeStream) stopCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

type fakeDevice struct {
	mu      sync.Mutex
	streams []*fakeStream
	err     error
}

func (d *fakeDevice) Acquire(ctx context.Context) (Stream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	s := newFakeStream()
	d.streams = append(d.streams, s)
	return s, nil
}

func (d *fakeDevice) liveStreams() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, s := range d.streams {
		if s.stopCount() == 0 {
			n++
		}
	}
	return n
}

func testRecorder(d *fakeDevice, max time.Duration) *Recorder {
	return NewRecorder(d, RecorderOptions{MaxDuration: max, Resolution: time.Millisecond})
}

func TestResetMidRecordingReturnsToIdle(t *testing.T) {
	dev := &fakeDevice{}
	rec := testRecorder(dev, time.Hour)

	if err := rec.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	dev.streams[0].chunks <- []byte("frame")
	time.Sleep(10 * time.Millisecond)

	rec.Reset()

	if got := rec.State(); got != StateIdle {
		t.Fatalf("state = %q, want idle", got)
	}
	if rec.Clip() != nil {
		t.Fatal("expected no clip after reset")
	}
	if rec.Elapsed() != 0 {
		t.Fatalf("elapsed = %v, want 0", rec.Elapsed())
	}
	if n := dev.liveStreams(); n != 0 {
		t.Fatalf("live streams = %d, want 0", n)
	}
}

func TestSecondStartLeavesOneLiveStream(t *testing.T) {
	dev := &fakeDevice{}
	rec := testRecorder(dev, time.Hour)

	if err := rec.Start(context.Background()); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if err := rec.Start(context.Background()); err != nil {
		t.Fatalf("second start: %v", err)
	}

	if n := dev.liveStreams(); n != 1 {
		t.Fatalf("live streams = %d, want 1", n)
	}
	if dev.streams[0].stopCount() == 0 {
		t.Fatal("first stream was never stopped")
	}
	if got := rec.State(); got != StateRecording {
		t.Fatalf("state = %q, want recording", got)
	}
	rec.Close()
}

func TestAutoStopAtMaxDurationMatchesManualStop(t *testing.T) {
	dev := &fakeDevice{}
	max := 20 * time.Millisecond
	rec := testRecorder(dev, max)

	if err := rec.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	dev.streams[0].chunks <- []byte("hello ")
	dev.streams[0].chunks <- []byte("world")

	deadline := time.Now().Add(2 * time.Second)
	for rec.State() != StateRecorded {
		if time.Now().After(deadline) {
			t.Fatal("recorder never auto-stopped")
		}
		time.Sleep(time.Millisecond)
	}

	clip, err := rec.Stop()
	if err != nil {
		t.Fatalf("stop after auto-stop: %v", err)
	}
	if clip == nil || string(clip.Data) != "hello world" {
		t.Fatalf("clip = %+v, want collected chunks", clip)
	}
	if clip.Duration != max {
		t.Fatalf("clip duration = %v, want %v", clip.Duration, max)
	}
	if rec.Elapsed() != max {
		t.Fatalf("elapsed = %v, want capped at %v", rec.Elapsed(), max)
	}
	if n := dev.liveStreams(); n != 0 {
		t.Fatalf("live streams = %d, want 0", n)
	}
}

func TestManualStopProducesClip(t *testing.T) {
	dev := &fakeDevice{}
	rec := testRecorder(dev, time.Hour)

	if err := rec.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	dev.streams[0].chunks <- []byte("abc")
	time.Sleep(10 * time.Millisecond)

	clip, err := rec.Stop()
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if string(clip.Data) != "abc" {
		t.Fatalf("clip data = %q", clip.Data)
	}
	if got := rec.State(); got != StateRecorded {
		t.Fatalf("state = %q, want recorded", got)
	}
	if n := dev.liveStreams(); n != 0 {
		t.Fatalf("live streams = %d, want 0", n)
	}
}

func TestStopWhileIdleFails(t *testing.T) {
	rec := testRecorder(&fakeDevice{}, time.Hour)
	if _, err := rec.Stop(); err == nil {
		t.Fatal("expected error stopping an idle recorder")
	}
}

func TestFailedRestartLeavesRecorderIdle(t *testing.T) {
	dev := &fakeDevice{}
	rec := testRecorder(dev, time.Hour)

	if err := rec.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	dev.mu.Lock()
	dev.err = &CaptureError{Kind: ErrPermissionDenied, Err: errors.New("denied")}
	dev.mu.Unlock()

	if err := rec.Start(context.Background()); err == nil {
		t.Fatalf("expected second start to fail")
	}
	if got := rec.State(); got != StateIdle {
		t.Fatalf("state after failed start = %q, want %q", got, StateIdle)
	}
	if clip, err := rec.Stop(); err == nil {
		t.Fatalf("expected stop to fail after failed start, got clip %+v", clip)
	}
	if got := dev.liveStreams(); got != 0 {
		t.Fatalf("expected zero live streams, got %d", got)
	}
}

func TestAcquireFailureSurfacesTypedError(t *testing.T) {
	dev := &fakeDevice{err: &CaptureError{Kind: ErrPermissionDenied, Err: errors.New("denied by user")}}
	rec := testRecorder(dev, time.Hour)

	err := rec.Start(context.Background())
	if err == nil {
		t.Fatal("expected acquisition error")
	}
	if KindOf(err) != ErrPermissionDenied {
		t.Fatalf("kind = %q, want permission-denied", KindOf(err))
	}
	if got := rec.State(); got != StateIdle {
		t.Fatalf("state = %q, want idle after failed start", got)
	}
}

func TestCloseReleasesTracksMidRecording(t *testing.T) {
	dev := &fakeDevice{}
	rec := testRecorder(dev, time.Hour)

	if err := rec.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	rec.Close()

	if n := dev.liveStreams(); n != 0 {
		t.Fatalf("live streams = %d, want 0 after close", n)
	}
}
