package video

import (
	"bytes"
	"context"
	"sync"
	"time"
)

// State is the recorder lifecycle phase.
type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StateRecorded  State = "recorded"
)

const clipMimeType = "video/webm"

// Clip is a finished recording.
type Clip struct {
	Data     []byte
	Duration time.Duration
	MimeType string
}

// Recorder drives one capture session at a time: idle until Start, recording
// until Stop or the maximum duration elapses, recorded until Reset. Hitting
// the duration cap produces the same result as pressing stop.
type Recorder struct {
	device     Device
	maxElapsed time.Duration
	resolution time.Duration

	mu      sync.Mutex
	state   State
	stream  Stream
	chunks  [][]byte
	elapsed time.Duration
	clip    *Clip
	done    chan struct{}
}

// RecorderOptions tune a Recorder. Resolution is the elapsed-time tick and
// exists so tests can run the timer fast; zero values take the defaults.
type RecorderOptions struct {
	MaxDuration time.Duration
	Resolution  time.Duration
}

func NewRecorder(device Device, opts RecorderOptions) *Recorder {
	if opts.MaxDuration <= 0 {
		opts.MaxDuration = 30 * time.Second
	}
	if opts.Resolution <= 0 {
		opts.Resolution = time.Second
	}
	return &Recorder{
		device:     device,
		maxElapsed: opts.MaxDuration,
		resolution: opts.Resolution,
		state:      StateIdle,
	}
}

// Start acquires a fresh stream and begins recording. Any session already in
// flight is torn down first, so at most one stream is ever live. A previous
// clip is discarded.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	r.teardownLocked()
	r.clip = nil
	r.chunks = nil
	r.elapsed = 0
	r.state = StateIdle
	r.mu.Unlock()

	stream, err := r.device.Acquire(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// A concurrent Start may have won the race while we were acquiring.
	r.teardownLocked()
	r.stream = stream
	r.state = StateRecording
	r.done = make(chan struct{})
	go r.run(stream, r.done)
	return nil
}

// run collects chunks and advances the elapsed clock until the session ends.
func (r *Recorder) run(stream Stream, done chan struct{}) {
	ticker := time.NewTicker(r.resolution)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case chunk, ok := <-stream.Chunks():
			if !ok {
				return
			}
			r.mu.Lock()
			if r.stream == stream && r.state == StateRecording {
				r.chunks = append(r.chunks, chunk)
			}
			r.mu.Unlock()
		case <-ticker.C:
			r.mu.Lock()
			if r.stream != stream || r.state != StateRecording {
				r.mu.Unlock()
				return
			}
			r.elapsed += r.resolution
			if r.elapsed >= r.maxElapsed {
				r.stopLocked()
				r.mu.Unlock()
				return
			}
			r.mu.Unlock()
		}
	}
}

// Stop ends the session and returns the clip. Calling Stop after the cap
// already fired returns the same clip the auto-stop produced.
func (r *Recorder) Stop() (*Clip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state {
	case StateRecording:
		r.stopLocked()
		return r.clip, nil
	case StateRecorded:
		return r.clip, nil
	default:
		return nil, &CaptureError{Kind: ErrUnknown, Err: errNotRecording}
	}
}

var errNotRecording = errString("no recording in progress")

type errString string

func (e errString) Error() string { return string(e) }

// stopLocked assembles the clip and releases the stream. Caller holds mu.
func (r *Recorder) stopLocked() {
	if r.stream != nil {
		// flush chunks still buffered at stop time
	drain:
		for {
			select {
			case c, ok := <-r.stream.Chunks():
				if !ok {
					break drain
				}
				r.chunks = append(r.chunks, c)
			default:
				break drain
			}
		}
	}
	var buf bytes.Buffer
	for _, c := range r.chunks {
		buf.Write(c)
	}
	r.clip = &Clip{Data: buf.Bytes(), Duration: r.elapsed, MimeType: clipMimeType}
	r.chunks = nil
	r.state = StateRecorded
	r.teardownLocked()
}

// Reset discards any clip or in-flight session and returns to idle. Safe to
// call in every state, including mid-recording.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teardownLocked()
	r.clip = nil
	r.chunks = nil
	r.elapsed = 0
	r.state = StateIdle
}

// Close releases the device. Tracks stop even if the caller never pressed
// stop; no hardware stays held past this point.
func (r *Recorder) Close() {
	r.Reset()
}

// teardownLocked stops tracks and cancels the collector. Caller holds mu.
func (r *Recorder) teardownLocked() {
	if r.done != nil {
		close(r.done)
		r.done = nil
	}
	if r.stream != nil {
		r.stream.StopTracks()
		r.stream = nil
	}
}

func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Elapsed reports recorded time so far, capped at the maximum duration.
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.elapsed > r.maxElapsed {
		return r.maxElapsed
	}
	return r.elapsed
}

// Clip returns the finished recording, or nil when none exists.
func (r *Recorder) Clip() *Clip {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clip
}
