// Package audio plays a short click each time the wheel completes a whole
// revolution and a lower accent when the run finishes.
package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/mjibson/go-dsp/window"

	"github.com/san-kum/wheelsim/internal/sim"
)

const (
	SampleRate = 44100
	BufferSize = 512

	ClickFreq   = 1320.0
	AccentFreq  = 660.0
	ClickLength = 0.035
	AccentLen   = 0.18
	Volume      = 0.35

	// maxPending bounds queued audio to about a second.
	maxPending = SampleRate
)

var ErrNotOpen = errors.New("audio: stream not open")

// Burst returns a Hann-windowed sine of freq Hz lasting dur seconds.
func Burst(freq, dur float64, sampleRate int) []float32 {
	n := int(dur * float64(sampleRate))
	if n < 2 {
		return nil
	}
	env := window.Hann(n)
	out := make([]float32, n)
	for i := range out {
		t := float64(i) / float64(sampleRate)
		out[i] = float32(Volume * env[i] * math.Sin(2*math.Pi*freq*t))
	}
	return out
}

// Clicker turns snapshots into clicks. Observe runs on the UI goroutine; the
// stream callback drains the queue on portaudio's thread.
type Clicker struct {
	mu      sync.Mutex
	pending []float32

	click  []float32
	accent []float32

	lastWhole int
	accented  bool
	stream    *portaudio.Stream
	log       *slog.Logger
}

// NewClicker precomputes the click sounds. Call Open to start output.
func NewClicker(log *slog.Logger) *Clicker {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Clicker{
		click:  Burst(ClickFreq, ClickLength, SampleRate),
		accent: Burst(AccentFreq, AccentLen, SampleRate),
		log:    log,
	}
}

// Open starts a mono output stream on the default device.
func (c *Clicker) Open() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio init: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, 1, SampleRate, BufferSize, c.fill)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("audio open: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("audio start: %w", err)
	}
	c.stream = stream
	c.log.Debug("audio started", "sample_rate", SampleRate, "buffer", BufferSize)
	return nil
}

// Close stops the stream.
func (c *Clicker) Close() error {
	if c.stream == nil {
		return ErrNotOpen
	}
	c.stream.Stop()
	err := c.stream.Close()
	c.stream = nil
	portaudio.Terminate()
	return err
}

// Observe queues a click for each whole revolution passed since the last
// snapshot and the accent on the first snapshot of a finished run. Going
// backwards (reset, new radius) just resynchronises.
func (c *Clicker) Observe(snap sim.Snapshot) {
	whole := snap.CompletedRevolutions()
	crossed := max(whole-c.lastWhole, 0)
	c.lastWhole = whole

	if snap.Complete {
		if !c.accented {
			c.accented = true
			c.queue(c.accent)
		}
		return
	}
	c.accented = false
	for i := 0; i < crossed; i++ {
		c.queue(c.click)
	}
}

func (c *Clicker) queue(s []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pending)+len(s) > maxPending {
		return
	}
	c.pending = append(c.pending, s...)
}

// Pending reports the queued sample count.
func (c *Clicker) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *Clicker) fill(out []float32) {
	c.mu.Lock()
	n := copy(out, c.pending)
	c.pending = c.pending[n:]
	c.mu.Unlock()
	for i := n; i < len(out); i++ {
		out[i] = 0
	}
}
