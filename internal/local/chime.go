package local

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// chimeNotes are played in order when a sprite is saved.
var chimeNotes = []struct {
	freq     int
	duration time.Duration
}{
	{660, 60 * time.Millisecond},
	{990, 90 * time.Millisecond},
}

// Chime plays a short confirmation sound through the system speaker.
type Chime struct {
	initialized bool
}

// NewChime initializes the speaker. The returned Chime is usable even on
// error; it just stays silent.
func NewChime() (*Chime, error) {
	c := &Chime{}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return c, fmt.Errorf("init speaker: %w", err)
	}
	c.initialized = true
	return c, nil
}

// Play queues the chime without blocking.
func (c *Chime) Play() {
	if c == nil || !c.initialized {
		return
	}
	s, err := chimeStreamer(sampleRate)
	if err != nil {
		return
	}
	speaker.Play(s)
}

// Close releases the speaker.
func (c *Chime) Close() {
	if c == nil || !c.initialized {
		return
	}
	speaker.Close()
	c.initialized = false
}

// chimeStreamer builds the finite chime stream at half volume.
func chimeStreamer(sr beep.SampleRate) (beep.Streamer, error) {
	parts := make([]beep.Streamer, 0, len(chimeNotes))
	for _, n := range chimeNotes {
		sine, err := generators.SineTone(sr, float64(n.freq))
		if err != nil {
			return nil, fmt.Errorf("sine tone %d Hz: %w", n.freq, err)
		}
		parts = append(parts, beep.Take(sr.N(n.duration), sine))
	}
	return &effects.Volume{
		Streamer: beep.Seq(parts...),
		Base:     2,
		Volume:   -1,
	}, nil
}
