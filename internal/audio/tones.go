package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"

	"github.com/vovakirdan/gridquest/internal/runner"
)

// Tone is a short run of sine notes played back to back.
type Tone struct {
	Freqs []float64 // Hz, one per note
	Note  time.Duration
}

// DefaultTones maps the runner's cues and the built-in games' tile and
// event sounds to tones.
var DefaultTones = map[runner.Cue]Tone{
	runner.CueBlocked:       {Freqs: []float64{110}, Note: 40 * time.Millisecond},
	runner.CueCollected:     {Freqs: []float64{880, 1320}, Note: 50 * time.Millisecond},
	runner.CueDied:          {Freqs: []float64{392, 311, 247, 196}, Note: 120 * time.Millisecond},
	runner.CueLevelComplete: {Freqs: []float64{523, 659, 784, 1047}, Note: 100 * time.Millisecond},

	"collect": {Freqs: []float64{1047, 1568}, Note: 50 * time.Millisecond},
	"dig":     {Freqs: []float64{196}, Note: 20 * time.Millisecond},
	"unlock":  {Freqs: []float64{659, 880, 1175}, Note: 70 * time.Millisecond},
	"slide":   {Freqs: []float64{147, 131}, Note: 60 * time.Millisecond},
	"push":    {Freqs: []float64{165}, Note: 50 * time.Millisecond},
}

// Samples returns the tone's length in samples at the given rate.
func (t Tone) Samples(sr beep.SampleRate) int {
	return len(t.Freqs) * sr.N(t.Note)
}

// streamer renders the tone as a finite stream.
func (t Tone) streamer(sr beep.SampleRate) (beep.Streamer, error) {
	notes := make([]beep.Streamer, 0, len(t.Freqs))
	for _, f := range t.Freqs {
		sine, err := generators.SineTone(sr, f)
		if err != nil {
			return nil, err
		}
		notes = append(notes, beep.Take(sr.N(t.Note), sine))
	}
	return beep.Seq(notes...), nil
}
