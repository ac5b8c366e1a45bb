// Package audio plays the runner's sound cues through the system speaker.
//
// Cues map to short synthesized tones. A tile sound ending in ".wav" is
// read from the level filesystem instead and cached after first use.
package audio

import (
	"fmt"
	"io"
	"io/fs"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/vovakirdan/gridquest/internal/runner"
)

const sampleRate = beep.SampleRate(44100)

// Options configures a Player.
type Options struct {
	Volume float64 // 0.0 = silent, 1.0 = full
	Tones  map[runner.Cue]Tone
	Sounds fs.FS // Where ".wav" tile sounds are looked up
	Logger *log.Logger
}

// Player implements runner.Audio on top of a beep mixer.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	tones       map[runner.Cue]Tone
	sounds      fs.FS
	buffers     map[string]*beep.Buffer
	log         *log.Logger
	initialized bool
}

var _ runner.Audio = (*Player)(nil)

// New creates a player. It is silent until Init succeeds.
func New(opts Options) *Player {
	if opts.Tones == nil {
		opts.Tones = DefaultTones
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Player{
		mixer:   &beep.Mixer{},
		volume:  math.Max(0, math.Min(1, opts.Volume)),
		tones:   opts.Tones,
		sounds:  opts.Sounds,
		buffers: make(map[string]*beep.Buffer),
		log:     opts.Logger,
	}
}

// Init opens the speaker and starts the mixer.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("audio: cannot open speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close silences everything still playing.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// Play starts the cue without waiting for it. Unknown cues are ignored.
func (p *Player) Play(c runner.Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.volume == 0 {
		return
	}
	s, ok := p.streamer(c)
	if !ok {
		return
	}
	speaker.Lock()
	p.mixer.Add(p.withVolume(s))
	speaker.Unlock()
}

// streamer resolves a cue to a fresh stream. Callers hold p.mu.
func (p *Player) streamer(c runner.Cue) (beep.Streamer, bool) {
	name := string(c)
	if strings.HasSuffix(strings.ToLower(name), ".wav") {
		buf, err := p.buffer(name)
		if err != nil {
			p.log.Warn("cannot load sound", "sound", name, "err", err)
			return nil, false
		}
		return buf.Streamer(0, buf.Len()), true
	}

	tone, ok := p.tones[c]
	if !ok {
		return nil, false
	}
	s, err := tone.streamer(sampleRate)
	if err != nil {
		p.log.Warn("cannot synthesize cue", "cue", name, "err", err)
		return nil, false
	}
	return s, true
}

// buffer decodes a WAV file once and resamples it to the speaker rate.
func (p *Player) buffer(name string) (*beep.Buffer, error) {
	if buf, ok := p.buffers[name]; ok {
		return buf, nil
	}
	if p.sounds == nil {
		return nil, fmt.Errorf("no sound files available")
	}

	f, err := p.sounds.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	defer s.Close()

	buf := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
	if format.SampleRate == sampleRate {
		buf.Append(s)
	} else {
		buf.Append(beep.Resample(4, format.SampleRate, sampleRate, s))
	}
	p.buffers[name] = buf
	return buf, nil
}

// withVolume scales s to the configured volume on a log2 scale.
func (p *Player) withVolume(s beep.Streamer) beep.Streamer {
	if p.volume >= 1 {
		return s
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(p.volume)}
}
