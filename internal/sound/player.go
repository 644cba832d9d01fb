package sound

import (
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/rs/zerolog"
)

const (
	sampleRate    = beep.SampleRate(44100)
	tapRingSize   = 4096
	levelWindow   = 1024
	chimeLength   = 350 * time.Millisecond
	chimeDecay    = 11.0 // 1/s
	chimeOvertone = 0.35
)

// Overridden in tests so no audio device is needed.
var (
	speakerInit   = speaker.Init
	speakerPlay   = speaker.Play
	speakerLock   = speaker.Lock
	speakerUnlock = speaker.Unlock
)

// Player plays short UI sounds. A Player whose device failed to open is
// silent; every method stays safe to call.
type Player struct {
	mixer   *beep.Mixer
	tap     *levelTap
	sample  *beep.Buffer
	volume  float64
	enabled bool
	logger  zerolog.Logger
	mu      sync.Mutex
}

// NewPlayer opens the speaker and starts the persistent output chain
// mixer -> tap -> speaker. volume is in [0,1].
func NewPlayer(enabled bool, volume float64, logger zerolog.Logger) *Player {
	p := &Player{
		mixer:  &beep.Mixer{},
		volume: math.Max(0, math.Min(volume, 1)),
		logger: logger,
	}
	p.tap = newLevelTap(p.mixer, tapRingSize)

	if !enabled {
		logger.Debug().Msg("sound disabled by config")
		return p
	}
	if err := speakerInit(sampleRate, sampleRate.N(time.Second/20)); err != nil {
		logger.Warn().Err(err).Msg("audio unavailable, continuing without sound")
		return p
	}
	speakerPlay(p.tap)
	p.enabled = true
	return p
}

func (p *Player) Enabled() bool { return p.enabled }

// Chime plays a short bell, or the loaded sample, at the given pitch in Hz.
func (p *Player) Chime(freq float64) {
	if !p.enabled || p.volume == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	var src beep.Streamer
	if p.sample != nil {
		src = pitched(p.sample, freq)
	} else {
		src = chime(sampleRate, freq, chimeLength)
	}
	// volume 0..1 maps onto -4..0 in base-2 gain steps
	s := &effects.Volume{
		Streamer: src,
		Base:     2,
		Volume:   (p.volume - 1) * 4,
	}
	speakerLock()
	p.mixer.Add(s)
	speakerUnlock()
}

// Level is the loudness of what just played, in [0,1].
func (p *Player) Level() float64 {
	if !p.enabled {
		return 0
	}
	return p.tap.level(levelWindow)
}

// chime synthesizes an exponentially decaying sine with one overtone.
func chime(sr beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	total := sr.N(d)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= total {
				break
			}
			t := float64(pos) / float64(sr)
			env := math.Exp(-chimeDecay * t)
			v := env * (math.Sin(2*math.Pi*freq*t) + chimeOvertone*math.Sin(4*math.Pi*freq*t)) / (1 + chimeOvertone)
			samples[i] = [2]float64{v, v}
			pos++
			n++
		}
		return n, true
	})
}
