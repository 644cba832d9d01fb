package sound

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
)

// sampleRoot is the pitch a loaded sample is assumed to sound at.
const sampleRoot = 523.25

var ErrUnsupportedSample = errors.New("unsupported sample type")

// LoadSample decodes a short wav, mp3 or flac file fully into memory so it
// can replace the synthesized chime.
func LoadSample(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sample: %w", err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSample, filepath.Ext(path))
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode sample %s: %w", path, err)
	}
	// closing the decoder closes f
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("read sample %s: %w", path, err)
	}
	return buf, nil
}

// UseSample makes Chime play buf, pitch-shifted to the requested note,
// instead of the built-in bell. A nil buf restores the bell.
func (p *Player) UseSample(buf *beep.Buffer) {
	p.mu.Lock()
	p.sample = buf
	p.mu.Unlock()
}

// pitched plays buf at the output rate, sped up or slowed down so its root
// note lands on freq.
func pitched(buf *beep.Buffer, freq float64) beep.Streamer {
	ratio := float64(buf.Format().SampleRate) / float64(sampleRate) * freq / sampleRoot
	return beep.ResampleRatio(4, ratio, buf.Streamer(0, buf.Len()))
}
