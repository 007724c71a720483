package quote

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"
)

var ErrUnsupportedFormat = errors.New("quote: unsupported audio format")

// Button is one quote's play control.
type Button struct {
	ID      string
	Src     string
	Playing bool
}

func (b *Button) Icon() string {
	if b.Playing {
		return "⏸"
	}
	return "▶"
}

// Sink plays decoded audio. done is called once when the stream runs out;
// it is not called after Stop.
type Sink interface {
	Play(s beep.Streamer, format beep.Format, done func()) error
	Stop()
}

// Decoder opens an audio source.
type Decoder func(src string) (beep.StreamSeekCloser, beep.Format, error)

// decoders maps a lowercase file extension to its decoder.
var decoders = map[string]func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error){
	".wav": func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(rc) },
	".mp3": mp3.Decode,
}

func decoderFor(name string) (func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error), error) {
	ext := strings.ToLower(filepath.Ext(name))
	d, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return d, nil
}

// Decode reads audio from rc, choosing the format by the extension of name.
// rc is closed on failure, and with the stream otherwise.
func Decode(name string, rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	decode, err := decoderFor(name)
	if err != nil {
		rc.Close()
		return nil, beep.Format{}, err
	}
	s, format, err := decode(rc)
	if err != nil {
		rc.Close()
		return nil, beep.Format{}, fmt.Errorf("quote: decode %s: %w", name, err)
	}
	return s, format, nil
}

// DecodeFile opens a wav, mp3 or flac file, chosen by extension. flac is
// unavailable in browser builds.
func DecodeFile(src string) (beep.StreamSeekCloser, beep.Format, error) {
	if _, err := decoderFor(src); err != nil {
		return nil, beep.Format{}, err
	}
	f, err := os.Open(src)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("quote: open: %w", err)
	}
	return Decode(src, f)
}

// Player keeps at most one quote playing.
type Player struct {
	mu      sync.Mutex
	sink    Sink
	decode  Decoder
	logger  *slog.Logger
	current *Button
	stream  beep.StreamSeekCloser
	gen     uint64
	onEnd   func(*Button)
}

type Option func(*Player)

func WithDecoder(d Decoder) Option {
	return func(p *Player) { p.decode = d }
}

// WithOnEnd registers a callback run after a track finishes on its own.
func WithOnEnd(fn func(*Button)) Option {
	return func(p *Player) { p.onEnd = fn }
}

func NewPlayer(sink Sink, logger *slog.Logger, opts ...Option) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Player{sink: sink, decode: DecodeFile, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Current returns the playing button, or nil.
func (p *Player) Current() *Button {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Press handles a click on b. A blank source is ignored. Pressing the
// playing button stops it; pressing another one switches to it. Errors
// leave b idle.
func (p *Player) Press(b *Button) error {
	if b == nil || strings.TrimSpace(b.Src) == "" {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == b {
		p.stopLocked()
		return nil
	}
	p.stopLocked()

	s, format, err := p.decode(b.Src)
	if err != nil {
		p.logger.Warn("quote playback failed", "id", b.ID, "src", b.Src, "err", err)
		return err
	}

	p.gen++
	gen := p.gen
	p.current = b
	p.stream = s
	b.Playing = true

	if err := p.sink.Play(s, format, func() { p.ended(gen) }); err != nil {
		p.current = nil
		p.stream = nil
		b.Playing = false
		s.Close()
		p.logger.Warn("quote playback failed", "id", b.ID, "src", b.Src, "err", err)
		return fmt.Errorf("quote: play %s: %w", b.ID, err)
	}
	p.logger.Debug("quote playing", "id", b.ID, "rate", int(format.SampleRate))
	return nil
}

// Stop halts whatever is playing.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.current == nil {
		return
	}
	p.sink.Stop()
	p.release()
}

// release closes the stream; the next press reopens it from the start.
func (p *Player) release() {
	if p.stream != nil {
		if err := p.stream.Close(); err != nil {
			p.logger.Debug("quote close", "err", err)
		}
		p.stream = nil
	}
	p.current.Playing = false
	p.current = nil
	p.gen++
}

// ended runs when the sink drains a stream. A stale generation means the
// track was already stopped or replaced.
func (p *Player) ended(gen uint64) {
	p.mu.Lock()
	if gen != p.gen || p.current == nil {
		p.mu.Unlock()
		return
	}
	b := p.current
	p.release()
	onEnd := p.onEnd
	p.mu.Unlock()

	p.logger.Debug("quote ended", "id", b.ID)
	if onEnd != nil {
		onEnd(b)
	}
}
