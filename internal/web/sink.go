package web

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/gopxl/beep"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

// Sink plays quotes through an ebiten audio context. It implements
// quote.Sink.
type Sink struct {
	ctx *audio.Context

	mu     sync.Mutex
	player *audio.Player
	reader *pcmReader
}

func NewSink(ctx *audio.Context) *Sink {
	return &Sink{ctx: ctx}
}

func (s *Sink) Play(st beep.Streamer, format beep.Format, done func()) error {
	s.Stop()
	if format.NumChannels <= 0 || format.SampleRate <= 0 {
		return fmt.Errorf("web: bad format %+v", format)
	}
	rate := beep.SampleRate(s.ctx.SampleRate())
	if format.SampleRate != rate {
		st = beep.Resample(4, format.SampleRate, rate, st)
	}

	r := newPCMReader(st, done)
	p, err := s.ctx.NewPlayerF32(r)
	if err != nil {
		return fmt.Errorf("web: new player: %w", err)
	}

	s.mu.Lock()
	s.player, s.reader = p, r
	s.mu.Unlock()
	p.Play()
	return nil
}

// Stop drops the current stream without calling its done callback.
func (s *Sink) Stop() {
	s.mu.Lock()
	p, r := s.player, s.reader
	s.player, s.reader = nil, nil
	s.mu.Unlock()

	if r != nil {
		r.stop()
	}
	if p != nil {
		p.Pause()
		p.Close()
	}
}

// pcmReader turns a beep streamer into interleaved little-endian float32
// stereo, the format audio.Context.NewPlayerF32 reads.
type pcmReader struct {
	mu      sync.Mutex
	src     beep.Streamer
	done    func()
	buf     [][2]float64
	stopped bool
	drained bool
}

const frameBytes = 8 // two float32 channels

func newPCMReader(src beep.Streamer, done func()) *pcmReader {
	return &pcmReader{src: src, done: done}
}

func (r *pcmReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped || r.drained {
		return 0, io.EOF
	}
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, io.ErrShortBuffer
	}
	if len(r.buf) < frames {
		r.buf = make([][2]float64, frames)
	}

	n, ok := r.src.Stream(r.buf[:frames])
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(p[i*frameBytes:], math.Float32bits(float32(r.buf[i][0])))
		binary.LittleEndian.PutUint32(p[i*frameBytes+4:], math.Float32bits(float32(r.buf[i][1])))
	}
	if !ok || n == 0 {
		r.finish()
		if n == 0 {
			return 0, io.EOF
		}
	}
	return n * frameBytes, nil
}

// finish runs done off the audio goroutine; the callback takes the quote
// player's lock, which may be held by a caller waiting in Stop.
func (r *pcmReader) finish() {
	r.drained = true
	if r.done != nil {
		go r.done()
		r.done = nil
	}
}

func (r *pcmReader) stop() {
	r.mu.Lock()
	r.stopped = true
	r.done = nil
	r.mu.Unlock()
}
