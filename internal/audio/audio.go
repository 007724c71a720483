package audio

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gordonklaus/portaudio"
	"github.com/mjibson/go-dsp/fft"
)

const (
	SampleRate = 44100
	BufferSize = 1024

	resampleQuality = 4
)

var ErrInvalidFormat = errors.New("audio: invalid stream format")

// Output is a stereo output device that plays one beep streamer at a time.
// The portaudio callback pulls from the current source and also keeps a
// smoothed bass/mid/high level of what was played.
type Output struct {
	Stream *portaudio.Stream

	mu   sync.Mutex
	src  beep.Streamer
	done func()
	buf  [][2]float64

	// analysis of the last buffer
	spectrum        []complex128
	bass, mid, high float64
	maxLevel        float64

	Active bool
}

func NewOutput() *Output {
	return &Output{
		buf:      make([][2]float64, BufferSize),
		spectrum: make([]complex128, BufferSize),
		maxLevel: 0.1,
	}
}

// Start opens and starts the default output stream.
func (o *Output) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio: initialize: %w", err)
	}

	// output only; duplex streams fail on many Linux setups
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, o.process)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("audio: open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("audio: start stream: %w", err)
	}

	o.Stream = stream
	o.Active = true
	return nil
}

// Play replaces the current source. done runs once, on its own goroutine,
// when s is exhausted. It does not run when the source is replaced or
// stopped.
func (o *Output) Play(s beep.Streamer, format beep.Format, done func()) error {
	if s == nil || format.SampleRate <= 0 {
		return ErrInvalidFormat
	}
	var src beep.Streamer = s
	if format.SampleRate != SampleRate {
		src = beep.Resample(resampleQuality, format.SampleRate, SampleRate, s)
	}

	o.mu.Lock()
	o.src = src
	o.done = done
	o.mu.Unlock()
	return nil
}

// Stop drops the current source without calling its done callback.
func (o *Output) Stop() {
	o.mu.Lock()
	o.src = nil
	o.done = nil
	o.mu.Unlock()
}

// Playing reports whether a source is attached.
func (o *Output) Playing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.src != nil
}

func (o *Output) Close() error {
	o.Stop()
	var err error
	if o.Stream != nil {
		if e := o.Stream.Stop(); e != nil {
			err = e
		}
		if e := o.Stream.Close(); e != nil && err == nil {
			err = e
		}
		o.Stream = nil
	}
	if o.Active {
		portaudio.Terminate()
		o.Active = false
	}
	if err != nil {
		return fmt.Errorf("audio: close: %w", err)
	}
	return nil
}

// Levels returns the smoothed bass, mid and high levels in [0, 1].
func (o *Output) Levels() (bass, mid, high float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.bass, o.mid, o.high
}

func (o *Output) process(out [][]float32) {
	n := len(out[0])
	if n > len(o.buf) {
		o.buf = make([][2]float64, n)
		o.spectrum = make([]complex128, n)
	}
	buf := o.buf[:n]

	o.mu.Lock()
	var finished func()
	filled := 0
	if o.src != nil {
		got, ok := o.src.Stream(buf)
		filled = got
		if !ok || got < n {
			finished = o.done
			o.src = nil
			o.done = nil
		}
	}
	for i := filled; i < n; i++ {
		buf[i] = [2]float64{}
	}
	for i := 0; i < n; i++ {
		out[0][i] = float32(buf[i][0])
		if len(out) > 1 {
			out[1][i] = float32(buf[i][1])
		}
	}
	o.analyze(buf)
	o.mu.Unlock()

	if finished != nil {
		go finished()
	}
}

// analyze buckets a Hann-windowed FFT of the mono mix into three bands with
// automatic gain. Caller holds o.mu.
func (o *Output) analyze(buf [][2]float64) {
	n := len(buf)
	if n < 2 {
		return
	}
	spec := o.spectrum[:n]
	for i, s := range buf {
		window := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		spec[i] = complex((s[0]+s[1])/2*window, 0)
	}
	spectrum := fft.FFT(spec)

	// bin width is SampleRate/n: ~215Hz and ~2kHz band edges at n=1024
	bassEnd, midEnd, highEnd := n*5/BufferSize, n*46/BufferSize, n*460/BufferSize
	var bassSum, midSum, highSum float64
	for i := 0; i < n/2; i++ {
		mag := cmplx.Abs(spectrum[i])
		switch {
		case i < bassEnd:
			bassSum += mag
		case i < midEnd:
			midSum += mag
		case i < highEnd:
			highSum += mag
		}
	}

	peak := math.Max(bassSum/100, math.Max(midSum/500, highSum/1000))
	if peak > o.maxLevel {
		o.maxLevel = peak
	} else {
		o.maxLevel *= 0.999
	}
	gain := 1.0
	if o.maxLevel > 0.001 {
		gain = math.Min(1/o.maxLevel, 50)
	}

	o.bass = o.bass*0.9 + math.Min(bassSum/100*gain, 1)*0.1
	o.mid = o.mid*0.9 + math.Min(midSum/500*gain, 1)*0.1
	o.high = o.high*0.9 + math.Min(highSum/1000*gain, 1)*0.1
}
