package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func sine(freq float64, rate beep.SampleRate, n int) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= n {
			return 0, false
		}
		i := 0
		for ; i < len(samples) && pos < n; i++ {
			v := 0.5 * math.Sin(2*math.Pi*freq*float64(pos)/float64(rate))
			samples[i] = [2]float64{v, v}
			pos++
		}
		return i, true
	})
}

func buffers(n int) [][]float32 {
	return [][]float32{make([]float32, n), make([]float32, n)}
}

func TestOutputPlaysUntilDone(t *testing.T) {
	o := NewOutput()
	done := make(chan struct{})
	format := beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}
	if err := o.Play(sine(440, SampleRate, 1500), format, func() { close(done) }); err != nil {
		t.Fatalf("Play: %v", err)
	}

	out := buffers(BufferSize)
	o.process(out)
	if !o.Playing() {
		t.Fatal("source ended after one buffer")
	}
	var energy float64
	for _, v := range out[0] {
		energy += float64(v * v)
	}
	if energy == 0 {
		t.Error("first buffer is silent")
	}

	o.process(out)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("done not called after the source ran out")
	}
	if o.Playing() {
		t.Error("source still attached after it ended")
	}
	// the tail of the second buffer is silence
	if out[1][BufferSize-1] != 0 {
		t.Errorf("tail sample = %v", out[1][BufferSize-1])
	}
}

func TestOutputStopSkipsDone(t *testing.T) {
	o := NewOutput()
	called := make(chan struct{}, 1)
	format := beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}
	_ = o.Play(sine(440, SampleRate, 10), format, func() { called <- struct{}{} })
	o.Stop()

	out := buffers(BufferSize)
	o.process(out)
	select {
	case <-called:
		t.Fatal("done called after Stop")
	case <-time.After(50 * time.Millisecond):
	}
	for _, v := range out[0] {
		if v != 0 {
			t.Fatal("stopped output is not silent")
		}
	}
}

func TestOutputResamples(t *testing.T) {
	o := NewOutput()
	format := beep.Format{SampleRate: 22050, NumChannels: 2, Precision: 2}
	done := make(chan struct{})
	// 512 samples at 22050Hz last ~1024 output samples
	if err := o.Play(sine(220, 22050, 512), format, func() { close(done) }); err != nil {
		t.Fatalf("Play: %v", err)
	}
	out := buffers(BufferSize / 4)
	for i := 0; i < 3; i++ {
		o.process(out)
	}
	if !o.Playing() {
		t.Fatal("resampled source ended too early")
	}
	for i := 0; i < 4; i++ {
		o.process(out)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("resampled source never finished")
	}
}

func TestOutputRejectsBadFormat(t *testing.T) {
	o := NewOutput()
	if err := o.Play(sine(1, 1, 1), beep.Format{}, nil); err != ErrInvalidFormat {
		t.Errorf("err = %v, want ErrInvalidFormat", err)
	}
	if err := o.Play(nil, beep.Format{SampleRate: SampleRate}, nil); err != ErrInvalidFormat {
		t.Errorf("nil streamer err = %v", err)
	}
}

func TestLevelsRespondToSignal(t *testing.T) {
	o := NewOutput()
	format := beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}
	_ = o.Play(sine(100, SampleRate, SampleRate), format, nil)
	out := buffers(BufferSize)
	for i := 0; i < 20; i++ {
		o.process(out)
	}
	bass, mid, high := o.Levels()
	if bass <= 0 {
		t.Errorf("bass = %v, want > 0 for a 100Hz tone", bass)
	}
	for _, v := range []float64{bass, mid, high} {
		if v < 0 || v > 1 {
			t.Errorf("level %v out of [0,1]", v)
		}
	}
	if bass < high {
		t.Errorf("bass %v below high %v for a low tone", bass, high)
	}
}
