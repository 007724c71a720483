package web

import (
	"encoding/binary"
	"io"
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func constant(n int, v float64) beep.Streamer {
	left := n
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if left == 0 {
			return 0, false
		}
		k := min(len(samples), left)
		for i := range samples[:k] {
			samples[i] = [2]float64{v, -v}
		}
		left -= k
		return k, true
	})
}

func TestPCMReaderEncodesAndFinishes(t *testing.T) {
	done := make(chan struct{}, 2)
	r := newPCMReader(constant(10, 0.5), func() { done <- struct{}{} })

	buf := make([]byte, 4*frameBytes)
	total := 0
	for {
		n, err := r.Read(buf)
		if n > 0 {
			l := math.Float32frombits(binary.LittleEndian.Uint32(buf[0:]))
			rr := math.Float32frombits(binary.LittleEndian.Uint32(buf[4:]))
			if l != 0.5 || rr != -0.5 {
				t.Fatalf("frame = (%v, %v)", l, rr)
			}
		}
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
	}
	if total != 10*frameBytes {
		t.Errorf("read %d bytes, want %d", total, 10*frameBytes)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("done not called")
	}
	if _, err := r.Read(buf); err != io.EOF {
		t.Errorf("read after drain: %v", err)
	}
	select {
	case <-done:
		t.Error("done called twice")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestPCMReaderStopSuppressesDone(t *testing.T) {
	called := make(chan struct{}, 1)
	r := newPCMReader(constant(100, 0.1), func() { called <- struct{}{} })
	r.stop()

	if n, err := r.Read(make([]byte, 64)); n != 0 || err != io.EOF {
		t.Errorf("read after stop = %d, %v", n, err)
	}
	select {
	case <-called:
		t.Error("done called after stop")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestPCMReaderShortBuffer(t *testing.T) {
	r := newPCMReader(constant(1, 0), nil)
	if _, err := r.Read(make([]byte, 3)); err != io.ErrShortBuffer {
		t.Errorf("err = %v", err)
	}
}
