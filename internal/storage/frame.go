package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/san-kum/pagefx/internal/field"
)

// Columns is the header of frames.csv.
var Columns = []string{"frame", "t_ms", "resets", "trail", "links", "mean_dist"}

// Frame is one recorded row.
type Frame struct {
	Frame    int     `json:"frame"`
	TimeMs   float64 `json:"t_ms"`
	Resets   int     `json:"resets"`
	Trail    int     `json:"trail"`
	Links    int     `json:"links"`
	MeanDist float64 `json:"mean_dist"`
}

func FrameFromStats(s field.Stats) Frame {
	return Frame{
		Frame:    s.Frame,
		TimeMs:   float64(s.Clock.Microseconds()) / 1000,
		Resets:   s.Resets,
		Trail:    s.Trail,
		Links:    s.Links,
		MeanDist: s.MeanDistance,
	}
}

func (f Frame) row() []string {
	return []string{
		strconv.Itoa(f.Frame),
		strconv.FormatFloat(f.TimeMs, 'f', 3, 64),
		strconv.Itoa(f.Resets),
		strconv.Itoa(f.Trail),
		strconv.Itoa(f.Links),
		strconv.FormatFloat(f.MeanDist, 'f', 6, 64),
	}
}

// Value returns the named column as a float.
func (f Frame) Value(column string) (float64, error) {
	switch column {
	case "frame":
		return float64(f.Frame), nil
	case "t_ms":
		return f.TimeMs, nil
	case "resets":
		return float64(f.Resets), nil
	case "trail":
		return float64(f.Trail), nil
	case "links":
		return float64(f.Links), nil
	case "mean_dist":
		return f.MeanDist, nil
	}
	return 0, fmt.Errorf("storage: unknown column %q", column)
}

// Column extracts one column from every frame.
func Column(frames []Frame, name string) ([]float64, error) {
	out := make([]float64, len(frames))
	for i, f := range frames {
		v, err := f.Value(name)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// WriteCSV writes the header and one row per frame.
func WriteCSV(w io.Writer, frames []Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	for _, f := range frames {
		if err := cw.Write(f.row()); err != nil {
			return fmt.Errorf("storage: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	return nil
}

type exportData struct {
	RunMetadata
	Rows []Frame `json:"rows"`
}

// WriteJSON writes metadata and frames as one indented document.
func WriteJSON(w io.Writer, meta RunMetadata, frames []Frame) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(exportData{RunMetadata: meta, Rows: frames}); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	return nil
}

// Recorder collects frames from an animator. It implements field.Observer.
type Recorder struct {
	mu     sync.Mutex
	frames []Frame
}

func (r *Recorder) OnFrame(s field.Stats) {
	r.mu.Lock()
	r.frames = append(r.frames, FrameFromStats(s))
	r.mu.Unlock()
}

func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Frame, len(r.frames))
	copy(out, r.frames)
	return out
}
