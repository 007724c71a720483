package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/pagefx/internal/field"
)

func sampleFrames() []Frame {
	return []Frame{
		{Frame: 1, TimeMs: 16, Resets: 0, Trail: 1, Links: 40, MeanDist: 70.5},
		{Frame: 2, TimeMs: 32, Resets: 2, Trail: 2, Links: 38, MeanDist: 68.25},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{
		Preset:    "calm",
		Seed:      42,
		Particles: 40,
		Metrics:   map[string]float64{"links": 39},
	}
	runID, err := st.Save(meta, sampleFrames())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "calm_") {
		t.Errorf("unexpected run id %q", runID)
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Seed != 42 {
		t.Errorf("expected seed 42, got %d", loaded.Seed)
	}
	if loaded.Frames != 2 {
		t.Errorf("expected 2 frames, got %d", loaded.Frames)
	}
	if loaded.Metrics["links"] != 39 {
		t.Errorf("expected links 39, got %f", loaded.Metrics["links"])
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[1] != sampleFrames()[1] {
		t.Errorf("frame round trip: got %+v", frames[1])
	}
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "runs"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	// two saves in the same second get distinct ids
	id1, err := st.Save(RunMetadata{Preset: "default"}, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	id2, err := st.Save(RunMetadata{Preset: "default"}, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if id1 == id2 {
		t.Fatalf("duplicate run id %s", id1)
	}

	// stray files and broken runs are skipped
	_ = os.WriteFile(filepath.Join(st.Dir(), "notes.txt"), []byte("x"), 0644)
	_ = os.Mkdir(filepath.Join(st.Dir(), "broken"), 0755)

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunMetadata{Preset: "swarm"}, sampleFrames())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	data, err := os.ReadFile(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		t.Fatalf("frames.csv not created: %v", err)
	}
	header := strings.SplitN(string(data), "\n", 2)[0]
	if header != "frame,t_ms,resets,trail,links,mean_dist" {
		t.Errorf("header = %q", header)
	}
}

func TestLoadMissingRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Load err = %v, want ErrRunNotFound", err)
	}
	if _, err := st.LoadFrames("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LoadFrames err = %v, want ErrRunNotFound", err)
	}
}

func TestColumn(t *testing.T) {
	got, err := Column(sampleFrames(), "mean_dist")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != 70.5 || got[1] != 68.25 {
		t.Errorf("Column = %v", got)
	}
	for _, c := range Columns {
		if _, err := Column(sampleFrames(), c); err != nil {
			t.Errorf("column %s: %v", c, err)
		}
	}
	if _, err := Column(sampleFrames(), "energy"); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestRecorderAndJSON(t *testing.T) {
	var r Recorder
	r.OnFrame(field.Stats{Frame: 1, Clock: 16500 * time.Microsecond, Links: 3, MeanDistance: 12})
	r.OnFrame(field.Stats{Frame: 2, Clock: 33 * time.Millisecond, Resets: 1})

	frames := r.Frames()
	if len(frames) != 2 {
		t.Fatalf("recorded %d frames", len(frames))
	}
	if frames[0].TimeMs != 16.5 {
		t.Errorf("t_ms = %v", frames[0].TimeMs)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, RunMetadata{ID: "x"}, frames); err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		ID   string  `json:"id"`
		Rows []Frame `json:"rows"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.ID != "x" || len(decoded.Rows) != 2 || decoded.Rows[1].Resets != 1 {
		t.Errorf("decoded = %+v", decoded)
	}
}
