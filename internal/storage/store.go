package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Frames    int                `json:"frames"`
	Particles int                `json:"particles"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Path      string             `json:"path"` // synthetic pointer path
	Theme     string             `json:"theme"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a new run directory named <preset>_<unix> and returns its id.
func (s *Store) Save(meta RunMetadata, frames []Frame) (string, error) {
	if err := s.Init(); err != nil {
		return "", fmt.Errorf("storage: %w", err)
	}
	now := time.Now()
	runID, runDir, err := s.newRunDir(meta.Preset, now)
	if err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Frames = len(frames)

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", fmt.Errorf("storage: %w", err)
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, frames); err != nil {
		return "", err
	}
	return runID, nil
}

// newRunDir creates the run directory, adding a counter when a run with the
// same name already exists in this second.
func (s *Store) newRunDir(preset string, now time.Time) (string, string, error) {
	if preset == "" {
		preset = "run"
	}
	base := fmt.Sprintf("%s_%d", preset, now.Unix())
	for n := 1; n < 100; n++ {
		id := base
		if n > 1 {
			id = fmt.Sprintf("%s_%d", base, n)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", fmt.Errorf("storage: %w", err)
		}
	}
	return "", "", fmt.Errorf("storage: too many runs named %s", base)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("storage: encode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, fmt.Errorf("storage: %w", err)
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, fmt.Errorf("storage: %w", err)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: parse metadata of %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, fmt.Errorf("storage: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("storage: read frames of %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []Frame{}, nil
	}

	frames := make([]Frame, 0, len(records)-1)
	for _, record := range records[1:] {
		f, err := parseFrame(record)
		if err != nil {
			continue
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func parseFrame(record []string) (Frame, error) {
	if len(record) < len(Columns) {
		return Frame{}, errors.New("storage: short row")
	}
	var f Frame
	var err error
	if f.Frame, err = strconv.Atoi(record[0]); err != nil {
		return Frame{}, err
	}
	if f.TimeMs, err = strconv.ParseFloat(record[1], 64); err != nil {
		return Frame{}, err
	}
	if f.Resets, err = strconv.Atoi(record[2]); err != nil {
		return Frame{}, err
	}
	if f.Trail, err = strconv.Atoi(record[3]); err != nil {
		return Frame{}, err
	}
	if f.Links, err = strconv.Atoi(record[4]); err != nil {
		return Frame{}, err
	}
	if f.MeanDist, err = strconv.ParseFloat(record[5], 64); err != nil {
		return Frame{}, err
	}
	return f, nil
}
