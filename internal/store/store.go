// Package store keeps recorded runs on disk, one directory per run holding
// metadata.json and samples.csv.
package store

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

var ErrNoRun = errors.New("store: run not found")

// Sample is one point of a recorded run.
type Sample struct {
	Time        float64 `json:"t"`
	Revolutions float64 `json:"revolutions"`
	Distance    float64 `json:"distance_cm"`
	Rotation    float64 `json:"rotation_rad"`
}

// RunMetadata describes a recorded run.
type RunMetadata struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Radius        float64   `json:"radius_cm"`
	Revolutions   float64   `json:"revolutions"`
	Speed         float64   `json:"speed"`
	PiMode        string    `json:"pi_mode"`
	Circumference float64   `json:"circumference_cm"`
	Distance      float64   `json:"distance_cm"`
	Duration      float64   `json:"duration_s"`
	Samples       int       `json:"samples"`
}

var csvHeader = []string{"t", "revolutions", "distance_cm", "rotation_rad"}

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Save writes a run and returns its id. ID, Timestamp and Samples in meta
// are filled in.
func (s *Store) Save(meta RunMetadata, samples []Sample) (string, error) {
	now := s.now()
	meta.ID = fmt.Sprintf("r%s_%s_%d", strconv.FormatFloat(meta.Radius, 'f', -1, 64), now.Format("20060102-150405"), now.Nanosecond()/1e6)
	meta.Timestamp = now
	meta.Samples = len(samples)
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, samples); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// WriteCSV writes samples with a header row.
func WriteCSV(f io.Writer, samples []Sample) error {
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range samples {
		row := []string{
			strconv.FormatFloat(p.Time, 'f', 4, 64),
			strconv.FormatFloat(p.Revolutions, 'f', 6, 64),
			strconv.FormatFloat(p.Distance, 'f', 4, 64),
			strconv.FormatFloat(p.Rotation, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns saved runs, oldest first. A missing directory is empty.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoRun, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("store: %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSamples reads a run's samples back. Malformed rows are skipped.
func (s *Store) LoadSamples(runID string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoRun, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < len(csvHeader) {
			continue
		}
		var vals [4]float64
		ok := true
		for j := range vals {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}
		samples = append(samples, Sample{Time: vals[0], Revolutions: vals[1], Distance: vals[2], Rotation: vals[3]})
	}
	return samples, nil
}
