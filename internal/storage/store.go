// Package storage writes snapshot directories of a visualization: its
// settings, its underlying points and a rendered frame.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/mathviz/internal/anim"
	"github.com/san-kum/mathviz/internal/export"
	"github.com/san-kum/mathviz/internal/visual"
	"github.com/san-kum/mathviz/internal/viz"
)

const (
	MetadataFile = "metadata.json"
	PointsFile   = "points.csv"
	FrameFile    = "frame.png"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type SnapshotMetadata struct {
	ID        string             `json:"id"`
	Viz       string             `json:"viz"`
	Timestamp time.Time          `json:"timestamp"`
	Theme     string             `json:"theme"`
	Seed      uint64             `json:"seed"`
	Mode      string             `json:"mode,omitempty"`
	Phase     string             `json:"phase,omitempty"`
	Status    string             `json:"status"`
	Detail    string             `json:"detail"`
	Params    map[string]float64 `json:"params"`
	Points    int                `json:"points"`
	Frame     string             `json:"frame,omitempty"`
}

// Options controls what a snapshot renders.
type Options struct {
	Theme      viz.Theme
	Seed       uint64
	FrameW     int // projection size for 3D views
	FrameH     int
	FrameScale float64
}

// Save writes metadata.json, points.csv and frame.png for v under a new
// snapshot directory and returns its ID.
func (s *Store) Save(v visual.Visualization, now time.Time, opts Options) (string, error) {
	id := fmt.Sprintf("%s_%d", v.Name(), now.UnixNano())
	dir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	st := v.Status(now)
	meta := SnapshotMetadata{
		ID:        id,
		Viz:       v.Name(),
		Timestamp: now,
		Theme:     opts.Theme.Name,
		Seed:      opts.Seed,
		Status:    st.Label,
		Detail:    st.Detail,
		Params:    map[string]float64{},
	}
	if c, ok := v.(visual.Cycler); ok {
		meta.Mode = c.Mode()
	}
	if m, ok := v.(interface{ Machine() *anim.Machine }); ok && m.Machine() != nil {
		meta.Phase = m.Machine().Phase().Name
	}
	if p, ok := v.(visual.Parametric); ok {
		for _, param := range p.Params() {
			if val, err := p.Param(param.Name); err == nil {
				meta.Params[param.Name] = val
			}
		}
	}

	header, rows := Points(v)
	meta.Points = len(rows)
	if err := writePoints(filepath.Join(dir, PointsFile), header, rows); err != nil {
		return "", err
	}

	if img, err := export.Frame(v, opts.FrameW, opts.FrameH, opts.Theme); err == nil {
		f, err := os.Create(filepath.Join(dir, FrameFile))
		if err != nil {
			return "", err
		}
		defer f.Close()
		scale := opts.FrameScale
		if scale <= 0 {
			scale = 1
		}
		if err := export.WritePNG(f, img, scale, export.CaptionFor(v, now), opts.Theme); err != nil {
			return "", err
		}
		meta.Frame = FrameFile
	}

	metaFile, err := os.Create(filepath.Join(dir, MetadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}
	return id, nil
}

func writePoints(path string, header []string, rows [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for i, val := range row {
			record[i] = strconv.FormatFloat(val, 'f', 6, 64)
		}
		if err := w.Write(record[:len(row)]); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable snapshot, oldest first.
func (s *Store) List() ([]SnapshotMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SnapshotMetadata{}, nil
		}
		return nil, err
	}

	snaps := make([]SnapshotMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		snaps = append(snaps, *meta)
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Timestamp.Before(snaps[j].Timestamp) })
	return snaps, nil
}

func (s *Store) Load(id string) (*SnapshotMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, MetadataFile))
	if err != nil {
		return nil, err
	}

	var meta SnapshotMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadPoints reads points.csv back. Unparseable cells are skipped.
func (s *Store) LoadPoints(id string) ([]string, [][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, id, PointsFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, [][]float64{}, nil
	}

	rows := make([][]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]float64, 0, len(record))
		for _, cell := range record {
			val, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				continue
			}
			row = append(row, val)
		}
		rows = append(rows, row)
	}
	return records[0], rows, nil
}
