// Package storage persists run metadata and per-timestep floe-field
// snapshots, using a JSON-metadata-plus-CSV-timeseries layout.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/subzero/internal/config"
	"github.com/san-kum/subzero/internal/floe"
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

// RunMetadata is the initial-state snapshot of a run: the full
// simulation configuration plus run identity and final metrics.
type RunMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Config    *config.Config     `json:"config"`
	Metrics   map[string]float64 `json:"metrics"`
	NSteps    int                `json:"n_steps"`
}

// FloeRecord is one per-timestep, per-floe row of the persisted
// floe-field snapshot. Records with GhostID>0 are replicas and must be
// filtered when analyzing conservation.
type FloeRecord struct {
	Step        int
	Time        float64
	ID          int
	GhostID     int
	ParentIDs   []int
	CentroidX   float64
	CentroidY   float64
	Mass        float64
	Moment      float64
	U, V, Xi    float64
	Area        float64
	Height      float64
	StressXx    float64
	StressXy    float64
	StressYy    float64
	StrainXx    float64
	StrainXy    float64
	StrainYy    float64
}

var csvHeader = []string{
	"step", "time", "id", "ghost_id", "parent_ids",
	"centroid_x", "centroid_y", "mass", "moment", "u", "v", "xi",
	"area", "height", "stress_xx", "stress_xy", "stress_yy",
	"strain_xx", "strain_xy", "strain_yy",
}

func (r FloeRecord) row() []string {
	parents := make([]string, len(r.ParentIDs))
	for i, p := range r.ParentIDs {
		parents[i] = strconv.Itoa(p)
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	return []string{
		strconv.Itoa(r.Step), f(r.Time), strconv.Itoa(r.ID), strconv.Itoa(r.GhostID),
		strings.Join(parents, ";"),
		f(r.CentroidX), f(r.CentroidY), f(r.Mass), f(r.Moment), f(r.U), f(r.V), f(r.Xi),
		f(r.Area), f(r.Height), f(r.StressXx), f(r.StressXy), f(r.StressYy),
		f(r.StrainXx), f(r.StrainXy), f(r.StrainYy),
	}
}

// Recorder is a sim.Observer that buffers a FloeRecord per floe per step,
// without importing internal/sim (avoiding a storage<->sim import cycle;
// Driver.AddObserver accepts it structurally).
type Recorder struct {
	Records []FloeRecord
}

func (r *Recorder) OnStep(floes []*floe.Floe, t float64, step int) {
	for _, fl := range floes {
		r.Records = append(r.Records, FloeRecord{
			Step: step, Time: t, ID: fl.ID, GhostID: fl.GhostID, ParentIDs: fl.ParentIDs,
			CentroidX: fl.Centroid.X, CentroidY: fl.Centroid.Y,
			Mass: fl.Mass, Moment: fl.Moment, U: fl.U, V: fl.V, Xi: fl.Xi,
			Area: fl.Area, Height: fl.Height,
			StressXx: fl.StressAccum.Xx, StressXy: fl.StressAccum.Xy, StressYy: fl.StressAccum.Yy,
			StrainXx: fl.Strain.Xx, StrainXy: fl.Strain.Xy, StrainYy: fl.Strain.Yy,
		})
	}
}

// Save writes metadata.json and floes.csv for one run, returning the run
// ID (initial-state snapshot plus per-timestep floe-field snapshot).
func (s *Store) Save(cfg *config.Config, metrics map[string]float64, nSteps int, records []FloeRecord) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{ID: runID, Timestamp: time.Now(), Config: cfg, Metrics: metrics, NSteps: nSteps}
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

	csvFile, err := os.Create(filepath.Join(runDir, "floes.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()
	w := csv.NewWriter(csvFile)
	defer w.Flush()
	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, rec := range records {
		if err := w.Write(rec.row()); err != nil {
			return "", err
		}
	}
	return runID, nil
}

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
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}
