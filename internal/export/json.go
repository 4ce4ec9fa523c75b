package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/san-kum/stepsim/internal/sim"
)

// Run is the JSON document for one recorded run.
type Run struct {
	Speed      int       `json:"speed"`
	Resolution float64   `json:"resolution"`
	Direction  string    `json:"direction"`
	Steps      uint64    `json:"steps"`
	Final      float64   `json:"final_position"`
	Target     int       `json:"target"`
	Times      []float64 `json:"times"`
	Positions  []float64 `json:"positions"`
	Targets    []int     `json:"targets"`
}

// NewRun combines the final snapshot with the recorded samples.
func NewRun(final sim.Snapshot, samples []Sample) Run {
	r := Run{
		Speed:      final.Speed,
		Resolution: float64(final.Resolution),
		Direction:  final.Direction.String(),
		Steps:      final.Steps,
		Final:      final.Position,
		Target:     final.Target,
		Times:      make([]float64, len(samples)),
		Positions:  make([]float64, len(samples)),
		Targets:    make([]int, len(samples)),
	}
	for i, s := range samples {
		r.Times[i] = s.T
		r.Positions[i] = s.Position
		r.Targets[i] = s.Target
	}
	return r
}

func EncodeJSON(w io.Writer, run Run) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(run)
}

// WriteJSON writes run to path, or to stdout when path is "-".
func WriteJSON(path string, run Run) error {
	if path == "-" {
		return EncodeJSON(os.Stdout, run)
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer file.Close()
	return EncodeJSON(file, run)
}
