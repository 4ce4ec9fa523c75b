// Package export writes recorded motor traces to CSV, JSON and PNG.
package export

import (
	"encoding/csv"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/san-kum/stepsim/internal/sim"
)

// Sample is one recorded snapshot.
type Sample struct {
	T        float64 // seconds since the first sample
	Position float64
	Target   int
	Running  bool
}

// Recorder is a sim.Observer that keeps every published snapshot, up to a
// limit. Samples are appended on the loop goroutine and may be read from
// any other.
type Recorder struct {
	mu      sync.Mutex
	limit   int
	start   time.Time
	samples []Sample
}

// NewRecorder keeps at most limit samples; limit <= 0 means no limit.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit, samples: make([]Sample, 0, 256)}
}

func (r *Recorder) OnSnapshot(s sim.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.limit > 0 && len(r.samples) >= r.limit {
		return
	}
	if len(r.samples) == 0 {
		r.start = s.Time
	}
	r.samples = append(r.samples, Sample{
		T:        s.Time.Sub(r.start).Seconds(),
		Position: s.Position,
		Target:   s.Target,
		Running:  s.Running,
	})
}

func (r *Recorder) Samples() []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Sample, len(r.samples))
	copy(out, r.samples)
	return out
}

// WriteCSV writes samples with a header row.
func WriteCSV(path string, samples []Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "position", "target", "running"}); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.FormatFloat(s.T, 'f', 6, 64),
			strconv.FormatFloat(s.Position, 'f', 6, 64),
			strconv.Itoa(s.Target),
			strconv.FormatBool(s.Running),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
