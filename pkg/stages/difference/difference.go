// Package difference implements the frame differencing metric used for cut detection.
package difference

import (
	"fmt"

	"github.com/user/gifcut/pkg/pipeline"
	"github.com/user/gifcut/pkg/pixbuf"
	"github.com/user/gifcut/pkg/ports"
)

// Compute returns the percentage (0-100) of pixels whose luminance differs
// between a and b. Only whether a pixel changed counts, not by how much.
func Compute(a, b pixbuf.Buffer) (float64, error) {
	if !a.SameShape(b) {
		return 0, fmt.Errorf("%w: %dx%d vs %dx%d",
			pipeline.ErrShapeMismatch, a.Width, a.Height, b.Width, b.Height)
	}

	area := a.Area()
	if area == 0 {
		return 0, nil
	}

	ga := a.Gray()
	gb := b.Gray()

	changed := 0
	for i := range ga.Data {
		if ga.Data[i] != gb.Data[i] {
			changed++
		}
	}

	return float64(changed) * 100.0 / float64(area), nil
}

// Metric wraps Compute with diagnostic reporting.
type Metric struct {
	logger  ports.Logger
	verbose bool
	record  bool
	records []pipeline.DifferenceRecord
}

// NewMetric creates a new Metric. When verbose is set every value is logged;
// when record is set every value is kept for Records.
func NewMetric(logger ports.Logger, verbose, record bool) *Metric {
	return &Metric{
		logger:  logger.WithComponent("difference"),
		verbose: verbose,
		record:  record,
	}
}

// Measure computes the difference between the current and last frame.
func (m *Metric) Measure(current, last pipeline.Frame) (float64, error) {
	d, err := Compute(current.Buffer, last.Buffer)
	if err != nil {
		return 0, fmt.Errorf("frame %d: %w", current.Index, err)
	}

	if m.verbose {
		m.logger.Info("Difference between frames is: %.2f%%", d)
	}
	if m.record {
		m.records = append(m.records, pipeline.DifferenceRecord{Index: current.Index, Percentage: d})
	}

	return d, nil
}

// Records returns the recorded differences in frame order.
func (m *Metric) Records() []pipeline.DifferenceRecord {
	return m.records
}
