package prediction

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/edumetrics/internal/domain/student"
)

// column is the compiled form of one artifact feature.
type column struct {
	name  string
	kind  Encoding
	mean  float64
	scale float64
	index map[string]int
	// offset is the position of this feature's first encoded input.
	offset int
	width  int
}

// Linear evaluates an exported linear regressor (the robust-loss estimator
// is linear at inference time). It is immutable after construction and safe
// for concurrent use.
type Linear struct {
	version   string
	intercept float64
	columns   []column
	coef      []float64
}

// NewLinear compiles an artifact into a pipeline. The artifact must be
// internally consistent and match the student record schema.
func NewLinear(a *Artifact) (*Linear, error) {
	if err := a.check(); err != nil {
		return nil, err
	}
	if err := a.conform(student.Schema()); err != nil {
		return nil, err
	}

	l := &Linear{version: a.Version, intercept: a.Intercept}
	for _, f := range a.Features {
		c := column{
			name:   f.Name,
			kind:   f.Kind,
			mean:   f.Mean,
			scale:  f.Scale,
			offset: len(l.coef),
			width:  len(f.Weights),
		}
		if c.scale == 0 {
			c.scale = 1
		}
		if len(f.Categories) > 0 {
			c.index = make(map[string]int, len(f.Categories))
			for i, cat := range f.Categories {
				c.index[cat] = i
			}
		}
		l.columns = append(l.columns, c)
		l.coef = append(l.coef, f.Weights...)
	}
	return l, nil
}

// Version identifies the artifact the pipeline was built from.
func (l *Linear) Version() string { return l.version }

// Encode turns a record into the model's input row.
func (l *Linear) Encode(rec student.Record) ([]float64, error) {
	values := rec.Values()
	if len(values) != len(l.columns) {
		return nil, fmt.Errorf("%w: record has %d values, model expects %d", ErrSchemaMismatch, len(values), len(l.columns))
	}
	row := make([]float64, len(l.coef))
	for i, v := range values {
		c := l.columns[i]
		if v.Name != c.name {
			return nil, fmt.Errorf("%w: value %d is %q, model expects %q", ErrSchemaMismatch, i, v.Name, c.name)
		}
		switch c.kind {
		case EncodingNumeric:
			row[c.offset] = (v.Number - c.mean) / c.scale
		case EncodingOrdinal:
			idx, ok := c.index[v.Category]
			if !ok {
				return nil, fmt.Errorf("%w: %s: unknown category %q", ErrPredictionFailed, c.name, v.Category)
			}
			row[c.offset] = (float64(idx) - c.mean) / c.scale
		case EncodingOneHot:
			idx, ok := c.index[v.Category]
			if !ok {
				return nil, fmt.Errorf("%w: %s: unknown category %q", ErrPredictionFailed, c.name, v.Category)
			}
			row[c.offset+idx] = 1
		}
	}
	return row, nil
}

// Predict returns the raw, unbounded score for rec.
func (l *Linear) Predict(ctx context.Context, rec student.Record) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPredictionFailed, err)
	}
	row, err := l.Encode(rec)
	if err != nil {
		return 0, err
	}
	y := l.intercept
	for i, x := range row {
		y += l.coef[i] * x
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, fmt.Errorf("%w: non-finite output %v", ErrPredictionFailed, y)
	}
	return y, nil
}
