package prediction

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/okian/edumetrics/internal/domain/student"
)

// Encoding is how the training preprocessor turned a column into model inputs.
type Encoding string

const (
	EncodingNumeric Encoding = "numeric"
	EncodingOrdinal Encoding = "ordinal"
	EncodingOneHot  Encoding = "onehot"
)

// Artifact is the exported encoder + regressor bundle produced by the
// offline training job.
type Artifact struct {
	Version   string    `json:"version"`
	Model     string    `json:"model"`
	Intercept float64   `json:"intercept"`
	Features  []Feature `json:"features"`
}

// Feature is the preprocessing and coefficients of one training column.
type Feature struct {
	Name       string    `json:"name"`
	Kind       Encoding  `json:"kind"`
	Categories []string  `json:"categories,omitempty"`
	Mean       float64   `json:"mean,omitempty"`
	Scale      float64   `json:"scale,omitempty"`
	Weights    []float64 `json:"weights"`
}

const artifactSchemaURL = "schema://edumetrics/artifact.json"

//go:embed artifact.schema.json
var artifactSchemaJSON []byte

var compileArtifactSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(artifactSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse artifact schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(artifactSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add artifact schema: %w", err)
	}
	return c.Compile(artifactSchemaURL)
})

// ParseArtifact validates raw artifact bytes against the artifact JSON schema
// and decodes them. Malformed input is reported as ErrModelUnavailable.
func ParseArtifact(data []byte) (*Artifact, error) {
	sch, err := compileArtifactSchema()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: artifact is not JSON: %w", ErrModelUnavailable, err)
	}
	if err := sch.Validate(inst); err != nil {
		return nil, fmt.Errorf("%w: artifact failed validation: %w", ErrModelUnavailable, err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: decode artifact: %w", ErrModelUnavailable, err)
	}
	return &a, nil
}

// check verifies the bundle is internally consistent.
func (a *Artifact) check() error {
	for _, f := range a.Features {
		switch f.Kind {
		case EncodingNumeric:
			if len(f.Weights) != 1 {
				return fmt.Errorf("%w: %s: numeric feature needs 1 weight, has %d", ErrModelUnavailable, f.Name, len(f.Weights))
			}
		case EncodingOrdinal:
			if len(f.Categories) == 0 || len(f.Weights) != 1 {
				return fmt.Errorf("%w: %s: ordinal feature needs categories and 1 weight", ErrModelUnavailable, f.Name)
			}
		case EncodingOneHot:
			if len(f.Categories) == 0 || len(f.Weights) != len(f.Categories) {
				return fmt.Errorf("%w: %s: one-hot feature needs one weight per category", ErrModelUnavailable, f.Name)
			}
		default:
			return fmt.Errorf("%w: %s: unknown encoding %q", ErrModelUnavailable, f.Name, f.Kind)
		}
	}
	return nil
}

// conform checks the bundle against the record schema: names and order must
// match, encodings must fit the column kind, and every category a record can
// carry must be known to the encoder.
func (a *Artifact) conform(fields []student.Field) error {
	if len(a.Features) != len(fields) {
		return fmt.Errorf("%w: artifact has %d features, records have %d", ErrSchemaMismatch, len(a.Features), len(fields))
	}
	for i, want := range fields {
		got := a.Features[i]
		if got.Name != want.Name {
			return fmt.Errorf("%w: feature %d is %q, expected %q", ErrSchemaMismatch, i, got.Name, want.Name)
		}
		switch want.Kind {
		case student.KindNumeric:
			if got.Kind != EncodingNumeric {
				return fmt.Errorf("%w: %s is numeric but encoded as %s", ErrSchemaMismatch, want.Name, got.Kind)
			}
		case student.KindCategorical:
			if got.Kind == EncodingNumeric {
				return fmt.Errorf("%w: %s is categorical but encoded as numeric", ErrSchemaMismatch, want.Name)
			}
			for _, c := range want.Categories {
				if !slices.Contains(got.Categories, c) {
					return fmt.Errorf("%w: %s: category %q missing from artifact vocabulary", ErrSchemaMismatch, want.Name, c)
				}
			}
		}
	}
	return nil
}
