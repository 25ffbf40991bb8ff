// pkg/transform/transformer.go
package transform

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/David-Botos/data-cleaner/pkg/model"
)

// ScalerParams holds the learned standardization of one numeric column
type ScalerParams struct {
	Column string  `json:"column"`
	Mean   float64 `json:"mean"`
	Scale  float64 `json:"scale"`
}

// EncoderParams holds the learned vocabulary of one categorical column
type EncoderParams struct {
	Column     string   `json:"column"`
	Categories []string `json:"categories"`
}

// FeatureTransformer standardizes numeric columns and one-hot encodes
// categorical columns. Parameters are learned by Fit and replayed by
// Apply, so the same transformation can be used on new data.
type FeatureTransformer struct {
	Fitted      bool            `json:"fitted"`
	Scalers     []ScalerParams  `json:"scalers"`
	Encoders    []EncoderParams `json:"encoders"`
	Passthrough []string        `json:"passthrough"`
}

// NewFeatureTransformer creates an unfitted transformer
func NewFeatureTransformer() *FeatureTransformer {
	return &FeatureTransformer{}
}

// Fit learns scaling statistics and category vocabularies from t.
// Columns named in excluded, temporal columns and unclassified columns
// are passed through unchanged.
func (ft *FeatureTransformer) Fit(t *model.Table, excluded map[string]bool) error {
	if t == nil {
		return errors.New("table cannot be nil")
	}

	ft.Scalers = nil
	ft.Encoders = nil
	ft.Passthrough = nil

	var excludedNames, otherNames []string
	for _, col := range t.Columns {
		if excluded[col.Name] {
			excludedNames = append(excludedNames, col.Name)
			continue
		}
		switch col.Kind {
		case model.KindNumeric:
			ft.Scalers = append(ft.Scalers, fitScaler(col))
		case model.KindText:
			ft.Encoders = append(ft.Encoders, fitEncoder(col))
		default:
			otherNames = append(otherNames, col.Name)
		}
	}
	ft.Passthrough = append(excludedNames, otherNames...)
	ft.Fitted = true
	return nil
}

func fitScaler(col *model.Column) ScalerParams {
	values := col.Floats()
	params := ScalerParams{Column: col.Name, Mean: 0, Scale: 1}
	if len(values) == 0 {
		return params
	}
	mean, variance := stat.PopMeanVariance(values, nil)
	params.Mean = mean
	if std := math.Sqrt(variance); std > 0 && !math.IsNaN(std) {
		params.Scale = std
	}
	return params
}

func fitEncoder(col *model.Column) EncoderParams {
	seen := make(map[string]struct{})
	for _, v := range col.Values {
		if s, ok := v.(string); ok {
			seen[s] = struct{}{}
		}
	}
	categories := make([]string, 0, len(seen))
	for s := range seen {
		categories = append(categories, s)
	}
	sort.Strings(categories)
	return EncoderParams{Column: col.Name, Categories: categories}
}

// FeatureNames returns the output column names in order. Scaled and
// passthrough columns keep their names; an indicator whose name is already
// taken gets a numeric suffix.
func (ft *FeatureTransformer) FeatureNames() []string {
	used := make(map[string]bool)
	for _, s := range ft.Scalers {
		used[s.Column] = true
	}
	for _, name := range ft.Passthrough {
		used[name] = true
	}
	taken := func(name string) bool { return used[name] }

	var names []string
	for _, s := range ft.Scalers {
		names = append(names, s.Column)
	}
	for _, e := range ft.Encoders {
		for _, category := range e.Categories {
			name := model.UniqueName(e.Column+"_"+category, taken)
			used[name] = true
			names = append(names, name)
		}
	}
	return append(names, ft.Passthrough...)
}

// Apply transforms t using the fitted parameters and returns a new table:
// scaled numeric columns, then indicator columns, then passthrough columns.
// Categories not seen during Fit encode as all zeros.
func (ft *FeatureTransformer) Apply(t *model.Table) (*model.Table, error) {
	if !ft.Fitted {
		return nil, errors.New("transformer has not been fitted")
	}
	if t == nil {
		return nil, errors.New("table cannot be nil")
	}

	rows := t.RowCount()
	var out []*model.Column

	for _, s := range ft.Scalers {
		col := t.Column(s.Column)
		if col == nil {
			return nil, fmt.Errorf("fitted column %q not found", s.Column)
		}
		values := make([]any, rows)
		for i, v := range col.Values {
			f, ok := v.(float64)
			if !ok || math.IsNaN(f) {
				continue
			}
			values[i] = (f - s.Mean) / s.Scale
		}
		out = append(out, &model.Column{Kind: model.KindNumeric, Values: values})
	}

	for _, e := range ft.Encoders {
		col := t.Column(e.Column)
		if col == nil {
			return nil, fmt.Errorf("fitted column %q not found", e.Column)
		}
		index := make(map[string]int, len(e.Categories))
		indicators := make([]*model.Column, len(e.Categories))
		for i, category := range e.Categories {
			index[category] = i
			values := make([]any, rows)
			for r := range values {
				values[r] = 0.0
			}
			indicators[i] = &model.Column{Kind: model.KindNumeric, Values: values}
		}
		for r, v := range col.Values {
			s, ok := v.(string)
			if !ok {
				continue
			}
			if i, known := index[s]; known {
				indicators[i].Values[r] = 1.0
			}
		}
		out = append(out, indicators...)
	}

	for _, name := range ft.Passthrough {
		col := t.Column(name)
		if col == nil {
			return nil, fmt.Errorf("passthrough column %q not found", name)
		}
		out = append(out, col.Clone())
	}

	names := AlignNames(ft.FeatureNames(), len(out))
	for i, col := range out {
		col.Name = names[i]
	}
	return &model.Table{Columns: out}, nil
}

// FitApply fits on t and transforms it
func (ft *FeatureTransformer) FitApply(t *model.Table, excluded map[string]bool) (*model.Table, error) {
	if err := ft.Fit(t, excluded); err != nil {
		return nil, err
	}
	return ft.Apply(t)
}

// AlignNames returns exactly width names, filling any columns without a
// name with col_<index>
func AlignNames(names []string, width int) []string {
	aligned := make([]string, width)
	for i := range aligned {
		if i < len(names) {
			aligned[i] = names[i]
		} else {
			aligned[i] = fmt.Sprintf("col_%d", i)
		}
	}
	return aligned
}

// Save writes the fitted parameters as JSON
func (ft *FeatureTransformer) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ft); err != nil {
		return fmt.Errorf("failed to encode transformer: %w", err)
	}
	return nil
}

// Load reads parameters written by Save
func Load(r io.Reader) (*FeatureTransformer, error) {
	ft := &FeatureTransformer{}
	if err := json.NewDecoder(r).Decode(ft); err != nil {
		return nil, fmt.Errorf("failed to decode transformer: %w", err)
	}
	return ft, nil
}
