package cleaner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/David-Botos/data-cleaner/pkg/model"
)

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.75, quantile(sorted, 0.25), 1e-12)
	assert.InDelta(t, 2.5, quantile(sorted, 0.5), 1e-12)
	assert.InDelta(t, 3.25, quantile(sorted, 0.75), 1e-12)
	assert.Equal(t, 7.0, quantile([]float64{7}, 0.25))
	assert.True(t, math.IsNaN(quantile(nil, 0.5)))
}

func TestHandleOutliersClipsToFences(t *testing.T) {
	c := newCleaner(t,
		&model.Column{Name: "v", Values: []any{-50.0, 1.0, 2.0, 3.0, 4.0, 100.0, nil}},
		&model.Column{Name: "label", Values: []any{"a", "b", "c", "d", "e", "f", "g"}},
	)

	c.HandleOutliers()

	// Q1 = 1.25, Q3 = 3.75, IQR = 2.5
	assert.Equal(t, []any{-2.5, 1.0, 2.0, 3.0, 4.0, 7.5, nil}, c.Table().Column("v").Values)
	assert.Equal(t, []any{"a", "b", "c", "d", "e", "f", "g"}, c.Table().Column("label").Values)
	assert.Equal(t, 2, c.Report().Summary(model.KeyOutliersTreated))

	// clipped values sit on the fences and are not counted again
	c.HandleOutliers()
	assert.Zero(t, c.Report().Summary(model.KeyOutliersTreated))
}

func TestHandleOutliersSumsAcrossColumns(t *testing.T) {
	c := newCleaner(t,
		&model.Column{Name: "a", Values: []any{1.0, 2.0, 3.0, 4.0, 100.0}},
		&model.Column{Name: "b", Values: []any{10.0, 10.0, 10.0, 10.0, 10.0}},
		&model.Column{Name: "c", Values: []any{-100.0, 1.0, 2.0, 3.0, 4.0}},
	)

	c.HandleOutliers()

	assert.Equal(t, 7.0, c.Table().Column("a").Values[4])
	assert.Equal(t, -2.0, c.Table().Column("c").Values[0])
	assert.Equal(t, 2, c.Report().Summary(model.KeyOutliersTreated))
}
