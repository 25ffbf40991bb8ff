package cleaner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/data-cleaner/pkg/model"
)

func day(d int) time.Time {
	return time.Date(2023, time.March, d, 0, 0, 0, 0, time.UTC)
}

func nullColumns() []*model.Column {
	return []*model.Column{
		{Name: "sparse", Values: []any{1.0, 2.0, nil, nil, nil, nil, nil, nil, nil, nil}},
		{Name: "edge", Values: []any{1.0, 2.0, 6.0, nil, nil, nil, nil, nil, nil, nil}},
		{Name: "city", Values: []any{"a", "b", nil, "a", nil, "b", "a", "a", "b", "a"}},
		{Name: "seen", Values: []any{day(4), nil, day(1), nil, day(3), nil, day(2), nil, nil, nil}},
	}
}

func TestHandleNullValues(t *testing.T) {
	c := newCleaner(t, nullColumns()...)

	c.HandleNullValues()

	assert.Equal(t, []string{"edge", "city", "seen"}, c.Table().Names())
	assert.Equal(t, 1, c.Report().Summary(model.KeyColumnsDropped))
	assert.Equal(t, 9, c.Report().Summary(model.KeyNullsImputed))

	for _, col := range c.Table().Columns {
		if col.Kind == model.KindNumeric || col.Kind == model.KindText {
			assert.Zero(t, col.MissingCount(), col.Name)
		}
	}
	assert.Equal(t, 3.0, c.Table().Column("edge").Values[9])
	assert.Equal(t, "unknown", c.Table().Column("city").Values[2])
	// temporal columns are left alone by default
	assert.Equal(t, 6, c.Table().Column("seen").MissingCount())
}

func TestHandleNullValuesMedianTemporal(t *testing.T) {
	opts := DefaultOptions()
	opts.TemporalImputation = TemporalImputeMedian
	c := newCleanerWithOptions(t, opts, nullColumns()...)

	c.HandleNullValues()

	seen := c.Table().Column("seen")
	require.NotNil(t, seen)
	assert.Zero(t, seen.MissingCount())
	assert.Equal(t, day(2), seen.Values[1])
	assert.Equal(t, 15, c.Report().Summary(model.KeyNullsImputed))
}

func TestHandleNullValuesAccumulatesImputed(t *testing.T) {
	c := newCleaner(t, &model.Column{Name: "n", Values: []any{1.0, nil, 3.0}})

	c.HandleNullValues()
	c.Table().Columns[0].Values[0] = nil
	c.HandleNullValues()

	assert.Equal(t, 2, c.Report().Summary(model.KeyNullsImputed))
	assert.Zero(t, c.Report().Summary(model.KeyColumnsDropped))
}

func TestHandleNullValuesDropsEmptyColumns(t *testing.T) {
	c := newCleaner(t,
		&model.Column{Name: "keep", Values: []any{"x", "y"}},
		&model.Column{Name: "blank", Values: []any{"", "n/a"}},
	)

	c.HandleNullValues()

	assert.Equal(t, []string{"keep"}, c.Table().Names())
	assert.Equal(t, 1, c.Report().Summary(model.KeyColumnsDropped))
}
