package cleaner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/data-cleaner/pkg/model"
)

func TestStandardizeFeatures(t *testing.T) {
	when := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	c := newCleaner(t,
		&model.Column{Name: "amount", Values: []any{1.0, 2.0, 2.0, 3.0}},
		&model.Column{Name: "color", Values: []any{"red", "blue", "red", "green"}},
		&model.Column{Name: "id", Values: []any{1.0, 2.0, 3.0, 4.0}},
		&model.Column{Name: "code", Values: []any{"a", "b", "c", "d"}},
		&model.Column{Name: "when", Values: []any{when, when, when, when}},
	)

	c.StandardizeFeatures()

	table := c.Table()
	assert.Equal(t, []string{"amount", "color_blue", "color_green", "color_red", "id", "code", "when"}, table.Names())
	assert.Equal(t, 7, c.Report().Summary(model.KeyFinalFeatures))

	amount := table.Column("amount").Values
	assert.InDelta(t, -1.4142135, amount[0].(float64), 1e-6)
	assert.InDelta(t, 0.0, amount[1].(float64), 1e-9)
	assert.InDelta(t, 1.4142135, amount[3].(float64), 1e-6)

	assert.Equal(t, []any{1.0, 0.0, 1.0, 0.0}, table.Column("color_red").Values)
	assert.Equal(t, []any{0.0, 1.0, 0.0, 0.0}, table.Column("color_blue").Values)

	assert.Equal(t, []any{1.0, 2.0, 3.0, 4.0}, table.Column("id").Values)
	assert.Equal(t, []any{"a", "b", "c", "d"}, table.Column("code").Values)
	assert.Equal(t, model.KindTemporal, table.Column("when").Kind)

	require.True(t, c.Transformer().Fitted)
	assert.Len(t, c.Transformer().Scalers, 1)
	assert.Len(t, c.Transformer().Encoders, 1)
}

func TestExcludedColumns(t *testing.T) {
	c := newCleaner(t,
		&model.Column{Name: "unique", Values: []any{1.0, 2.0, 3.0}},
		&model.Column{Name: "repeated", Values: []any{1.0, 1.0, 3.0}},
		&model.Column{Name: "names", Values: []any{"x", "y", "z"}},
	)

	assert.Equal(t, map[string]bool{"unique": true, "names": true}, c.excludedColumns())
}
