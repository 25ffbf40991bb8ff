package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableInfersKinds(t *testing.T) {
	when := time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)
	table, err := NewTable(
		&Column{Name: "amount", Values: []any{1, int64(2), 3.5, "N/A"}},
		&Column{Name: "label", Values: []any{"a", 2, nil, "b"}},
		&Column{Name: "seen", Values: []any{when, nil, when, when}},
		&Column{Name: "empty", Values: []any{nil, "", "null", math.NaN()}},
	)
	require.NoError(t, err)

	assert.Equal(t, KindNumeric, table.Column("amount").Kind)
	assert.Equal(t, []any{1.0, 2.0, 3.5, nil}, table.Column("amount").Values)

	assert.Equal(t, KindText, table.Column("label").Kind)
	assert.Equal(t, []any{"a", "2", nil, "b"}, table.Column("label").Values)

	assert.Equal(t, KindTemporal, table.Column("seen").Kind)
	assert.Equal(t, KindUnknown, table.Column("empty").Kind)
	assert.Equal(t, 4, table.Column("empty").MissingCount())
}

func TestNewTableDeclaredKindCoercesValues(t *testing.T) {
	table, err := NewTable(
		&Column{Name: "n", Kind: KindNumeric, Values: []any{"1.5", "abc", []byte("2")}},
		&Column{Name: "d", Kind: KindTemporal, Values: []any{"2023-04-20", "garbage", "04/20/2023"}},
	)
	require.NoError(t, err)

	assert.Equal(t, []any{1.5, nil, 2.0}, table.Column("n").Values)

	d := table.Column("d").Values
	require.IsType(t, time.Time{}, d[0])
	assert.Nil(t, d[1])
	require.IsType(t, time.Time{}, d[2])
	assert.Equal(t, d[0].(time.Time).YearDay(), d[2].(time.Time).YearDay())
}

func TestValidateRejectsRaggedColumns(t *testing.T) {
	_, err := NewTable(
		&Column{Name: "a", Values: []any{1, 2}},
		&Column{Name: "b", Values: []any{1}},
	)
	assert.Error(t, err)
}

func TestValidateRejectsNilColumn(t *testing.T) {
	first := &Table{Columns: []*Column{nil, {Name: "b", Values: []any{1.0}}}}
	assert.Error(t, first.Validate())

	last := &Table{Columns: []*Column{{Name: "a", Values: []any{1.0}}, nil}}
	assert.Error(t, last.Validate())

	_, err := NewTable(nil, &Column{Name: "b", Values: []any{1.0}})
	assert.Error(t, err)
}

func TestValueKeyTreatsNegativeZeroAsZero(t *testing.T) {
	assert.Equal(t, ValueKey(0.0), ValueKey(math.Copysign(0, -1)))
	assert.NotEqual(t, ValueKey(0.0), ValueKey("0"))
}

func TestUniqueName(t *testing.T) {
	taken := map[string]bool{"a": true, "a_1": true}
	isTaken := func(name string) bool { return taken[name] }

	assert.Equal(t, "b", UniqueName("b", isTaken))
	assert.Equal(t, "a_2", UniqueName("a", isTaken))
}

func TestCloneIsIndependent(t *testing.T) {
	table, err := NewTable(&Column{Name: "a", Values: []any{1.0, 2.0}})
	require.NoError(t, err)

	clone := table.Clone()
	clone.Columns[0].Values[0] = 99.0
	clone.Columns[0].Name = "b"

	assert.Equal(t, 1.0, table.Columns[0].Values[0])
	assert.Equal(t, "a", table.Columns[0].Name)
}

func TestKeepRowsAndCounts(t *testing.T) {
	table, err := NewTable(
		&Column{Name: "a", Values: []any{1.0, 2.0, 2.0, nil}},
		&Column{Name: "b", Values: []any{"x", "y", "y", "z"}},
	)
	require.NoError(t, err)

	assert.Equal(t, 4, table.RowCount())
	assert.Equal(t, 2, table.Column("a").DistinctCount())
	assert.Equal(t, 1, table.MissingCount())

	table.KeepRows([]bool{true, false, true, true})
	assert.Equal(t, 3, table.RowCount())
	assert.Equal(t, []any{"x", "y", "z"}, table.Column("b").Values)
	assert.Equal(t, []any{2.0, "y"}, table.Row(1))
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"2023-01-05", true},
		{"2023-01-05 10:30:00", true},
		{"2023-01-05T10:30:00Z", true},
		{"01/05/2023", true},
		{"2023/01/05", true},
		{"12", false},
		{"20230105", false},
		{"garbage", false},
		{"  ", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, ok := ParseTime(tt.in)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestIsNullToken(t *testing.T) {
	for _, s := range []string{"", " ", "NULL", "nil", "None", "NaN", "-nan", "N/A", "#N/A", "na", "<NA>"} {
		assert.True(t, IsNullToken(s), s)
	}
	for _, s := range []string{"0", "unknown", "nan!"} {
		assert.False(t, IsNullToken(s), s)
	}
}
