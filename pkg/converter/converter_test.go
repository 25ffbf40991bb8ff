package converter

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/data-cleaner/pkg/model"
)

func TestKindForDatabaseType(t *testing.T) {
	c := NewTypeConverter(nil)

	tests := []struct {
		dbType string
		want   model.ColumnKind
	}{
		{"NUMBER(38,0)", model.KindNumeric},
		{"int4", model.KindNumeric},
		{"DOUBLE PRECISION", model.KindNumeric},
		{"numeric(10, 2)", model.KindNumeric},
		{"VARCHAR(16777216)", model.KindText},
		{"character varying(100)", model.KindText},
		{"TEXT", model.KindText},
		{"_INT4", model.KindText},
		{"BOOL", model.KindText},
		{"TIMESTAMP_NTZ", model.KindTemporal},
		{"timestamp with time zone", model.KindTemporal},
		{"TIMESTAMP(3) WITHOUT TIME ZONE", model.KindTemporal},
		{"DATE", model.KindTemporal},
		{"GEOMETRY", model.KindUnknown},
		{"", model.KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			assert.Equal(t, tt.want, c.KindForDatabaseType(tt.dbType))
		})
	}
}

func TestGenerateColumnDefinitions(t *testing.T) {
	table := &model.Table{Columns: []*model.Column{
		{Name: "revenue", Kind: model.KindNumeric},
		{Name: "Signup_Date", Kind: model.KindTemporal},
		{Name: "segment", Kind: model.KindText},
		{Name: "blank", Kind: model.KindUnknown},
	}}

	defs, err := NewTypeConverter(nil).GenerateColumnDefinitions(table)
	require.NoError(t, err)
	assert.Equal(t, []string{
		`"revenue" DOUBLE PRECISION NULL`,
		`"signup_date" TIMESTAMP WITH TIME ZONE NULL`,
		`"segment" TEXT NULL`,
		`"blank" TEXT NULL`,
	}, defs)

	plain := NewTypeConverterWithConfig(nil, TypeConverterConfig{})
	assert.Equal(t, "TIMESTAMP", plain.PostgresType(model.KindTemporal))

	_, err = plain.GenerateColumnDefinitions(nil)
	assert.Error(t, err)
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"customer_id"`, QuoteIdentifier("Customer_ID"))
	assert.Equal(t, `"odd""name"`, QuoteIdentifier(`odd"name`))
}

func TestNormalizeDriverValue(t *testing.T) {
	c := NewTypeConverter(nil)
	when := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.Nil(t, c.NormalizeDriverValue(nil))
	assert.Equal(t, "abc", c.NormalizeDriverValue([]byte("abc")))
	assert.Nil(t, c.NormalizeDriverValue([]byte("  ")))
	assert.Equal(t, "true", c.NormalizeDriverValue(true))
	assert.Equal(t, int64(7), c.NormalizeDriverValue(int64(7)))
	assert.Equal(t, when, c.NormalizeDriverValue(when))
	assert.Equal(t, `[1,2]`, c.NormalizeDriverValue([]interface{}{1, 2}))
	assert.Equal(t, `{"k":"v"}`, c.NormalizeDriverValue(map[string]interface{}{"k": "v"}))

	keepEmpty := NewTypeConverterWithConfig(nil, TypeConverterConfig{EmptyStringAsNull: false})
	assert.Equal(t, "", keepEmpty.NormalizeDriverValue(""))
}

func TestConvertValueForPostgres(t *testing.T) {
	c := NewTypeConverter(nil)
	when := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	v, err := c.ConvertValueForPostgres(nil, model.KindNumeric)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = c.ConvertValueForPostgres(math.NaN(), model.KindNumeric)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = c.ConvertValueForPostgres(1.5, model.KindNumeric)
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)

	_, err = c.ConvertValueForPostgres(math.Inf(1), model.KindNumeric)
	assert.Error(t, err)

	_, err = c.ConvertValueForPostgres("abc", model.KindNumeric)
	assert.Error(t, err)

	v, err = c.ConvertValueForPostgres(when, model.KindTemporal)
	require.NoError(t, err)
	assert.Equal(t, when, v)

	_, err = c.ConvertValueForPostgres("2024-01-02", model.KindTemporal)
	assert.Error(t, err)

	v, err = c.ConvertValueForPostgres(when, model.KindText)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02T00:00:00Z", v)

	v, err = c.ConvertValueForPostgres(42.0, model.KindText)
	require.NoError(t, err)
	assert.Equal(t, "42", v)
}
