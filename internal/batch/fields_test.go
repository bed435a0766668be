package batch

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skleinke/upsbatch/internal/models"
)

func TestFields_OrderIsStable(t *testing.T) {
	fs := Fields()
	require.Len(t, fs, 79)
	assert.Equal(t, "Contact Name", fs[0].Name)
	assert.Equal(t, "Company or Name", fs[1].Name)
	assert.Equal(t, "Service", fs[77].Name)
	assert.Equal(t, "Delivery Confirm", fs[78].Name)
}

func TestApplyRow_Basic(t *testing.T) {
	rec := &models.ShipmentRecord{}
	err := ApplyRow(rec, map[string]string{
		"company_name":  "Acme GmbH",
		"country":       "de",
		"address1":      "Hauptstraße 1",
		"city":          "Berlin",
		"postal_code":   "10115",
		"weight":        "7,5",
		"unit":          "kg",
		"customs_value": "120,50",
		"residential":   "ja",
		"gnifc":         "x",
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme GmbH", rec.CompanyName)
	assert.Equal(t, "DE", rec.Country, "country codes are uppercased")
	assert.Equal(t, 7.5, rec.Weight, "decimal comma is tolerated")
	assert.Equal(t, models.UnitKG, rec.Unit)
	assert.True(t, rec.CustomsValue.Equal(decimal.RequireFromString("120.50")))
	assert.True(t, rec.Residential)
	assert.True(t, rec.GNIFC)
}

func TestApplyRow_BadValues(t *testing.T) {
	rec := &models.ShipmentRecord{}

	err := ApplyRow(rec, map[string]string{"weight": "schwer"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weight")

	err = ApplyRow(rec, map[string]string{"unit": "TONNEN"})
	require.Error(t, err)

	err = ApplyRow(rec, map[string]string{"customs_value": "viel"})
	require.Error(t, err)
}

func TestParseFlag(t *testing.T) {
	for _, v := range []string{"1", "y", "yes", "x", "true", "ja", "JA", " Ja "} {
		assert.True(t, parseFlag(v), "%q", v)
	}
	for _, v := range []string{"", "0", "no", "nein", "false"} {
		assert.False(t, parseFlag(v), "%q", v)
	}
}

func TestFieldValue_ZeroValuesRenderEmpty(t *testing.T) {
	rec := &models.ShipmentRecord{}
	assert.Equal(t, "", FieldValue(rec, "weight"))
	assert.Equal(t, "", FieldValue(rec, "customs_value"))
	assert.Equal(t, "", FieldValue(rec, "residential"))

	rec.Weight = 7.5
	rec.Residential = true
	rec.CustomsValue = decimal.NewFromInt(120)
	assert.Equal(t, "7.5", FieldValue(rec, "weight"))
	assert.Equal(t, "1", FieldValue(rec, "residential"))
	assert.Equal(t, "120", FieldValue(rec, "customs_value"))
}
