package validate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skleinke/upsbatch/internal/models"
)

// validRecord returns a domestic shipment that passes all rules.
func validRecord() *models.ShipmentRecord {
	return &models.ShipmentRecord{
		CompanyName: "Musterfirma GmbH",
		Address1:    "Hauptstraße 1",
		City:        "Berlin",
		Country:     "DE",
		PostalCode:  "10115",
		Weight:      5,
		Unit:        models.UnitKG,
		ServiceType: "11",
	}
}

func TestValidate_ValidRecord(t *testing.T) {
	result := Validate(validRecord())
	assert.True(t, result.IsValid)
	require.NotNil(t, result.Errors)
	assert.Empty(t, result.Errors)
}

func TestValidate_Deterministic(t *testing.T) {
	rec := validRecord()
	rec.PostalCode = "bad"
	rec.Weight = 99

	first := Validate(rec)
	second := Validate(rec)
	assert.Equal(t, first, second)
}

func TestValidate_RequiredFields(t *testing.T) {
	result := Validate(&models.ShipmentRecord{Weight: 1})
	assert.False(t, result.IsValid)

	fields := make(map[string]bool)
	for _, e := range result.Errors {
		fields[e.Field] = true
	}
	for _, want := range []string{"company_name", "address1", "city", "country", "postal_code"} {
		assert.True(t, fields[want], "missing finding for %s", want)
	}
}

func TestValidate_CollectsAllFindings(t *testing.T) {
	rec := validRecord()
	rec.CompanyName = ""
	rec.PostalCode = "1234"
	rec.Weight = 80

	result := Validate(rec)
	assert.False(t, result.IsValid)
	assert.Len(t, result.Errors, 3)
}

func TestValidate_PostalCode(t *testing.T) {
	tests := []struct {
		country, code string
		ok            bool
	}{
		{"DE", "10115", true},
		{"DE", "1234", false},
		{"DE", "ABCDE", false},
		{"US", "90210", true},
		{"US", "90210-1234", true},
		{"CA", "K1A 0B1", true},
		{"CA", "12345", false},
		{"GB", "SW1A 1AA", true},
		{"NL", "1234 AB", true},
		{"PL", "00-950", true},
		{"PL", "00950", false},
		// no dedicated pattern, permissive fallback
		{"BR", "01310-100", true},
		{"BR", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, ValidPostalCode(tt.country, tt.code), "%s %q", tt.country, tt.code)
	}
}

func TestValidate_WeightBounds(t *testing.T) {
	rec := validRecord()
	rec.Weight = 0
	result := Validate(rec)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "weight", result.Errors[0].Field)

	rec.Weight = 70
	assert.True(t, Validate(rec).IsValid)

	rec.Weight = 70.5
	assert.False(t, Validate(rec).IsValid)

	// The LB limit is higher
	rec.Unit = models.UnitLB
	rec.Weight = 150
	assert.True(t, Validate(rec).IsValid)

	rec.Weight = 150.1
	assert.False(t, Validate(rec).IsValid)
}

func TestValidate_Dimensions(t *testing.T) {
	rec := validRecord()
	assert.True(t, Validate(rec).IsValid, "no dimensions set")

	rec.Length, rec.Width, rec.Height = 100, 50, 50
	assert.True(t, Validate(rec).IsValid)

	// girth = 271 + 2*(10+10) = 311, only the length rule fires
	rec.Length, rec.Width, rec.Height = 271, 10, 10
	result := Validate(rec)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "length", result.Errors[0].Field)

	// girth = 200 + 2*(60+60) = 440
	rec.Length, rec.Width, rec.Height = 200, 60, 60
	result = Validate(rec)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "dimensions", result.Errors[0].Field)

	// girth = 271 + 2*(50+50) = 471, both rules report independently
	rec.Length, rec.Width, rec.Height = 271, 50, 50
	result = Validate(rec)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "length", result.Errors[0].Field)
	assert.Equal(t, "dimensions", result.Errors[1].Field)

	rec.Length, rec.Width, rec.Height = 0.5, 0, 0
	result = Validate(rec)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "length", result.Errors[0].Field)
}

func TestValidate_Email(t *testing.T) {
	rec := validRecord()
	rec.Email = ""
	assert.True(t, Validate(rec).IsValid, "empty email is allowed")

	rec.Email = "kunde@example.com"
	assert.True(t, Validate(rec).IsValid)

	rec.Email = "kein-at-zeichen"
	result := Validate(rec)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "email", result.Errors[0].Field)
}

func TestValidate_InternationalRequiresCustoms(t *testing.T) {
	rec := validRecord()
	rec.Country = "US"
	rec.PostalCode = "90210"

	result := Validate(rec)
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "customs_value", result.Errors[0].Field)
	assert.Equal(t, "goods_description", result.Errors[1].Field)

	// the domestic country never needs customs information
	rec.Country = "DE"
	rec.PostalCode = "10115"
	assert.True(t, Validate(rec).IsValid)

	rec.Country = "US"
	rec.PostalCode = "90210"
	rec.CustomsValue = decimal.NewFromInt(120)
	rec.GoodsDescription = "Ersatzteile"
	assert.True(t, Validate(rec).IsValid)
}

func TestValidServiceForCountry(t *testing.T) {
	// US/CA lanes use the domestic service set
	assert.True(t, ValidServiceForCountry("03", "US"))
	assert.True(t, ValidServiceForCountry("01", "CA"))
	assert.False(t, ValidServiceForCountry("11", "US"))

	// everything else uses the international set
	assert.True(t, ValidServiceForCountry("11", "DE"))
	assert.True(t, ValidServiceForCountry("65", "FR"))
	assert.False(t, ValidServiceForCountry("03", "DE"))

	// empty codes are left to the required-field checks
	assert.True(t, ValidServiceForCountry("", "DE"))
	assert.True(t, ValidServiceForCountry("11", ""))
}

func TestCheckServiceCountry(t *testing.T) {
	msg, ok := CheckServiceCountry("03", "DE")
	assert.False(t, ok)
	assert.NotEmpty(t, msg)

	msg, ok = CheckServiceCountry("11", "DE")
	assert.True(t, ok)
	assert.Empty(t, msg)
}
