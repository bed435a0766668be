package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferDelimiter(t *testing.T) {
	assert.Equal(t, ';', InferDelimiter("batch.ssv"))
	assert.Equal(t, ';', InferDelimiter("BATCH.SSV"))
	assert.Equal(t, ',', InferDelimiter("batch.csv"))
	assert.Equal(t, ',', InferDelimiter("batch.txt"))
	assert.Equal(t, ',', InferDelimiter("batch"))
}

func TestParseLine_Plain(t *testing.T) {
	fields, err := ParseLine("Acme,Main St 1,Berlin", ',')
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Main St 1", "Berlin"}, fields)
}

func TestParseLine_TrimsWhitespace(t *testing.T) {
	fields, err := ParseLine(" Acme ;  Berlin ", ';')
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Berlin"}, fields)
}

func TestParseLine_QuotedDelimiter(t *testing.T) {
	fields, err := ParseLine(`"Schmidt, Müller & Co",Berlin`, ',')
	require.NoError(t, err)
	assert.Equal(t, []string{"Schmidt, Müller & Co", "Berlin"}, fields)
}

func TestParseLine_DoubledQuote(t *testing.T) {
	fields, err := ParseLine(`"He said ""hi"", bye",x`, ',')
	require.NoError(t, err)
	assert.Equal(t, []string{`He said "hi", bye`, "x"}, fields)
}

func TestParseLine_DanglingQuote(t *testing.T) {
	_, err := ParseLine(`"Acme,Berlin`, ',')
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Anführungszeichen")
}

func TestParseLine_EmptyFields(t *testing.T) {
	fields, err := ParseLine(",,,,", ',')
	require.NoError(t, err)
	assert.Equal(t, []string{"", "", "", "", ""}, fields)
}

func TestBuildFieldMap_CanonicalNames(t *testing.T) {
	m := BuildFieldMap([]string{"Company or Name", "Address 1", "City", "Country", "Weight"})
	assert.Equal(t, map[int]string{
		0: "company_name",
		1: "address1",
		2: "city",
		3: "country",
		4: "weight",
	}, m)
}

func TestBuildFieldMap_GermanLabels(t *testing.T) {
	m := BuildFieldMap([]string{"Firma oder Name", "Adresse 1", "Stadt", "Land", "Gewicht", "Postleitzahl"})
	assert.Equal(t, map[int]string{
		0: "company_name",
		1: "address1",
		2: "city",
		3: "country",
		4: "weight",
		5: "postal_code",
	}, m)
}

func TestBuildFieldMap_SubstringBothDirections(t *testing.T) {
	// shorter than the canonical name, and longer
	m := BuildFieldMap([]string{"Company", `"Weight (kg)"`})
	assert.Equal(t, "company_name", m[0])
	assert.Equal(t, "weight", m[1])
}

func TestBuildFieldMap_UnknownAndUnmanaged(t *testing.T) {
	m := BuildFieldMap([]string{"Frobnicate", "Location ID", "City"})
	// unknown columns and columns matching an unmanaged field are dropped
	assert.Equal(t, map[int]string{2: "city"}, m)
}

func TestMapRow(t *testing.T) {
	fieldMap := map[int]string{0: "company_name", 1: "city", 2: "weight"}
	data := MapRow(fieldMap, []string{"Acme", "", "5"})
	assert.Equal(t, map[string]string{"company_name": "Acme", "weight": "5"}, data)

	// short rows are tolerated
	data = MapRow(fieldMap, []string{"Acme"})
	assert.Equal(t, map[string]string{"company_name": "Acme"}, data)
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\nb\n"))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\r\nb\r\n"))
	assert.Equal(t, []string{"a", "", "b"}, SplitLines("a\n\nb"))
	assert.Empty(t, SplitLines("\n"))
}
