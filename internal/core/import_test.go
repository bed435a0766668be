package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skleinke/upsbatch/internal/models"
)

func TestImportDelimited_SkipsBlankRows(t *testing.T) {
	cfg, st := newTestEnv(t)

	text := "Company,Address 1,City,Country,Weight\n" +
		"Acme,Main St 1,Berlin,DE,5\n" +
		",,,,\n"

	result, err := ImportDelimited(cfg, st, text, ',')
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Imported)
	assert.Empty(t, result.Errors, "blank rows are skipped, not reported")
	require.Len(t, result.Shipments, 1)

	rec := result.Shipments[0]
	assert.Equal(t, "Acme", rec.CompanyName)
	assert.Equal(t, "Main St 1", rec.Address1)
	assert.Equal(t, "Berlin", rec.City)
	assert.Equal(t, "DE", rec.Country)
	assert.Equal(t, 5.0, rec.Weight)
}

func TestImportDelimited_BadRowsNeverStopTheBatch(t *testing.T) {
	cfg, st := newTestEnv(t)

	text := "Company,Address 1,City,Country,Weight\n" +
		"Acme,Main St 1,Berlin,DE,5\n" +
		`"Kaputt GmbH,Street 1,Berlin,DE,5` + "\n" +
		"Beta KG,Weg 2,Hamburg,DE,schwer\n" +
		"Gamma AG,Allee 3,München,DE,3\n"

	result, err := ImportDelimited(cfg, st, text, ',')
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 3, result.Errors[0].Line, "physical line number, header is line 1")
	assert.Contains(t, result.Errors[0].Message, "Anführungszeichen")
	assert.Equal(t, 4, result.Errors[1].Line)
	assert.Contains(t, result.Errors[1].Message, "Gewicht")

	count, err := st.CountShipments()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestImportDelimited_SingleActivityAndUndo(t *testing.T) {
	cfg, st := newTestEnv(t)

	text := "Company,Address 1,City,Country\n" +
		"Acme,Main St 1,Berlin,DE\n" +
		"Beta KG,Weg 2,Hamburg,DE\n"

	result, err := ImportDelimited(cfg, st, text, ',')
	require.NoError(t, err)
	require.Equal(t, 2, result.Imported)

	activities, err := st.Activities()
	require.NoError(t, err)
	require.Len(t, activities, 1, "one batched entry, not one per row")
	assert.Equal(t, models.ActivityImport, activities[0].Type)

	done, err := PerformUndo(cfg, st, activities[0].ID)
	require.NoError(t, err)
	assert.True(t, done)

	count, err := st.CountShipments()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestImportDelimited_NoKnownColumns(t *testing.T) {
	cfg, st := newTestEnv(t)

	_, err := ImportDelimited(cfg, st, "Foo,Bar\n1,2\n", ',')
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Kopfzeile")
}

func TestImportDelimited_EmptyText(t *testing.T) {
	cfg, st := newTestEnv(t)

	_, err := ImportDelimited(cfg, st, "", ',')
	require.Error(t, err)
}

func TestImportFile_SSV(t *testing.T) {
	cfg, st := newTestEnv(t)

	path := filepath.Join(t.TempDir(), "sendungen.ssv")
	text := "Firma oder Name;Adresse 1;Stadt;Land;Gewicht\n" +
		"Schmidt, Müller & Co;Hauptstraße 1;Berlin;DE;7,5\n"
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))

	result, err := ImportFile(cfg, st, path, DefaultImportTimeout)
	require.NoError(t, err)

	require.Equal(t, 1, result.Imported)
	rec := result.Shipments[0]
	assert.Equal(t, "Schmidt, Müller & Co", rec.CompanyName, "comma is plain data under semicolon")
	assert.Equal(t, 7.5, rec.Weight, "decimal comma is tolerated")
}

func TestImportFile_SizeCap(t *testing.T) {
	cfg, st := newTestEnv(t)

	path := filepath.Join(t.TempDir(), "huge.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(11<<20))
	require.NoError(t, f.Close())

	_, err = ImportFile(cfg, st, path, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zu groß")
}

func TestImportFile_Missing(t *testing.T) {
	cfg, st := newTestEnv(t)

	_, err := ImportFile(cfg, st, filepath.Join(t.TempDir(), "nope.csv"), time.Second)
	require.Error(t, err)
}

func TestExportBatch(t *testing.T) {
	cfg, st := newTestEnv(t)

	_, err := ExportBatch(cfg, st, ExportOptions{})
	require.Error(t, err, "empty selection fails loudly")

	valid := validShipment()
	_, err = AddShipment(cfg, st, valid)
	require.NoError(t, err)

	invalid := validShipment()
	invalid.CompanyName = "Kaputt GmbH"
	invalid.PostalCode = "bad"
	_, err = AddShipment(cfg, st, invalid)
	require.NoError(t, err)

	out, err := ExportBatch(cfg, st, ExportOptions{Format: "ssv", IncludeHeaders: true})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Contact Name;Company or Name;"))

	out, err = ExportBatch(cfg, st, ExportOptions{Format: "csv", OnlyValid: true})
	require.NoError(t, err)
	lines = strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "Musterfirma GmbH")

	_, err = ExportBatch(cfg, st, ExportOptions{Format: "pdf"})
	require.Error(t, err)
}

func TestExportBatch_XML(t *testing.T) {
	cfg, st := newTestEnv(t)

	_, err := AddShipment(cfg, st, validShipment())
	require.NoError(t, err)

	out, err := ExportBatch(cfg, st, ExportOptions{Format: "xml"})
	require.NoError(t, err)
	assert.Contains(t, out, "<shipments>")
	assert.Contains(t, out, "<firma_oder_name>Musterfirma GmbH</firma_oder_name>")
}

func TestExportErrorReport(t *testing.T) {
	cfg, st := newTestEnv(t)

	rec := validShipment()
	rec.PostalCode = ""
	_, err := AddShipment(cfg, st, rec)
	require.NoError(t, err)

	report, err := ExportErrorReport(cfg, st)
	require.NoError(t, err)
	assert.Contains(t, report, "Fehlerbericht")
	assert.Contains(t, report, "postal_code")

	activities, err := st.Activities()
	require.NoError(t, err)
	assert.Equal(t, models.ActivityDownload, activities[0].Type)
}
