package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"epiqc/pkg/contracts/domain"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoader_LoadCSV(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "linelist.csv", "Case ID,Onset Date,Age,Hospitalized\nC-001,2024-01-05,34,yes\nC-002,2024-01-07,,no\n")

	loader := NewLoader(dir, nil)
	ds, err := loader.Load("linelist")
	require.NoError(t, err)

	require.Len(t, ds.Columns, 4)
	assert.Equal(t, "case_id", ds.Columns[0].Key)
	assert.Equal(t, "Case ID", ds.Columns[0].Label)
	assert.Equal(t, domain.ColumnText, ds.Columns[0].Type)
	assert.Equal(t, domain.ColumnDate, ds.Columns[1].Type)
	assert.Equal(t, domain.ColumnNumber, ds.Columns[2].Type)
	assert.Equal(t, domain.ColumnBoolean, ds.Columns[3].Type)

	require.Len(t, ds.Records, 2)
	assert.Equal(t, "row-2", ds.Records[0].ID)
	assert.Equal(t, "row-3", ds.Records[1].ID)

	age, ok := ds.Records[0].Get("age").Number()
	require.True(t, ok)
	assert.Equal(t, 34.0, age)
	assert.True(t, ds.Records[1].Get("age").IsMissing())

	hosp, ok := ds.Records[0].Get("hospitalized").Bool()
	require.True(t, ok)
	assert.True(t, hosp)
}

func TestLoader_LoadExcel(t *testing.T) {
	dir := t.TempDir()

	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "name"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "age"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "jon smith"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 41))
	require.NoError(t, f.SaveAs(filepath.Join(dir, "cases.xlsx")))
	require.NoError(t, f.Close())

	loader := NewLoader(dir, nil)
	ds, err := loader.Load("cases")
	require.NoError(t, err)

	require.Len(t, ds.Records, 1)
	assert.Equal(t, "jon smith", ds.Records[0].Get("name").Text())
	age, ok := ds.Records[0].Get("age").Number()
	require.True(t, ok)
	assert.Equal(t, 41.0, age)
}

func TestLoader_List(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "beta.csv", "a\n1\n")
	writeCSV(t, dir, "alpha.csv", "a\n1\n")
	writeCSV(t, dir, "notes.txt", "ignored")

	loader := NewLoader(dir, nil)
	infos, err := loader.List()
	require.NoError(t, err)

	require.Len(t, infos, 2)
	assert.Equal(t, "alpha", infos[0].Name)
	assert.Equal(t, "beta", infos[1].Name)
	assert.Equal(t, "csv", infos[0].Format)
}

func TestLoader_LoadMissing(t *testing.T) {
	loader := NewLoader(t.TempDir(), nil)
	_, err := loader.Load("absent")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoader_RejectsPathTraversal(t *testing.T) {
	loader := NewLoader(t.TempDir(), nil)
	_, err := loader.Load("../etc/passwd")
	assert.Error(t, err)
}
