package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/dsvalidate-cli/internal/dataset"
)

func TestLoadCSVTypesAndNulls(t *testing.T) {
	data := []byte("id,amount,city,code\n1,10.5,Paris,7\n2,NA,,abc\n3,-2e3,N/A, 8\n")
	ds, err := Load("data.csv", data, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Rows())
	assert.Equal(t, []string{"id", "amount", "city", "code"}, ds.Names())

	amount, _ := ds.Column("amount")
	assert.True(t, amount.IsNumeric())
	assert.Equal(t, []dataset.Value{dataset.Number(10.5), dataset.Null(), dataset.Number(-2000)}, amount.Values)

	city, _ := ds.Column("city")
	assert.Equal(t, []dataset.Value{dataset.String("Paris"), dataset.Null(), dataset.Null()}, city.Values)

	code, _ := ds.Column("code")
	assert.True(t, code.IsStringTyped())
	assert.Equal(t, dataset.String(" 8"), code.Values[2])
}

func TestLoadCSVWithBOMAndSemicolons(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("name;score\nann;1\nbob;2\n")...)
	ds, err := Load("eu.csv", data, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "score"}, ds.Names())
	assert.Equal(t, 2, ds.Rows())
}

func TestLoadTSVAndExplicitDelimiter(t *testing.T) {
	ds, err := Load("x.tsv", []byte("a\tb\n1\t2\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ds.Names())

	ds, err = Load("x.csv", []byte("a|b\n1|2\n"), Options{Delimiter: '|'})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.NumColumns())
}

func TestLoadHeaderNaming(t *testing.T) {
	ds, err := Load("h.csv", []byte("a,,a,a\n1,2,3,4\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "Unnamed: 1", "a.1", "a.2"}, ds.Names())
}

func TestLoadShortRowsPadWithNull(t *testing.T) {
	ds, err := Load("s.csv", []byte("a,b\n1\n2,3\n"), Options{})
	require.NoError(t, err)
	b, _ := ds.Column("b")
	assert.Equal(t, []dataset.Value{dataset.Null(), dataset.Number(3)}, b.Values)
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		file string
		data string
		msg  string
	}{
		{"unsupported", "report.pdf", "%PDF", "Unsupported file format: pdf"},
		{"legacy excel", "old.xls", "x", "Unsupported file format: xls"},
		{"empty", "e.csv", "", "No columns to parse"},
		{"too many fields", "r.csv", "a,b\n1,2,3\n", "row 1 has 3 fields"},
		{"no table", "p.html", "<html><body><p>hi</p></body></html>", "no tables found"},
		{"bad workbook", "b.xlsx", "not a zip", "could not read b.xlsx"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(tc.file, []byte(tc.data), Options{})
			require.Error(t, err)
			var ie *dataset.InputError
			require.ErrorAs(t, err, &ie)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"region", "sales"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"north", 12}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"south", 7.5}))
	_, err := f.NewSheet("Extra")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Extra", "A1", &[]any{"k"}))
	require.NoError(t, f.SetSheetRow("Extra", "A2", &[]any{"v"}))

	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadXLSX(t *testing.T) {
	path := writeWorkbook(t)

	ds, err := LoadFile(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"region", "sales"}, ds.Names())
	sales, _ := ds.Column("sales")
	assert.Equal(t, []dataset.Value{dataset.Number(12), dataset.Number(7.5)}, sales.Values)

	ds, err = LoadFile(path, Options{Sheet: "extra"})
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, ds.Names())

	_, err = LoadFile(path, Options{Sheet: "Missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available sheets: Sheet1, Extra")
}

func TestLoadHTML(t *testing.T) {
	page := `<html><body>
<table>
  <thead><tr><th>name</th><th>age</th></tr></thead>
  <tbody>
    <tr><td> Ann </td><td>31</td></tr>
    <tr><td>Bob</td><td></td></tr>
  </tbody>
</table>
<table><tr><td>ignored</td></tr></table>
</body></html>`
	ds, err := Load("page.html", []byte(page), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age"}, ds.Names())
	name, _ := ds.Column("name")
	assert.Equal(t, dataset.String("Ann"), name.Values[0])
	age, _ := ds.Column("age")
	assert.Equal(t, []dataset.Value{dataset.Number(31), dataset.Null()}, age.Values)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv"), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSupportedFormats(t *testing.T) {
	fs := SupportedFormats()
	require.NotEmpty(t, fs)
	assert.Equal(t, ".csv - Comma-separated values", fs[0].String())
	exts := make([]string, len(fs))
	for i, f := range fs {
		exts[i] = f.Extension
	}
	assert.Contains(t, exts, ".xlsx")
	assert.Contains(t, exts, ".html/.htm")
}
