package loader

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type htmlLoader struct{}

func (htmlLoader) CanLoad(filename string) bool { return hasExt(filename, "html", "htm") }

// Records reads the first <table>. The header comes from <thead> when present,
// otherwise from the first row.
func (htmlLoader) Records(_ string, data []byte, _ Options) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no tables found in document")
	}

	var recs [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		// skip rows of nested tables
		if tr.Closest("table").Get(0) != table.Get(0) {
			return
		}
		var row []string
		tr.Children().Filter("th, td").Each(func(_ int, cell *goquery.Selection) {
			row = append(row, strings.TrimSpace(cell.Text()))
		})
		if len(row) > 0 {
			recs = append(recs, row)
		}
	})
	if len(recs) == 0 {
		return nil, fmt.Errorf("table has no rows")
	}
	return recs, nil
}
