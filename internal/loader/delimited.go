package loader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type delimitedLoader struct{}

func (delimitedLoader) CanLoad(filename string) bool { return hasExt(filename, "csv", "tsv") }

func (delimitedLoader) Records(filename string, data []byte, opt Options) ([][]string, error) {
	// UTF-8 by default; a UTF-8 or UTF-16 BOM selects the encoding and is dropped.
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	text, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), dec))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	delim := opt.Delimiter
	if delim == 0 {
		if hasExt(filename, "tsv") {
			delim = '\t'
		} else {
			delim = sniffDelimiter(text)
		}
	}
	r := csv.NewReader(bytes.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	recs, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return dropBlankLines(recs), nil
}

// sniffDelimiter picks the most frequent of ',', ';' and tab on the first
// line, defaulting to comma.
func sniffDelimiter(text []byte) rune {
	sc := bufio.NewScanner(bytes.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if !sc.Scan() {
		return ','
	}
	line := sc.Text()
	best, bestN := ',', strings.Count(line, ",")
	for _, d := range []rune{';', '\t'} {
		if n := strings.Count(line, string(d)); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}

// dropBlankLines removes records that are a single empty field, which is how
// encoding/csv surfaces whitespace-only lines.
func dropBlankLines(recs [][]string) [][]string {
	out := recs[:0]
	for _, r := range recs {
		if len(r) == 1 && strings.TrimSpace(r[0]) == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}
