// Package loader turns uploaded or on-disk tabular files into a dataset.Dataset.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/dsvalidate-cli/internal/dataset"
)

// Options tune how a file is read.
type Options struct {
	// Sheet selects a worksheet by name for spreadsheets. Empty means the first sheet.
	Sheet string
	// Delimiter for delimited text. If 0, .tsv uses tab and everything else is sniffed.
	Delimiter rune
}

// Loader reads one family of file formats into header + data records.
type Loader interface {
	CanLoad(filename string) bool
	Records(filename string, data []byte, opt Options) ([][]string, error)
}

// Format describes a supported file extension.
type Format struct {
	Extension   string `json:"extension"`
	Description string `json:"description"`
}

var (
	registry []Loader
	formats  []Format
)

// Register adds a loader and the formats it serves.
func Register(l Loader, fs ...Format) {
	registry = append(registry, l)
	formats = append(formats, fs...)
}

// SupportedFormats lists the extensions Load accepts, in registration order.
func SupportedFormats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// String renders a format the way the HTTP listing shows it.
func (f Format) String() string { return f.Extension + " - " + f.Description }

func init() {
	Register(delimitedLoader{},
		Format{".csv", "Comma-separated values"},
		Format{".tsv", "Tab-separated values"})
	Register(xlsxLoader{}, Format{".xlsx", "Excel workbooks (first sheet unless --sheet is given)"})
	Register(htmlLoader{}, Format{".html/.htm", "HTML pages (first <table>)"})
}

// LoadFile reads path from disk and loads it.
func LoadFile(path string, opt Options) (*dataset.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Load(filepath.Base(path), data, opt)
}

// Load picks a loader by filename extension. Unsupported extensions and
// unparseable content return *dataset.InputError.
func Load(filename string, data []byte, opt Options) (*dataset.Dataset, error) {
	for _, l := range registry {
		if !l.CanLoad(filename) {
			continue
		}
		recs, err := l.Records(filename, data, opt)
		if err != nil {
			return nil, &dataset.InputError{Msg: fmt.Sprintf("could not read %s: %v", filename, err), Err: err}
		}
		return Build(recs)
	}
	return nil, &dataset.InputError{Msg: "Unsupported file format: " + extension(filename)}
}

func extension(filename string) string {
	name := strings.ToLower(filename)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func hasExt(filename string, exts ...string) bool {
	ext := extension(filename)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
