package validation

import (
	"crypto/sha256"
	"strconv"
	"strings"

	"github.com/KaramelBytes/dsvalidate-cli/internal/dataset"
)

// CheckLeakage runs the leakage stage. The target is accepted for symmetry
// with the other stages; duplicate detection spans every column.
func CheckLeakage(ds *dataset.Dataset, _ dataset.TargetSpec) LeakageReport {
	return LeakageReport{DuplicateRows: DetectDuplicateRows(ds)}
}

// DetectDuplicateRows marks every row equal to an earlier row across all
// columns. Nulls compare equal to nulls. The first occurrence is not counted.
func DetectDuplicateRows(ds *dataset.Dataset) DuplicateStat {
	rows := ds.Rows()
	if rows == 0 {
		return DuplicateStat{}
	}
	seen := make(map[[sha256.Size]byte]struct{}, rows)
	var dups []int
	var b strings.Builder
	for i := 0; i < rows; i++ {
		key := rowKey(&b, ds, i)
		if _, ok := seen[key]; ok {
			dups = append(dups, i)
			continue
		}
		seen[key] = struct{}{}
	}
	if len(dups) == 0 {
		return DuplicateStat{}
	}
	return DuplicateStat{
		Count:      len(dups),
		Percentage: percent(len(dups), rows),
		Indices:    dups,
	}
}

// rowKey hashes a canonical form of row i. Each cell is framed as its kind,
// the byte length of its text and the text itself, so "1" (string) and 1
// (number) differ and no cell content can shift the boundary between cells.
func rowKey(b *strings.Builder, ds *dataset.Dataset, i int) [sha256.Size]byte {
	b.Reset()
	for _, v := range ds.Row(i) {
		text := v.Text()
		switch v.Kind {
		case dataset.KindNumber:
			b.WriteByte('n')
		case dataset.KindString:
			b.WriteByte('s')
		default:
			b.WriteByte('z')
		}
		b.WriteString(strconv.Itoa(len(text)))
		b.WriteByte(':')
		b.WriteString(text)
	}
	return sha256.Sum256([]byte(b.String()))
}
