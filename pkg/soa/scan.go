package soa

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
)

// Number is the set of column element types SumWhere can aggregate.
type Number interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~int8 | ~int16 | ~int32 | ~int64 |
		~float32 | ~float64
}

// Where returns the indices of col whose values satisfy pred. Columns longer
// than math.MaxUint32 rows are scanned only up to that bound.
func Where[E any](col []E, pred func(E) bool) *roaring.Bitmap {
	rows := roaring.New()
	batch := make([]uint32, 0, 1024)
	for i, v := range col {
		if uint64(i) > math.MaxUint32 {
			break
		}
		if !pred(v) {
			continue
		}
		batch = append(batch, uint32(i))
		if len(batch) == cap(batch) {
			rows.AddMany(batch)
			batch = batch[:0]
		}
	}
	rows.AddMany(batch)
	return rows
}

// SumWhere adds the values of col at the selected rows. Indices beyond the
// column are ignored.
func SumWhere[E Number](col []E, rows *roaring.Bitmap) E {
	var sum E
	it := rows.Iterator()
	for it.HasNext() {
		i := int(it.Next())
		if i >= len(col) {
			break
		}
		sum += col[i]
	}
	return sum
}

// Gather copies the values of col at the selected rows, in row order.
// Indices beyond the column are ignored.
func Gather[E any](col []E, rows *roaring.Bitmap) []E {
	out := make([]E, 0, rows.GetCardinality())
	it := rows.Iterator()
	for it.HasNext() {
		i := int(it.Next())
		if i >= len(col) {
			break
		}
		out = append(out, col[i])
	}
	return out
}
