package analysis

import "github.com/KaramelBytes/amrtables-cli/internal/housing"

type pivotKey struct {
	row    string
	bucket housing.BedroomBucket
}

// pivot sums proposed units per (row key, bucket) and remembers every row key
// it has seen, in first-seen order.
type pivot struct {
	cells  map[pivotKey]int
	order  []string
	seen   map[string]struct{}
	totals [4]int
}

func newPivot() *pivot {
	return &pivot{cells: map[pivotKey]int{}, seen: map[string]struct{}{}}
}

func (p *pivot) add(row string, b housing.BedroomBucket, units int) {
	p.cells[pivotKey{row: row, bucket: b}] += units
	if _, ok := p.seen[row]; !ok {
		p.seen[row] = struct{}{}
		p.order = append(p.order, row)
	}
	if i := housing.BucketIndex(b); i >= 0 {
		p.totals[i] += units
	}
}

// row materialises the fixed bucket columns for key; absent cells are 0.
func (p *pivot) row(key string) [4]int {
	var out [4]int
	for i, b := range housing.Buckets {
		out[i] = p.cells[pivotKey{row: key, bucket: b}]
	}
	return out
}

func (p *pivot) keys() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}
