package search

// Category is the (hidden, kind) key of a match bucket
type Category struct {
	Hidden bool
	Kind   Kind
}

const numCategories = 2 * numKinds

func (c Category) index() int {
	i := int(c.Kind)
	if c.Hidden {
		i += numKinds
	}
	return i
}

// Buckets partitions the matches of one walker invocation by category.
// Bucket order is: visible file, symlink, directory, then hidden file,
// symlink, directory.
type Buckets [numCategories][]MatchRecord

// Occurrence ratios observed on large trees. Only used for pre-sizing.
var (
	kindRatios   = [numKinds]float64{0.925, 0.01, 0.065}
	hiddenRatios = [2]float64{0.999, 0.001}
)

// newBuckets pre-sizes every bucket for an invocation that will examine up to
// limit entries. Rounding leftovers go to the visible directory bucket.
func newBuckets(limit int) *Buckets {
	var b Buckets
	left := limit
	caps := [numCategories]int{}
	for i := range caps {
		c := int(float64(limit) * kindRatios[i%numKinds] * hiddenRatios[i/numKinds])
		caps[i] = c
		left -= c
	}
	if left > 0 {
		caps[KindDirectory] += left
	}
	for i := range b {
		b[i] = make([]MatchRecord, 0, caps[i])
	}
	return &b
}

func (b *Buckets) add(rec MatchRecord) {
	i := Category{Hidden: rec.Hidden, Kind: rec.Kind}.index()
	b[i] = append(b[i], rec)
}

// Len returns the number of matches over all buckets
func (b *Buckets) Len() int {
	n := 0
	for i := range b {
		n += len(b[i])
	}
	return n
}

// Flatten concatenates the selected buckets in bucket order, preserving the
// order inside each bucket.
func (b *Buckets) Flatten(sel Selection) []MatchRecord {
	n := 0
	for _, i := range sel {
		n += len(b[i])
	}
	out := make([]MatchRecord, 0, n)
	for _, i := range sel {
		out = append(out, b[i]...)
	}
	return out
}

// Selection is the precomputed set of bucket indexes a filter keeps, in
// ascending order.
type Selection []int

// Contains reports whether the selection keeps category c
func (s Selection) Contains(c Category) bool {
	idx := c.index()
	for _, i := range s {
		if i == idx {
			return true
		}
	}
	return false
}

// Selection computes the bucket index set for the filter. Kinds and hidden
// state are selected independently; if any kind is marked Only, exactly the
// Only kinds are kept.
func (f Filter) Selection() (Selection, error) {
	kindVis := [numKinds]Visibility{KindFile: f.Files, KindSymlink: f.Symlinks, KindDirectory: f.Dirs}
	for _, v := range append(kindVis[:], f.Hidden) {
		if v < Hide || v > Only {
			return nil, &ConfigError{Field: "filter", Msg: "unknown visibility"}
		}
	}

	strict := false
	for _, v := range kindVis {
		if v == Only {
			strict = true
		}
	}
	var kinds [numKinds]bool
	for k, v := range kindVis {
		kinds[k] = v == Only || (!strict && v == Show)
	}

	hidden := [2]bool{true, true}
	switch f.Hidden {
	case Hide:
		hidden[1] = false
	case Only:
		hidden[0] = false
	}

	sel := make(Selection, 0, numCategories)
	for h := 0; h < 2; h++ {
		for k := 0; k < numKinds; k++ {
			if hidden[h] && kinds[k] {
				sel = append(sel, Category{Hidden: h == 1, Kind: Kind(k)}.index())
			}
		}
	}
	if len(sel) == 0 {
		return nil, &ConfigError{Field: "filter", Msg: "no file, directory or symlink is left to show"}
	}
	return sel, nil
}
