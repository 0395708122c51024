package birthplace

// Entry is one prefix row of the reference dataset. Province is empty for
// flat datasets.
type Entry struct {
	Prefix   string
	Province string
	City     string
}

// Location is what a prefix resolves to.
type Location struct {
	Province string
	City     string
}

// group is one top-level member of the dataset document: either a single
// flat entry (province == "") or a province with its prefix table.
type group struct {
	province string
	entries  []Entry
}

// Dataset is the immutable prefix table. It is built once and only read
// afterwards, so it is safe for concurrent use without locking.
type Dataset struct {
	groups   []group
	index    map[string]Entry
	shadowed []Entry
	size     int
}

// NewDataset builds a dataset from entries in document order. Entries of the
// same province are grouped under the province's first appearance. When a
// prefix occurs more than once, the first occurrence in scan order wins and
// the rest are recorded as shadowed.
func NewDataset(entries []Entry) *Dataset {
	d := &Dataset{index: make(map[string]Entry, len(entries))}
	provinceAt := make(map[string]int)

	for _, e := range entries {
		if e.Province == "" {
			d.groups = append(d.groups, group{entries: []Entry{e}})
			continue
		}
		i, ok := provinceAt[e.Province]
		if !ok {
			i = len(d.groups)
			provinceAt[e.Province] = i
			d.groups = append(d.groups, group{province: e.Province})
		}
		d.groups[i].entries = append(d.groups[i].entries, e)
	}

	for _, g := range d.groups {
		for _, e := range g.entries {
			d.size++
			if _, exists := d.index[e.Prefix]; exists {
				d.shadowed = append(d.shadowed, e)
				continue
			}
			d.index[e.Prefix] = e
		}
	}
	return d
}

// EmptyDataset returns a dataset that resolves nothing.
func EmptyDataset() *Dataset {
	return NewDataset(nil)
}

// Resolve looks up a prefix. Entries with an empty city count as absent.
func (d *Dataset) Resolve(prefix string) (Location, bool) {
	e, ok := d.index[prefix]
	if !ok || e.City == "" {
		return Location{}, false
	}
	return Location{Province: e.Province, City: e.City}, true
}

// Len returns the number of entries, shadowed ones included.
func (d *Dataset) Len() int {
	return d.size
}

// IsEmpty reports whether the dataset holds no entries.
func (d *Dataset) IsEmpty() bool {
	return d.size == 0
}

// HasProvinces reports whether any entry is grouped under a province.
func (d *Dataset) HasProvinces() bool {
	for _, g := range d.groups {
		if g.province != "" {
			return true
		}
	}
	return false
}

// Entries returns every entry in scan order.
func (d *Dataset) Entries() []Entry {
	out := make([]Entry, 0, d.size)
	for _, g := range d.groups {
		out = append(out, g.entries...)
	}
	return out
}

// Shadowed returns entries hidden by an earlier entry with the same prefix.
func (d *Dataset) Shadowed() []Entry {
	return append([]Entry(nil), d.shadowed...)
}

// Provinces returns province names in document order.
func (d *Dataset) Provinces() []string {
	var out []string
	for _, g := range d.groups {
		if g.province != "" {
			out = append(out, g.province)
		}
	}
	return out
}
