package changelog

// BuildRelease groups changes into an Unreleased release.
// Entries keep their relative order within each category; the order of
// categories in the input does not matter because rendering always uses
// the canonical category order.
func BuildRelease(changes []Change) Release {
	var r Release
	for _, c := range changes {
		r.Add(c)
	}
	return r
}

// Add appends a change to its category.
func (r *Release) Add(c Change) {
	if r.Entries == nil {
		r.Entries = make(map[Category][]Change)
	}
	r.Entries[c.Category] = append(r.Entries[c.Category], c)
}

// Changes flattens the release in canonical category order.
func (r Release) Changes() []Change {
	out := make([]Change, 0, r.Count())
	for _, c := range Categories() {
		out = append(out, r.Entries[c]...)
	}
	return out
}

// Descriptions returns the entry texts of one category.
func (r Release) Descriptions(c Category) []string {
	entries := r.Entries[c]
	if len(entries) == 0 {
		return nil
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Description
	}
	return out
}
