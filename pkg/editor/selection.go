package editor

// Selection tracks the set of selected job IDs plus the anchor used by range
// extension. The primary selection (the job a detail panel would edit) is
// derived, not stored: it is the lone member when exactly one job is
// selected, empty otherwise.
type Selection struct {
	ids    map[string]bool
	anchor string
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]bool)}
}

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool { return s.ids[id] }

// Count returns the number of selected jobs.
func (s *Selection) Count() int { return len(s.ids) }

// Primary returns the single selected job ID, or "" when zero or several
// jobs are selected.
func (s *Selection) Primary() string {
	if len(s.ids) != 1 {
		return ""
	}
	for id := range s.ids {
		return id
	}
	return ""
}

// IDs returns the selected subset of listOrder, preserving its order. Passing
// the workflow's insertion-ordered ID list gives deterministic output.
func (s *Selection) IDs(listOrder []string) []string {
	out := make([]string, 0, len(s.ids))
	for _, id := range listOrder {
		if s.ids[id] {
			out = append(out, id)
		}
	}
	return out
}

// Replace clears the selection and selects exactly id (plain click).
func (s *Selection) Replace(id string) {
	s.ids = map[string]bool{id: true}
	s.anchor = id
}

// Toggle flips membership of id (ctrl/cmd-click). A newly added id becomes
// the range anchor; removing the anchor leaves it pointing at the removed id,
// which Range treats as absent.
func (s *Selection) Toggle(id string) {
	if s.ids[id] {
		delete(s.ids, id)
		if s.anchor == id {
			s.anchor = ""
		}
		return
	}
	s.ids[id] = true
	s.anchor = id
}

// Range extends the selection from the current anchor to target using the
// given list order (shift-click). Every id between the two, inclusive, is
// added. With no anchor, or when either endpoint is missing from listOrder,
// the call silently does nothing.
func (s *Selection) Range(target string, listOrder []string) {
	if s.anchor == "" {
		return
	}
	from, to := -1, -1
	for i, id := range listOrder {
		if id == s.anchor {
			from = i
		}
		if id == target {
			to = i
		}
	}
	if from < 0 || to < 0 {
		return
	}
	if from > to {
		from, to = to, from
	}
	for _, id := range listOrder[from : to+1] {
		s.ids[id] = true
	}
}

// SetLasso replaces or extends the selection with the given ids (rubber-band
// release or live preview). With additive true the ids merge into base, the
// selection captured at gesture start; otherwise they replace it. Lasso never
// moves the anchor.
func (s *Selection) SetLasso(ids []string, base []string, additive bool) {
	next := make(map[string]bool, len(ids)+len(base))
	if additive {
		for _, id := range base {
			next[id] = true
		}
	}
	for _, id := range ids {
		next[id] = true
	}
	s.ids = next
}

// Remove drops id from the selection, as required when the job is deleted.
func (s *Selection) Remove(id string) {
	delete(s.ids, id)
	if s.anchor == id {
		s.anchor = ""
	}
}

// Rename rewrites a selected id in place so selection survives a job rename.
func (s *Selection) Rename(oldID, newID string) {
	if s.ids[oldID] {
		delete(s.ids, oldID)
		s.ids[newID] = true
	}
	if s.anchor == oldID {
		s.anchor = newID
	}
}

// SetAll replaces the selection with every given id (select-all).
func (s *Selection) SetAll(ids []string) {
	s.ids = make(map[string]bool, len(ids))
	for _, id := range ids {
		s.ids[id] = true
	}
	if len(ids) > 0 {
		s.anchor = ids[len(ids)-1]
	}
}

// Clear empties the selection and the anchor.
func (s *Selection) Clear() {
	s.ids = make(map[string]bool)
	s.anchor = ""
}
