package domain

// ChangeSet is the outcome of diffing an edited working set against the last
// durable snapshot. The three sets are disjoint: a record id appears in at
// most one of them.
type ChangeSet struct {
	// Inserts are working-set records that still carry a temporary id.
	// The store ignores the temporary id and assigns a permanent one.
	Inserts []*Promotion

	// Updates are durable records whose content differs from the snapshot.
	Updates []*Promotion

	// Deletes are ids present in the snapshot but absent from the working set.
	Deletes []string
}

// Empty reports whether applying the change set would be a no-op.
func (c ChangeSet) Empty() bool {
	return len(c.Inserts) == 0 && len(c.Updates) == 0 && len(c.Deletes) == 0
}

// Diff partitions the working set against the snapshot:
//   - temporary id            -> insert
//   - durable id, changed     -> update
//   - durable id, unchanged   -> untouched
//   - snapshot id not in working set -> delete
//
// Diffing W == S yields three empty sets.
func Diff(snapshot, working []*Promotion) ChangeSet {
	byID := make(map[string]*Promotion, len(snapshot))
	for _, p := range snapshot {
		byID[p.ID] = p
	}

	var cs ChangeSet
	workingIDs := make(map[string]struct{}, len(working))
	for _, p := range working {
		workingIDs[p.ID] = struct{}{}

		if p.IsTemporary() {
			cs.Inserts = append(cs.Inserts, p)
			continue
		}
		original, ok := byID[p.ID]
		if !ok {
			// Durable id unknown to the snapshot: treat as an update so the
			// record is written rather than silently dropped.
			cs.Updates = append(cs.Updates, p)
			continue
		}
		if !EqualPromotions(original, p) {
			cs.Updates = append(cs.Updates, p)
		}
	}

	for _, p := range snapshot {
		if _, ok := workingIDs[p.ID]; !ok {
			cs.Deletes = append(cs.Deletes, p.ID)
		}
	}

	return cs
}
