package ecs

// Each2 iterates over entities that have both component A and B, in the
// insertion order of the smaller store. Both stores are locked against
// structural changes for the duration of the scan.
func Each2[A, B any](sa *Store[A], sb *Store[B], fn func(EntityID, *A, *B)) {
	sa.iterating++
	sb.iterating++
	defer func() {
		sa.iterating--
		sb.iterating--
	}()
	if sa.Len() <= sb.Len() {
		for i, id := range sa.ids {
			if b, ok := sb.Get(id); ok {
				fn(id, sa.vals[i], b)
			}
		}
		return
	}
	for i, id := range sb.ids {
		if a, ok := sa.Get(id); ok {
			fn(id, a, sb.vals[i])
		}
	}
}

// Each3 iterates over entities that have components A, B, and C.
// Order always follows store A so the result does not depend on store sizes.
func Each3[A, B, C any](sa *Store[A], sb *Store[B], sc *Store[C], fn func(EntityID, *A, *B, *C)) {
	sa.iterating++
	sb.iterating++
	sc.iterating++
	defer func() {
		sa.iterating--
		sb.iterating--
		sc.iterating--
	}()
	for i, id := range sa.ids {
		b, ok := sb.Get(id)
		if !ok {
			continue
		}
		c, ok := sc.Get(id)
		if !ok {
			continue
		}
		fn(id, sa.vals[i], b, c)
	}
}
