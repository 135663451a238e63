package tokenizer

import (
	"fmt"
	"sync"
)

// Vocabulary maps merged symbols to token ids and holds the merge rules in
// priority order. Values and Merges are read-only after construction; the
// lookup maps are built lazily and shared by every call.
type Vocabulary struct {
	// Values[id] is the symbol for that id. Ids need not be dense; an empty
	// string marks an unassigned id.
	Values []string

	// Merges holds "left right" rules. Position is rank: the earliest rule
	// merges first.
	Merges []string

	valuesOnce sync.Once
	values     map[string]int32

	mergeOnce sync.Once
	merge     map[string]int32
}

// Encode returns the id for symbol s, or -1 if s is not in the vocabulary.
func (v *Vocabulary) Encode(s string) int32 {
	v.valuesOnce.Do(func() {
		v.values = make(map[string]int32, len(v.Values))
		for i, value := range v.Values {
			if value != "" {
				v.values[value] = int32(i)
			}
		}
	})

	if id, ok := v.values[s]; ok {
		return id
	}

	return -1
}

// Decode returns the symbol for id, or ErrUnknownTokenID if the id is
// outside the vocabulary.
func (v *Vocabulary) Decode(id int32) (string, error) {
	if id < 0 || int(id) >= len(v.Values) || v.Values[id] == "" {
		return "", fmt.Errorf("id %d: %w", id, ErrUnknownTokenID)
	}

	return v.Values[id], nil
}

// Merge returns the rank of the (left, right) merge rule, or -1 if the pair
// never merges. If a rule appears more than once its first occurrence keeps
// the rank; a later duplicate can never outrank it, so it is ignored.
func (v *Vocabulary) Merge(left, right string) int {
	v.mergeOnce.Do(func() {
		v.merge = make(map[string]int32, len(v.Merges))
		for i, merge := range v.Merges {
			if _, ok := v.merge[merge]; !ok {
				v.merge[merge] = int32(i)
			}
		}
	})

	if rank, ok := v.merge[left+" "+right]; ok {
		return int(rank)
	}

	return -1
}
