// Package tt implements a direct-mapped transposition table: 2^k entries
// addressed by the top k bits of a 64-bit state hash, last write wins.
package tt

// Entry is one stored search result. The full hash is retained so callers
// can validate a retrieved entry: the table itself only keys on the top
// bits, and colliding stores silently evict.
type Entry struct {
	FullHash  uint64
	Visits    int32
	ScoreSums [2]float64 // accumulated scores for players 0 and 1
}

type Table struct {
	log2  uint
	used  []bool
	slots []Entry
}

// New creates a table with 2^log2 entries.
func New(log2 uint) *Table {
	if log2 == 0 || log2 > 32 {
		panic("table size exponent out of range")
	}
	return &Table{
		log2:  log2,
		used:  make([]bool, 1<<log2),
		slots: make([]Entry, 1<<log2),
	}
}

func (t *Table) Len() int { return len(t.slots) }

func (t *Table) slot(hash uint64) uint64 {
	return hash >> (64 - t.log2)
}

// Store writes the entry unconditionally to its slot, evicting whatever was
// there.
func (t *Table) Store(e Entry) {
	i := t.slot(e.FullHash)
	t.slots[i] = e
	t.used[i] = true
}

// Load returns the entry stored in the slot the hash maps to. The caller
// must compare Entry.FullHash against hash before trusting the payload when
// full-hash collisions matter.
func (t *Table) Load(hash uint64) (Entry, bool) {
	i := t.slot(hash)
	if !t.used[i] {
		return Entry{}, false
	}
	return t.slots[i], true
}

func (t *Table) Clear() {
	for i := range t.slots {
		t.slots[i] = Entry{}
		t.used[i] = false
	}
}
