package search

// RepetitionTable is the stack of position hashes from the start of the game
// down to the node being searched. Each worker owns a copy.
type RepetitionTable struct {
	hashes []uint64
	// lastIrreversible[i] is the index of the newest position at or before i
	// that was reached by a capture, pawn move or null move.
	lastIrreversible []int
}

func NewRepetitionTable(rootHash uint64) *RepetitionTable {
	t := &RepetitionTable{
		hashes:           make([]uint64, 0, 2*MaxPly),
		lastIrreversible: make([]int, 0, 2*MaxPly),
	}
	t.Push(rootHash, true)
	return t
}

func (t *RepetitionTable) Clone() *RepetitionTable {
	result := &RepetitionTable{
		hashes:           make([]uint64, len(t.hashes), len(t.hashes)+2*MaxPly),
		lastIrreversible: make([]int, len(t.lastIrreversible), len(t.lastIrreversible)+2*MaxPly),
	}
	copy(result.hashes, t.hashes)
	copy(result.lastIrreversible, t.lastIrreversible)
	return result
}

func (t *RepetitionTable) Len() int {
	return len(t.hashes)
}

func (t *RepetitionTable) Push(hash uint64, irreversible bool) {
	last := 0
	if n := len(t.hashes); irreversible || n == 0 {
		last = n
	} else {
		last = t.lastIrreversible[n-1]
	}
	t.hashes = append(t.hashes, hash)
	t.lastIrreversible = append(t.lastIrreversible, last)
}

func (t *RepetitionTable) Pop() {
	n := len(t.hashes) - 1
	t.hashes = t.hashes[:n]
	t.lastIrreversible = t.lastIrreversible[:n]
}

// IsRepeated reports whether the newest position already occurred twice,
// making this its third occurrence. Only positions with the same side to
// move and no irreversible move in between are compared.
func (t *RepetitionTable) IsRepeated() bool {
	n := len(t.hashes)
	if n == 0 {
		return false
	}
	current := t.hashes[n-1]
	stop := t.lastIrreversible[n-1]

	count := 0
	for i := n - 3; i >= stop; i -= 2 {
		if t.hashes[i] == current {
			count++
			if count >= 2 {
				return true
			}
		}
	}
	return false
}
