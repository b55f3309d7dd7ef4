package search

import (
	"fmt"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/game"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
)

type Bound uint8

const (
	NoBound Bound = iota
	UpperBound
	LowerBound
	ExactBound
)

func (b Bound) String() string {
	return [4]string{"none", "upper", "lower", "exact"}[b&3]
}

type CachedEvaluation struct {
	Score int
	Move  Move
	Depth int
	Age   int
	Bound Bound
}

const (
	_scoreBits = 32
	_moveBits  = 16
	_depthBits = 7
	_ageBits   = 7

	_moveShift  = _scoreBits
	_depthShift = _moveShift + _moveBits
	_ageShift   = _depthShift + _depthBits
	_boundShift = _ageShift + _ageBits

	MaxStoredDepth = 1<<_depthBits - 1
	AgeMask        = 1<<_ageBits - 1
)

func encodeEntry(e CachedEvaluation) uint64 {
	return uint64(uint32(int32(e.Score))) |
		uint64(e.Move)<<_moveShift |
		uint64(ClampInt(e.Depth, 0, MaxStoredDepth))<<_depthShift |
		uint64(e.Age&AgeMask)<<_ageShift |
		uint64(e.Bound&3)<<_boundShift
}

func decodeEntry(data uint64) CachedEvaluation {
	return CachedEvaluation{
		Score: int(int32(uint32(data))),
		Move:  Move(data >> _moveShift),
		Depth: int(data>>_depthShift) & MaxStoredDepth,
		Age:   int(data>>_ageShift) & AgeMask,
		Bound: Bound(data>>_boundShift) & 3,
	}
}

// The key word holds hash^data. A slot written by two threads at once ends
// up with words from different writes, which fails the key check and reads
// as a miss.
type slot struct {
	key  atomic.Uint64
	data atomic.Uint64
}

const _slotBytes = 16

const DefaultHashMB = 64

type TranspositionTable struct {
	slots []slot
	mask  uint64

	hits       atomic.Int64
	misses     atomic.Int64
	collisions atomic.Int64
	writes     atomic.Int64
}

func slotsForMB(mb int) int {
	n := uint64(mb) * 1024 * 1024 / _slotBytes
	size := uint64(1)
	for size*2 <= n {
		size *= 2
	}
	return int(size)
}

func allocateSlots(n int) (slots []slot, err Error) {
	if total := totalMemory(); total > 0 && uint64(n)*_slotBytes > total/2 {
		return nil, Errorf("%v table needs more than half of the %v of memory",
			humanize.IBytes(uint64(n)*_slotBytes), humanize.IBytes(total))
	}
	defer func() {
		if r := recover(); r != nil {
			slots = nil
			err = Errorf("cannot allocate %v table slots: %v", humanize.Comma(int64(n)), r)
		}
	}()
	return make([]slot, n), NilError
}

// NewTranspositionTable sizes the table to the largest power of two that fits
// in mb megabytes. When that much memory cannot be had, the table falls back
// to DefaultHashMB and the allocation error is returned with it.
func NewTranspositionTable(mb int) (*TranspositionTable, Error) {
	slots, err := allocateSlots(slotsForMB(mb))
	if !IsNil(err) {
		fallback, fallbackErr := allocateSlots(slotsForMB(DefaultHashMB))
		if !IsNil(fallbackErr) {
			return nil, Join(err, fallbackErr)
		}
		slots = fallback
	}
	return &TranspositionTable{
		slots: slots,
		mask:  uint64(len(slots) - 1),
	}, err
}

func (t *TranspositionTable) Size() int {
	return len(t.slots)
}

func (t *TranspositionTable) SizeMB() int {
	return len(t.slots) * _slotBytes / (1024 * 1024)
}

func (t *TranspositionTable) Clear() {
	for i := range t.slots {
		t.slots[i].key.Store(0)
		t.slots[i].data.Store(0)
	}
	t.hits.Store(0)
	t.misses.Store(0)
	t.collisions.Store(0)
	t.writes.Store(0)
}

func (t *TranspositionTable) load(hash uint64) Optional[CachedEvaluation] {
	s := &t.slots[hash&t.mask]
	data := s.data.Load()
	key := s.key.Load()
	if data == 0 {
		t.misses.Add(1)
		return Empty[CachedEvaluation]()
	}
	if key^data != hash {
		t.collisions.Add(1)
		return Empty[CachedEvaluation]()
	}
	t.hits.Add(1)
	return Some(decodeEntry(data))
}

// Read returns the stored best move whenever the position is found, and a
// score when the entry is deep enough and its bound settles the window.
func (t *TranspositionTable) Read(hash uint64, alpha int, beta int, depth int, ply int) (Optional[int], Optional[Move]) {
	found := t.load(hash)
	if found.IsEmpty() {
		return Empty[int](), Empty[Move]()
	}
	e := found.Value()

	move := Empty[Move]()
	if !e.Move.IsNull() {
		move = Some(e.Move)
	}

	if e.Depth < depth {
		return Empty[int](), move
	}

	score := scoreFromTable(e.Score, ply)
	switch e.Bound {
	case ExactBound:
		return Some(score), move
	case LowerBound:
		if score >= beta {
			return Some(beta), move
		}
	case UpperBound:
		if score <= alpha {
			return Some(alpha), move
		}
	}
	return Empty[int](), move
}

// Write stores an entry unless the slot holds a deeper one from the same
// search. Entries from earlier searches are always replaced.
func (t *TranspositionTable) Write(hash uint64, score int, move Move, depth int, ply int, bound Bound, age int) {
	s := &t.slots[hash&t.mask]

	if existing := s.data.Load(); existing != 0 {
		old := decodeEntry(existing)
		if old.Age == age&AgeMask && old.Depth > depth {
			return
		}
	}

	data := encodeEntry(CachedEvaluation{
		Score: scoreToTable(score, ply),
		Move:  move,
		Depth: depth,
		Age:   age,
		Bound: bound,
	})
	s.key.Store(hash ^ data)
	s.data.Store(data)
	t.writes.Add(1)
}

func (t *TranspositionTable) Stats() string {
	return fmt.Sprintf("hits: %v, collisions: %v, misses: %v, writes: %v (%v slots)",
		humanize.Comma(t.hits.Load()), humanize.Comma(t.collisions.Load()),
		humanize.Comma(t.misses.Load()), humanize.Comma(t.writes.Load()),
		humanize.Comma(int64(len(t.slots))),
	)
}
