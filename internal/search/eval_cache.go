package search

import (
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/evaluation"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/game"
)

const evalCacheSize = 1 << 20

// EvalCache remembers static evaluations by position hash. It is shared by
// all workers and uses the same key^value check as the transposition table.
type EvalCache struct {
	slots []slot
}

func NewEvalCache() *EvalCache {
	return &EvalCache{slots: make([]slot, evalCacheSize)}
}

func (c *EvalCache) Clear() {
	for i := range c.slots {
		c.slots[i].key.Store(0)
		c.slots[i].data.Store(0)
	}
}

func (c *EvalCache) Evaluate(p *Position, e evaluation.Evaluator) int {
	hash := p.Hash()
	s := &c.slots[hash&(evalCacheSize-1)]

	data := s.data.Load()
	if s.key.Load()^data == hash && (data != 0 || hash != 0) {
		return int(int64(data))
	}

	value := e.Evaluate(p)
	data = uint64(int64(value))
	s.key.Store(hash ^ data)
	s.data.Store(data)
	return value
}
