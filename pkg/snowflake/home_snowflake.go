// Package snowflake issues time-ordered 64-bit ids for persisted rows.
//
// Layout: 41 bits of milliseconds since 2026-01-01 UTC, 10 bits of node id,
// 12 bits of per-millisecond sequence.
package snowflake

import (
	"errors"
	"sync"
	"time"
)

const (
	epoch int64 = 1767225600000 // 2026-01-01T00:00:00Z

	nodeBits     = 10
	sequenceBits = 12

	maxNode     = (1 << nodeBits) - 1
	maxSequence = (1 << sequenceBits) - 1

	timeShift = nodeBits + sequenceBits
	nodeShift = sequenceBits

	// 이 이하의 시계 역행은 대기 후 계속 발급
	maxBackwardSkew = 5 * time.Millisecond
)

var (
	ErrInvalidNode    = errors.New("snowflake: node id must be between 0 and 1023")
	ErrClockMovedBack = errors.New("snowflake: clock moved backwards")
)

// Generator is safe for concurrent use.
type Generator struct {
	mu       sync.Mutex
	node     int64
	sequence int64
	last     int64
	now      func() int64
	sleep    func(time.Duration)
}

func NewGenerator(node int64) (*Generator, error) {
	if node < 0 || node > maxNode {
		return nil, ErrInvalidNode
	}
	return &Generator{
		node:  node,
		now:   func() int64 { return time.Now().UnixMilli() },
		sleep: time.Sleep,
	}, nil
}

func (g *Generator) Generate() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if now < g.last {
		skew := time.Duration(g.last-now) * time.Millisecond
		if skew > maxBackwardSkew {
			return 0, ErrClockMovedBack
		}
		now = g.waitUntil(g.last)
	}

	if now == g.last {
		g.sequence = (g.sequence + 1) & maxSequence
		if g.sequence == 0 {
			now = g.waitUntil(g.last + 1)
		}
	} else {
		g.sequence = 0
	}
	g.last = now

	return ((now - epoch) << timeShift) | (g.node << nodeShift) | g.sequence, nil
}

func (g *Generator) waitUntil(ms int64) int64 {
	now := g.now()
	for now < ms {
		g.sleep(100 * time.Microsecond)
		now = g.now()
	}
	return now
}

// Parts is a decoded id.
type Parts struct {
	Time     time.Time
	Node     int64
	Sequence int64
}

func Decompose(id int64) Parts {
	return Parts{
		Time:     time.UnixMilli((id >> timeShift) + epoch).UTC(),
		Node:     (id >> nodeShift) & maxNode,
		Sequence: id & maxSequence,
	}
}
