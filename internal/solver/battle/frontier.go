package battle

import (
	"container/heap"

	"github.com/napolitain/boss-solver/internal/models"
)

// noParent marks the root node in the arena
const noParent = -1

// node is one occurrence of a state in the search. The path that produced it
// is recovered through parent links instead of being copied per node.
type node struct {
	state  State
	parent int
	action models.Action
	f      int
}

// entry is a frontier slot pointing into the node arena
type entry struct {
	f   int
	g   int
	seq int64
	idx int
}

// entryHeap implements heap.Interface for a min-heap of entries
type entryHeap []entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	if h[i].g != h[j].g {
		return h[i].g < h[j].g
	}
	// Insertion order keeps ties deterministic
	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) {
	*h = append(*h, x.(entry))
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// Frontier is the open list of the search: an arena of nodes plus a
// min-heap ordered by (f, turns, insertion sequence)
type Frontier struct {
	nodes []node
	h     entryHeap
	seq   int64
}

// NewFrontier creates an empty frontier
func NewFrontier() *Frontier {
	f := &Frontier{
		h: make(entryHeap, 0, 64),
	}
	heap.Init(&f.h)
	return f
}

// Push stores a node and queues it, returning its arena index
func (f *Frontier) Push(state State, parent int, action models.Action, fScore int) int {
	idx := len(f.nodes)
	f.nodes = append(f.nodes, node{state: state, parent: parent, action: action, f: fScore})
	f.seq++
	heap.Push(&f.h, entry{f: fScore, g: state.Turns(), seq: f.seq, idx: idx})
	return idx
}

// Pop removes the lowest-keyed node and returns its arena index
func (f *Frontier) Pop() (int, bool) {
	if len(f.h) == 0 {
		return noParent, false
	}
	e := heap.Pop(&f.h).(entry)
	return e.idx, true
}

// Node returns the node stored at idx
func (f *Frontier) Node(idx int) node { return f.nodes[idx] }

// Empty returns true if no node is queued
func (f *Frontier) Empty() bool { return len(f.h) == 0 }

// Len returns the number of queued nodes
func (f *Frontier) Len() int { return len(f.h) }

// Generated returns the number of nodes ever pushed
func (f *Frontier) Generated() int { return len(f.nodes) }

// Path rebuilds the action sequence that led to the node at idx
func (f *Frontier) Path(idx int) []models.Action {
	n := 0
	for i := idx; i != noParent && f.nodes[i].parent != noParent; i = f.nodes[i].parent {
		n++
	}
	path := make([]models.Action, n)
	for i := idx; i != noParent && f.nodes[i].parent != noParent; i = f.nodes[i].parent {
		n--
		path[n] = f.nodes[i].action
	}
	return path
}
