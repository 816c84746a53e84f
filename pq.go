package astar

import "container/heap"

// PriorityQueueItem is a single heap entry. Sequence records insertion order
// and breaks ties between equal keys, so equal-cost entries leave the queue
// first-in first-out.
type PriorityQueueItem[T comparable] struct {
	Item         T
	Key          float64
	Sequence     uint64
	IndexInQueue int
}

// entries is the container/heap backing store.
type entries[T comparable] []*PriorityQueueItem[T]

func (queue entries[T]) Len() int { return len(queue) }
func (queue entries[T]) Less(i, j int) bool {
	if queue[i].Key != queue[j].Key {
		return queue[i].Key < queue[j].Key
	}
	return queue[i].Sequence < queue[j].Sequence
}
func (queue entries[T]) Swap(i, j int) {
	queue[i], queue[j] = queue[j], queue[i]
	queue[i].IndexInQueue = i
	queue[j].IndexInQueue = j
}

func (queue *entries[T]) Push(x any) {
	item := x.(*PriorityQueueItem[T])
	item.IndexInQueue = len(*queue)
	*queue = append(*queue, item)
}

func (queue *entries[T]) Pop() any {
	oldQueue := *queue
	n := len(oldQueue)
	item := oldQueue[n-1]
	oldQueue[n-1] = nil
	item.IndexInQueue = -1
	*queue = oldQueue[:n-1]
	return item
}

// PriorityQueue is a binary min-heap keyed by float64 with constant-time
// membership tests. The zero value is not usable; call NewPriorityQueue.
type PriorityQueue[T comparable] struct {
	heap    entries[T]
	members map[T]int
	nextSeq uint64
}

// NewPriorityQueue returns an empty queue.
func NewPriorityQueue[T comparable]() *PriorityQueue[T] {
	return &PriorityQueue[T]{
		heap:    make(entries[T], 0),
		members: make(map[T]int),
	}
}

// Len returns the number of queued entries, duplicates included.
func (q *PriorityQueue[T]) Len() int { return q.heap.Len() }

// Insert adds item with the given key. The same item may be queued more
// than once; Contains reports true until every copy is extracted.
func (q *PriorityQueue[T]) Insert(key float64, item T) {
	heap.Push(&q.heap, &PriorityQueueItem[T]{Item: item, Key: key, Sequence: q.nextSeq})
	q.nextSeq++
	q.members[item]++
}

// PeekMin returns the lowest-key item without removing it.
func (q *PriorityQueue[T]) PeekMin() (T, error) {
	if q.heap.Len() == 0 {
		var zero T
		return zero, ErrEmptyQueue
	}
	return q.heap[0].Item, nil
}

// MinKey returns the key of the root entry.
func (q *PriorityQueue[T]) MinKey() (float64, error) {
	if q.heap.Len() == 0 {
		return 0, ErrEmptyQueue
	}
	return q.heap[0].Key, nil
}

// ExtractMin removes and returns the lowest-key item.
func (q *PriorityQueue[T]) ExtractMin() (T, error) {
	if q.heap.Len() == 0 {
		var zero T
		return zero, ErrEmptyQueue
	}
	entry := heap.Pop(&q.heap).(*PriorityQueueItem[T])
	if n := q.members[entry.Item]; n <= 1 {
		delete(q.members, entry.Item)
	} else {
		q.members[entry.Item] = n - 1
	}
	return entry.Item, nil
}

// Contains reports whether item is currently queued.
func (q *PriorityQueue[T]) Contains(item T) bool {
	return q.members[item] > 0
}

// Clear drops every entry and resets the membership set.
func (q *PriorityQueue[T]) Clear() {
	clear(q.heap)
	q.heap = q.heap[:0]
	clear(q.members)
	q.nextSeq = 0
}

// Items returns the queued items in heap order. The slice is a copy.
func (q *PriorityQueue[T]) Items() []T {
	items := make([]T, 0, len(q.heap))
	for _, entry := range q.heap {
		items = append(items, entry.Item)
	}
	return items
}
