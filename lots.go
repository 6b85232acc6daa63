package ibkrtax

import (
	"iter"

	"github.com/etnz/ibkrtax/date"
)

// Lot is the still open part of a trade.
type Lot struct {
	Date     date.Date
	Exchange string
	Quantity Quantity // signed like the trade that opened it
	UnitCost Money
}

// lotQueue is a FIFO of lots backed by a ring buffer.
//
// Its zero value is an empty queue ready to use.
type lotQueue struct {
	buf  []Lot
	head int // index of the oldest lot
	n    int
}

func (q *lotQueue) Len() int { return q.n }

// Front returns the oldest lot. It panics on an empty queue.
func (q *lotQueue) Front() Lot {
	if q.n == 0 {
		panic("front of an empty lot queue")
	}
	return q.buf[q.head]
}

// ReplaceFront swaps the oldest lot for l, keeping its place in the queue.
func (q *lotQueue) ReplaceFront(l Lot) {
	if q.n == 0 {
		panic("replace front of an empty lot queue")
	}
	q.buf[q.head] = l
}

// PopFront removes and returns the oldest lot.
func (q *lotQueue) PopFront() Lot {
	l := q.Front()
	q.buf[q.head] = Lot{}
	q.head = (q.head + 1) % len(q.buf)
	q.n--
	if q.n == 0 {
		q.head = 0
	}
	return l
}

// PushBack appends the newest lot.
func (q *lotQueue) PushBack(l Lot) {
	if q.n == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.n)%len(q.buf)] = l
	q.n++
}

func (q *lotQueue) grow() {
	size := 2 * len(q.buf)
	if size == 0 {
		size = 4
	}
	buf := make([]Lot, size)
	for i := 0; i < q.n; i++ {
		buf[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf, q.head = buf, 0
}

// All iterates over the lots, oldest first.
func (q *lotQueue) All() iter.Seq[Lot] {
	return func(yield func(Lot) bool) {
		for i := 0; i < q.n; i++ {
			if !yield(q.buf[(q.head+i)%len(q.buf)]) {
				return
			}
		}
	}
}
