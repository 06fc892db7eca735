package wheel

// bucket is one slot of the wheel: an intrusive doubly-linked list of the
// handles currently due to be inspected when the worker's tick counter
// reaches this slot. Handles with more than one full revolution left sit
// here too, counted down via remainingRounds each time the worker passes
// through.
type bucket struct {
	head, tail *Handle
}

// add appends h to the bucket's list. O(1).
func (b *bucket) add(h *Handle) {
	h.prev = b.tail
	h.next = nil
	if b.tail != nil {
		b.tail.next = h
	} else {
		b.head = h
	}
	b.tail = h
}

// remove unlinks h from the bucket's list. O(1): h already knows its own
// neighbours, so no scan is needed.
func (b *bucket) remove(h *Handle) {
	if h.prev != nil {
		h.prev.next = h.next
	} else if b.head == h {
		b.head = h.next
	}
	if h.next != nil {
		h.next.prev = h.prev
	} else if b.tail == h {
		b.tail = h.prev
	}
	h.prev, h.next = nil, nil
}

// drainLive returns every handle still in state init, in list order,
// clearing the bucket. Used for the final shutdown sweep.
func (b *bucket) drainLive() []*Handle {
	var out []*Handle
	for h := b.head; h != nil; {
		next := h.next
		h.prev, h.next = nil, nil
		if h.isLive() {
			out = append(out, h)
		}
		h = next
	}
	b.head, b.tail = nil, nil
	return out
}
