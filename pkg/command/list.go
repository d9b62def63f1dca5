package command

import "fmt"

const minListCap = 16

// List is a growable ordered container of owned strings.
type List struct {
	items    []string
	released bool
}

// NewList allocates an empty list with room for capacity items. Zero picks a
// small default.
func NewList(capacity int) (*List, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: capacity=%d", ErrAllocation, capacity)
	}
	if capacity == 0 {
		capacity = minListCap
	}
	return &List{items: make([]string, 0, capacity)}, nil
}

// Append copies value onto the end of the list, doubling storage when full.
func (l *List) Append(value string) error {
	if l == nil || l.released {
		return fmt.Errorf("%w: list released", ErrAllocation)
	}
	if len(l.items) == cap(l.items) {
		grown := make([]string, len(l.items), 2*cap(l.items)+1)
		copy(grown, l.items)
		l.items = grown
	}
	l.items = append(l.items, string([]byte(value)))
	return nil
}

// Get returns the item stored at index.
func (l *List) Get(index int) (string, error) {
	if l == nil || l.released {
		return "", fmt.Errorf("%w: list released", ErrOutOfRange)
	}
	if index < 0 || index >= len(l.items) {
		return "", fmt.Errorf("%w: index=%d len=%d", ErrOutOfRange, index, len(l.items))
	}
	return l.items[index], nil
}

func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// truncate drops every item from n onwards.
func (l *List) truncate(n int) {
	if n < 0 || n > len(l.items) {
		return
	}
	clear(l.items[n:])
	l.items = l.items[:n]
}

// Release drops all items. The list is unusable afterwards.
func (l *List) Release() {
	if l == nil {
		return
	}
	clear(l.items)
	l.items = nil
	l.released = true
}
