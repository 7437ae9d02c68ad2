package utils

// OrderedSet is a set of strings that remembers insertion order.
// It is not safe for concurrent use.
type OrderedSet struct {
	seen  map[string]int
	order []string
}

// NewOrderedSet creates an empty OrderedSet.
func NewOrderedSet() *OrderedSet {
	return &OrderedSet{seen: make(map[string]int)}
}

// Add returns true if s was newly added, false if already present.
func (o *OrderedSet) Add(s string) bool {
	if _, exists := o.seen[s]; exists {
		return false
	}
	o.seen[s] = len(o.order)
	o.order = append(o.order, s)
	return true
}

// Contains returns true if s has already been added.
func (o *OrderedSet) Contains(s string) bool {
	_, exists := o.seen[s]
	return exists
}

// Index returns the insertion position of s, or -1.
func (o *OrderedSet) Index(s string) int {
	if i, exists := o.seen[s]; exists {
		return i
	}
	return -1
}

// Size returns the number of unique values tracked.
func (o *OrderedSet) Size() int {
	return len(o.order)
}

// Values returns the members in first-insertion order. The slice is a copy.
func (o *OrderedSet) Values() []string {
	out := make([]string, len(o.order))
	copy(out, o.order)
	return out
}
