package state

// Registry is the ordered set of subsystem tags seen in the current session.
// Order is first-observed order. Registry is not safe for concurrent use on
// its own; Store guards the instance it owns.
type Registry struct {
	names []string
	seen  map[string]struct{}
}

// Observe records subsystem and reports whether it was new. Empty names and
// names already present are ignored.
func (r *Registry) Observe(subsystem string) bool {
	if subsystem == "" {
		return false
	}
	if _, ok := r.seen[subsystem]; ok {
		return false
	}
	if r.seen == nil {
		r.seen = make(map[string]struct{})
	}
	r.seen[subsystem] = struct{}{}
	r.names = append(r.names, subsystem)
	return true
}

// Contains reports whether subsystem has been observed.
func (r *Registry) Contains(subsystem string) bool {
	_, ok := r.seen[subsystem]
	return ok
}

// List returns a copy of the observed subsystems in first-seen order.
func (r *Registry) List() []string {
	if len(r.names) == 0 {
		return nil
	}
	dup := make([]string, len(r.names))
	copy(dup, r.names)
	return dup
}

// Len returns the number of distinct subsystems.
func (r *Registry) Len() int {
	return len(r.names)
}

// Reset forgets every subsystem.
func (r *Registry) Reset() {
	r.names = nil
	r.seen = nil
}
