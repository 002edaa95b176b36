package snapshot

// DataSource holds the displayed snapshot and reconciles every new one
// against it. It is owned by the UI loop.
type DataSource[S comparable, I comparable] struct {
	current *Snapshot[S, I]
}

// NewDataSource creates a data source showing an empty snapshot
func NewDataSource[S comparable, I comparable]() *DataSource[S, I] {
	return &DataSource[S, I]{current: New[S, I]()}
}

// Snapshot returns a copy of the displayed snapshot
func (d *DataSource[S, I]) Snapshot() *Snapshot[S, I] {
	return d.current.Clone()
}

// Apply replaces the displayed snapshot and returns the changes made
func (d *DataSource[S, I]) Apply(next *Snapshot[S, I]) Changes[I] {
	changes := Diff(d.current, next)
	d.current = next.Clone()
	return changes
}
