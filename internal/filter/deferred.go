package filter

// Deferred is a two-tier query value that decouples keystroke echo from
// filter recomputation cost.
//
// The committed value updates on every keystroke and is what the input
// widget echoes. The settled value lags behind and is what actually drives
// the pipeline; an external scheduler promotes committed to settled when
// the input has gone quiet. Each Set invalidates earlier pending
// promotions by bumping a generation counter, so a late promotion for a
// superseded keystroke is a no-op.
type Deferred struct {
	committed string
	settled   string
	gen       uint64
}

// Set records a new committed value and returns the promotion generation
// the scheduler must present to Promote.
func (d *Deferred) Set(value string) uint64 {
	d.committed = value
	d.gen++
	return d.gen
}

// Promote moves the committed value to settled, but only when gen matches
// the latest Set: promotions scheduled for superseded keystrokes are
// silently dropped. Returns whether the settled value changed.
func (d *Deferred) Promote(gen uint64) bool {
	if gen != d.gen {
		return false
	}
	if d.settled == d.committed {
		return false
	}
	d.settled = d.committed
	return true
}

// Flush promotes the committed value immediately, regardless of pending
// generations. Used when the input loses focus or the view is torn down.
// Returns whether the settled value changed.
func (d *Deferred) Flush() bool {
	d.gen++
	if d.settled == d.committed {
		return false
	}
	d.settled = d.committed
	return true
}

// Gen returns the latest promotion generation issued by Set.
func (d *Deferred) Gen() uint64 {
	return d.gen
}

// Committed returns the value being typed (for echo).
func (d *Deferred) Committed() string {
	return d.committed
}

// Settled returns the value driving recomputation.
func (d *Deferred) Settled() string {
	return d.settled
}

// Pending reports whether the settled value lags the committed one.
func (d *Deferred) Pending() bool {
	return d.settled != d.committed
}
