package signal

// edgeKind selects which transition an edge detector reports.
type edgeKind int

const (
	edgeRising edgeKind = iota
	edgeFalling
)

// edge is a one-frame pulse on a transition of the wrapped signal.
type edge struct {
	raw   Digital
	kind  edgeKind
	prev  bool
	value bool
}

// NewRelease creates a Digital signal that is true for exactly one Update immediately after raw
// goes from true to false, and false otherwise. The previous value is sampled at construction.
//
// Parameters:
//   - raw: the signal to watch for falling edges
//
// Returns:
//   - Digital: the falling-edge pulse
func NewRelease(raw Digital) Digital {
	return &edge{raw: raw, kind: edgeFalling, prev: raw.Value()}
}

// NewTrigger creates a Digital signal that is true for exactly one Update immediately after raw
// goes from false to true, and false otherwise. The previous value is sampled at construction.
//
// Parameters:
//   - raw: the signal to watch for rising edges
//
// Returns:
//   - Digital: the rising-edge pulse
func NewTrigger(raw Digital) Digital {
	return &edge{raw: raw, kind: edgeRising, prev: raw.Value()}
}

func (e *edge) Value() bool {
	return e.value
}

func (e *edge) Update(time float32) {
	e.raw.Update(time)
	current := e.raw.Value()
	switch e.kind {
	case edgeRising:
		e.value = !e.prev && current
	case edgeFalling:
		e.value = e.prev && !current
	}
	e.prev = current
}
