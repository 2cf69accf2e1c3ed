package event

// State is the decoder state that must survive a restart in the middle of a
// tick: dialog text seen after the last Tick line.
type State struct {
	Primary   string
	Secondary string
}

// Pending reports whether dialog text is waiting for a tick.
func (s State) Pending() bool { return s.Primary != "" || s.Secondary != "" }

func (d *Decoder) State() State { return d.state }

func (d *Decoder) RestoreState(s State) { d.state = s }
