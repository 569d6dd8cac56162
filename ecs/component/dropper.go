package component

// Dropper grows the waypoint graph along an agent's trail.
type Dropper struct {
	Enabled bool
	// Dropping is set while the agent is off the graph and leaving nodes.
	Dropping bool
	// Last is the node the trail continues from, 0 when none.
	Last int
}

var DropperComponent = NewComponent[Dropper]()
