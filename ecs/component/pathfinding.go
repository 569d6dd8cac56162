package component

// Mover moves an entity toward its BotNav target at Speed units per frame.
type Mover struct {
	Speed float64
}

var MoverComponent = NewComponent[Mover]()
