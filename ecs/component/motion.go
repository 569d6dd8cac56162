package component

// Motion is the movement state an agent reports each frame.
type Motion struct {
	Grounded  bool
	Falling   bool
	Swimming  bool
	Crouching bool
}

var MotionComponent = NewComponent[Motion]()
