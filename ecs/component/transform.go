package component

import "github.com/milk9111/botnav/common"

type Transform struct {
	Pos common.Vec3
}

var TransformComponent = NewComponent[Transform]()
