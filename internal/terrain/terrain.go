// Package terrain defines the arena surface the simulation collides against
// and ships a reference flat arena with static obstacles.
package terrain

import "github.com/Garsondee/Tank-Arena/internal/geom"

// Kind classifies a collision result.
type Kind int

const (
	KindNone Kind = iota
	KindBoundary
	KindObstacle
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBoundary:
		return "boundary"
	case KindObstacle:
		return "obstacle"
	default:
		return "unknown"
	}
}

// ObstacleKind is the visual family of an obstacle. It has no effect on
// collision, which is always radius based.
type ObstacleKind int

const (
	ObstacleBox ObstacleKind = iota
	ObstacleRock
)

func (k ObstacleKind) String() string {
	if k == ObstacleRock {
		return "rock"
	}
	return "box"
}

// Obstacle is a static circular footprint on the ground plane.
type Obstacle struct {
	Position geom.Vec3
	Radius   float64
	Height   float64
	Kind     ObstacleKind
}

// Body is anything with a position and a collision radius.
type Body interface {
	Position() geom.Vec3
	Radius() float64
}

// Mover is a Body the terrain is allowed to reposition.
type Mover interface {
	Body
	SetPosition(p geom.Vec3)
}

// Collision is the answer to CheckCollision.
//
// For KindBoundary, Direction points back into the arena along the violated
// axes (components are -1, 0 or 1). For KindObstacle, Direction is the unit
// ground-plane vector from the obstacle to the body.
type Collision struct {
	Collided  bool
	Kind      Kind
	Obstacle  Obstacle
	Direction geom.Vec3
}

// Terrain is the collaborator contract the simulation core consumes.
type Terrain interface {
	CheckCollision(b Body) Collision
	KeepWithinBoundaries(m Mover)
	// HandleObstacleCollision pushes m out of o. It reports whether the
	// body was moved.
	HandleObstacleCollision(m Mover, o Obstacle) bool
	Obstacles() []Obstacle
	BoundarySize() float64
	HeightAt(x, z float64) float64
	// Update advances ambient terrain effects.
	Update(dt float64)
}
