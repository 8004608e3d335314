package terrain

import (
	"math"
	"math/rand"
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/Garsondee/Tank-Arena/internal/geom"
)

// Arena layout constants.
const (
	DefaultArenaSize = 100.0
	boundaryFraction = 0.95 // playable square is 95% of the ground size

	clearCentreRadius = 15.0 // no obstacle closer than this to the origin
	edgeMargin        = 10.0 // obstacles stay this far inside the ground edge

	boxMinEdge  = 3.0
	boxMaxEdge  = 7.0
	rockMinRad  = 1.5
	rockMaxRad  = 4.0
	pushSlack   = 0.1 // extra clearance added when pushing a body out
	fallbackRad = 1.5 // radius assumed for bodies that report none

	placementAttempts = 100
)

// ArenaOptions controls procedural obstacle placement.
type ArenaOptions struct {
	Size  float64
	Boxes int
	Rocks int
}

// DefaultArenaOptions mirrors the stock arena: 15 boxes and 10 rocks on a
// 100x100 ground.
func DefaultArenaOptions() ArenaOptions {
	return ArenaOptions{Size: DefaultArenaSize, Boxes: 15, Rocks: 10}
}

// Arena is a flat square ground with static circular obstacles indexed in
// an R-tree over the X/Z plane.
type Arena struct {
	size      float64
	boundary  float64
	obstacles []Obstacle
	index     *rtreego.Rtree
	phase     float64
}

// spatialObstacle adapts an obstacle slot to rtreego.Spatial.
type spatialObstacle struct {
	idx  int
	rect rtreego.Rect
}

func (s *spatialObstacle) Bounds() rtreego.Rect { return s.rect }

// NewArena builds an arena with obstacles scattered by rng.
func NewArena(rng *rand.Rand, opts ArenaOptions) *Arena {
	if opts.Size <= 0 {
		opts.Size = DefaultArenaSize
	}
	var obs []Obstacle
	for i := 0; i < opts.Boxes; i++ {
		edge := geom.RandomBetween(rng, boxMinEdge, boxMaxEdge)
		if p, ok := scatter(rng, opts.Size, obs, edge/2); ok {
			obs = append(obs, Obstacle{
				Position: p,
				Radius:   edge / 2,
				Height:   geom.RandomBetween(rng, 2, 6),
				Kind:     ObstacleBox,
			})
		}
	}
	for i := 0; i < opts.Rocks; i++ {
		r := geom.RandomBetween(rng, rockMinRad, rockMaxRad)
		if p, ok := scatter(rng, opts.Size, obs, r); ok {
			obs = append(obs, Obstacle{
				Position: p,
				Radius:   r,
				Height:   r * 1.2,
				Kind:     ObstacleRock,
			})
		}
	}
	return NewArenaWithObstacles(opts.Size, obs)
}

// NewArenaWithObstacles builds an arena with a fixed obstacle set.
func NewArenaWithObstacles(size float64, obstacles []Obstacle) *Arena {
	if size <= 0 {
		size = DefaultArenaSize
	}
	a := &Arena{
		size:      size,
		boundary:  size * boundaryFraction,
		obstacles: append([]Obstacle(nil), obstacles...),
	}
	spatials := make([]rtreego.Spatial, 0, len(a.obstacles))
	for i, o := range a.obstacles {
		rect, err := rtreego.NewRect(
			rtreego.Point{o.Position[0] - o.Radius, o.Position[2] - o.Radius},
			[]float64{2 * o.Radius, 2 * o.Radius},
		)
		if err != nil {
			// Zero-radius obstacles cannot be indexed; they can never be hit either.
			continue
		}
		spatials = append(spatials, &spatialObstacle{idx: i, rect: rect})
	}
	a.index = rtreego.NewTree(2, 4, 16, spatials...)
	return a
}

// scatter finds a spot for an obstacle of radius r away from the centre and
// not overlapping an existing obstacle.
func scatter(rng *rand.Rand, size float64, existing []Obstacle, r float64) (geom.Vec3, bool) {
	limit := size/2 - edgeMargin
	for attempt := 0; attempt < placementAttempts; attempt++ {
		p := geom.Vec3{geom.RandomBetween(rng, -limit, limit), 0, geom.RandomBetween(rng, -limit, limit)}
		if geom.PlanarDistance(p, geom.Vec3{}) < clearCentreRadius {
			continue
		}
		free := true
		for _, o := range existing {
			if geom.PlanarDistance(p, o.Position) < o.Radius+r {
				free = false
				break
			}
		}
		if free {
			return p, true
		}
	}
	return geom.Vec3{}, false
}

// Size returns the edge length of the ground square.
func (a *Arena) Size() float64 { return a.size }

// BoundarySize returns the edge length of the playable square.
func (a *Arena) BoundarySize() float64 { return a.boundary }

// Obstacles returns the obstacle list. Callers must not modify it.
func (a *Arena) Obstacles() []Obstacle { return a.obstacles }

// HeightAt returns the ground height. The reference arena is flat.
func (a *Arena) HeightAt(_, _ float64) float64 { return 0 }

// Update advances the boundary pulse used by renderers.
func (a *Arena) Update(dt float64) {
	a.phase = math.Mod(a.phase+dt, 2*math.Pi)
}

// Phase returns the ambient animation phase in radians.
func (a *Arena) Phase() float64 { return a.phase }

// CheckCollision tests b against the boundary first, then against obstacles.
func (a *Arena) CheckCollision(b Body) Collision {
	pos := b.Position()
	half := a.boundary / 2

	if math.Abs(pos[0]) > half || math.Abs(pos[2]) > half {
		dir := geom.Vec3{}
		switch {
		case pos[0] > half:
			dir[0] = -1
		case pos[0] < -half:
			dir[0] = 1
		}
		switch {
		case pos[2] > half:
			dir[2] = -1
		case pos[2] < -half:
			dir[2] = 1
		}
		return Collision{Collided: true, Kind: KindBoundary, Direction: dir}
	}

	r := b.Radius()
	for _, idx := range a.candidates(pos, r) {
		o := a.obstacles[idx]
		if geom.PlanarDistance(pos, o.Position) < o.Radius+r {
			away := geom.SafeNormalize(geom.Flatten(pos.Sub(o.Position)), geom.Vec3{1, 0, 0})
			return Collision{Collided: true, Kind: KindObstacle, Obstacle: o, Direction: away}
		}
	}
	return Collision{}
}

// ObstaclesNear returns every obstacle whose footprint comes within radius
// of pos, in obstacle-list order.
func (a *Arena) ObstaclesNear(pos geom.Vec3, radius float64) []Obstacle {
	var out []Obstacle
	for _, idx := range a.candidates(pos, radius) {
		o := a.obstacles[idx]
		if geom.PlanarDistance(pos, o.Position) < o.Radius+radius {
			out = append(out, o)
		}
	}
	return out
}

// candidates returns obstacle indices whose bounding squares intersect the
// square of half-extent r around pos, sorted so results are deterministic.
func (a *Arena) candidates(pos geom.Vec3, r float64) []int {
	if len(a.obstacles) == 0 {
		return nil
	}
	if r <= 0 {
		r = 1e-3
	}
	query, err := rtreego.NewRect(rtreego.Point{pos[0] - r, pos[2] - r}, []float64{2 * r, 2 * r})
	if err != nil {
		return nil
	}
	hits := a.index.SearchIntersect(query)
	idx := make([]int, 0, len(hits))
	for _, h := range hits {
		idx = append(idx, h.(*spatialObstacle).idx)
	}
	sort.Ints(idx)
	return idx
}

// KeepWithinBoundaries clamps m into the playable square.
func (a *Arena) KeepWithinBoundaries(m Mover) {
	half := a.boundary / 2
	p := m.Position()
	clamped := geom.Vec3{geom.Clamp(p[0], -half, half), p[1], geom.Clamp(p[2], -half, half)}
	if clamped != p {
		m.SetPosition(clamped)
	}
}

// HandleObstacleCollision pushes m straight away from o until the two no
// longer overlap.
func (a *Arena) HandleObstacleCollision(m Mover, o Obstacle) bool {
	p := m.Position()
	away := geom.Flatten(p.Sub(o.Position))
	dist := away.Len()
	dir := geom.SafeNormalize(away, geom.Vec3{1, 0, 0})

	r := m.Radius()
	if r <= 0 {
		r = fallbackRad
	}
	push := (o.Radius + r) - dist + pushSlack
	if push <= 0 {
		return false
	}
	m.SetPosition(p.Add(dir.Mul(push)))
	return true
}

var _ Terrain = (*Arena)(nil)
