package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Garsondee/Tank-Arena/internal/geom"
)

func TestProjectile_ExpiresSilently(t *testing.T) {
	sink := &RecordingSink{}
	p := newProjectile(geom.Vec3{0, 10, 0}, geom.Vec3{1, 0, 0}, baseDamage, true, epoch, sink)

	p.Update(0.016, epoch.Add(projectileLifetime))
	assert.False(t, p.ShouldRemove(), "lifetime is exclusive")

	p.Update(0.016, epoch.Add(projectileLifetime+time.Millisecond))
	assert.True(t, p.ShouldRemove())
	assert.False(t, p.Exploded())
	assert.Zero(t, sink.Count(EffectProjectileExplosion))
}

func TestProjectile_ExplodesOnce(t *testing.T) {
	sink := &RecordingSink{}
	p := newProjectile(geom.Vec3{0, 10, 0}, geom.Vec3{1, 0, 0}, baseDamage, false, epoch, sink)

	p.Explode()
	p.Explode()
	assert.True(t, p.ShouldRemove())
	assert.True(t, p.Exploded())
	assert.Equal(t, 1, sink.Count(EffectProjectileExplosion))
}

func TestProjectile_ExplodesBelowGround(t *testing.T) {
	sink := &RecordingSink{}
	p := newProjectile(geom.Vec3{0, 0.5, 0}, geom.Vec3{0, -1, 0}, baseDamage, true, epoch, sink)

	p.Update(0.016, epoch.Add(16*time.Millisecond))
	assert.True(t, p.Exploded())
	assert.Equal(t, 1, sink.Count(EffectProjectileExplosion))
}

func TestProjectile_MinimumStep(t *testing.T) {
	p := newProjectile(geom.Vec3{0, 5, 0}, geom.Vec3{0, 0, 1}, baseDamage, true, epoch, nil)

	p.Update(0.001, epoch)
	assert.InDelta(t, projectileSpeed*minProjectileStep, p.Position()[2], 1e-9)

	p.Update(0.1, epoch)
	assert.InDelta(t, projectileSpeed*(minProjectileStep+0.1), p.Position()[2], 1e-9)
}

func TestProjectile_FinishedShellDoesNotMove(t *testing.T) {
	p := newProjectile(geom.Vec3{0, 5, 0}, geom.Vec3{0, 0, 1}, baseDamage, true, epoch, nil)
	p.Explode()
	before := p.Position()
	p.Update(0.5, epoch)
	assert.Equal(t, before, p.Position())
}
