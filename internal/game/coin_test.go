package game

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Tank-Arena/internal/geom"
)

func TestCoin_CollectLatches(t *testing.T) {
	c := NewCoin(geom.Vec3{5, 0, 5}, 2)
	assert.True(t, c.Collect(epoch))
	assert.False(t, c.Collect(epoch.Add(time.Second)))
	assert.Equal(t, epoch, c.CollectedAt())
}

func TestCoin_FinishedAfterAnimation(t *testing.T) {
	c := NewCoin(geom.Vec3{}, 2)
	assert.False(t, c.Finished(epoch.Add(time.Hour)), "uncollected coins never finish")

	c.Collect(epoch)
	assert.False(t, c.Finished(epoch.Add(coinCollectAnimation)))
	assert.True(t, c.Finished(epoch.Add(coinCollectAnimation+time.Millisecond)))
}

func TestCoin_CollectAnimationRisesAndShrinks(t *testing.T) {
	c := NewCoin(geom.Vec3{}, 2)
	c.Collect(epoch)
	require.NoError(t, c.Update(0.016, epoch.Add(coinCollectAnimation/2)))

	assert.InDelta(t, coinFloatHeight+0.5*coinCollectRiseHeight, c.DisplayHeight(), 1e-9)
	assert.InDelta(t, 0.5, c.DisplayScale(), 1e-9)
}

func TestCoin_IdleBobStaysNearFloatHeight(t *testing.T) {
	c := NewCoin(geom.Vec3{}, 2)
	for i := 0; i < 200; i++ {
		require.NoError(t, c.Update(0.016, epoch))
		assert.InDelta(t, coinFloatHeight, c.DisplayHeight(), coinFloatHeight*0.5+1e-9)
	}
	assert.Less(t, c.Spin(), 2*math.Pi)
}

func TestCoin_UpdateRejectsCorruptState(t *testing.T) {
	c := NewCoin(geom.Vec3{math.NaN(), 0, 0}, 2)
	assert.ErrorIs(t, c.Update(0.016, epoch), ErrCorruptCoin)

	c = NewCoin(geom.Vec3{}, 0)
	assert.ErrorIs(t, c.Update(0.016, epoch), ErrCorruptCoin)
}
