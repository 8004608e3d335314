package view

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Garsondee/Tank-Arena/internal/game"
	"github.com/Garsondee/Tank-Arena/internal/geom"
	"github.com/Garsondee/Tank-Arena/internal/terrain"
)

func TestViewport_CentresOrigin(t *testing.T) {
	vp := NewViewport(1280, 800, 100)
	assert.Equal(t, 752.0, vp.Side)
	assert.InDelta(t, 7.52, vp.Scale(), 1e-9)

	x, y := vp.ToScreen(geom.Vec3{0, 5, 0})
	assert.InDelta(t, borderWidth+376.0, float64(x), 1e-3)
	assert.InDelta(t, 24+376.0, float64(y), 1e-3)

	x2, y2 := vp.ToScreen(geom.Vec3{10, 0, -10})
	assert.InDelta(t, float64(x)+75.2, float64(x2), 1e-3)
	assert.InDelta(t, float64(y)-75.2, float64(y2), 1e-3)
}

func TestViewport_NarrowWindowLimitsByWidth(t *testing.T) {
	vp := NewViewport(800, 800, 50)
	assert.Equal(t, float64(800-feedPanelWidth-3*borderWidth), vp.Side)
	assert.Greater(t, vp.FeedX(), int(vp.OffX+vp.Side))
}

func TestViewport_DegenerateInputs(t *testing.T) {
	vp := NewViewport(10, 10, 0)
	assert.Equal(t, 1.0, vp.Side)
	assert.Equal(t, 1.0, vp.WorldSize)
}

func TestHUDLines(t *testing.T) {
	lines := hudLines(game.HUD{
		Score: 350, Difficulty: 2, Health: 75, Damage: 50,
		Coins: 3, CoinsRequired: 5, TotalCoins: 13, Enemies: 2,
		PowerUpActive: true, PowerLevel: 2, PowerUpRemaining: 95 * time.Second,
	})
	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "SCORE 350")
	assert.Contains(t, joined, "HEALTH 75")
	assert.Contains(t, joined, "COINS 3/5")
	assert.Contains(t, joined, "POWER LV 2  1:35")

	idle := strings.Join(hudLines(game.HUD{PowerLevel: 1}), "\n")
	assert.Contains(t, idle, "(inactive)")
}

func TestClock(t *testing.T) {
	assert.Equal(t, "3:00", clock(180*time.Second))
	assert.Equal(t, "0:05", clock(4600*time.Millisecond))
	assert.Equal(t, "0:00", clock(-time.Second))
}

func TestFeedLines_KeepsNewest(t *testing.T) {
	feed := game.NewEventFeed()
	for i := 1; i <= 10; i++ {
		feed.Add(i, "E1", "tick")
	}
	lines := feedLines(feed.Recent(), 3)
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "    8 [E1]"))
	assert.Empty(t, feedLines(feed.Recent(), 0))
}

func TestHealthColor(t *testing.T) {
	assert.Equal(t, uint32(0x33DD55), healthColor(100))
	assert.Equal(t, uint32(0xEECC33), healthColor(50))
	assert.Equal(t, uint32(0xEE3333), healthColor(10))
}

func TestRGBA_Premultiplies(t *testing.T) {
	c := rgba(0xFF8000, 0.5)
	assert.Equal(t, uint8(127), c.R)
	assert.Equal(t, uint8(64), c.G)
	assert.Equal(t, uint8(0), c.B)
	assert.Equal(t, uint8(127), c.A)

	assert.Equal(t, uint8(255), rgba(0xFFFFFF, 2).A)
}

func TestWorldSize(t *testing.T) {
	assert.Equal(t, terrain.DefaultArenaSize, worldSize(nil))
	arena := terrain.NewArena(rand.New(rand.NewSource(1)), terrain.ArenaOptions{Size: 60}) // #nosec G404 -- test only
	assert.Equal(t, 60.0, worldSize(arena))
}
