// Package view draws a Tank Arena match with ebiten: a top-down playfield,
// the particle layer, a HUD panel and the event feed.
package view

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/Garsondee/Tank-Arena/internal/fx"
	"github.com/Garsondee/Tank-Arena/internal/game"
	"github.com/Garsondee/Tank-Arena/internal/geom"
)

// borderWidth is the pixel gap between the window edge and the playfield.
const borderWidth = 24

// feedPanelWidth is the width of the event feed on the right.
const feedPanelWidth = 360

// Viewport maps the arena's X/Z plane onto a square on screen. +X is right
// and +Z is down.
type Viewport struct {
	OffX, OffY float64
	Side       float64 // playfield size in pixels
	WorldSize  float64 // arena extent in world units
}

// NewViewport fits a square playfield of worldSize units into a window of
// w x h pixels, leaving room for the feed panel.
func NewViewport(w, h int, worldSize float64) Viewport {
	side := math.Min(float64(h-2*borderWidth), float64(w-feedPanelWidth-3*borderWidth))
	if side < 1 {
		side = 1
	}
	if worldSize <= 0 {
		worldSize = 1
	}
	return Viewport{
		OffX:      borderWidth,
		OffY:      (float64(h) - side) / 2,
		Side:      side,
		WorldSize: worldSize,
	}
}

// Scale is pixels per world unit.
func (v Viewport) Scale() float64 { return v.Side / v.WorldSize }

// ToScreen projects a world position.
func (v Viewport) ToScreen(p geom.Vec3) (float32, float32) {
	s := v.Scale()
	x := v.OffX + v.Side/2 + p[0]*s
	y := v.OffY + v.Side/2 + p[2]*s
	return float32(x), float32(y)
}

// Len converts a world length to pixels.
func (v Viewport) Len(d float64) float32 { return float32(d * v.Scale()) }

// FeedX is the left edge of the feed panel.
func (v Viewport) FeedX() int { return int(v.OffX+v.Side) + borderWidth }

// rgba converts a packed 0xRRGGBB colour with a [0, 1] alpha.
func rgba(c uint32, alpha float64) color.RGBA {
	r, g, b := fx.RGB(c)
	a := geom.Clamp(alpha, 0, 1)
	// ebiten expects premultiplied colours from vector helpers.
	return color.RGBA{
		R: uint8(float64(r) * a),
		G: uint8(float64(g) * a),
		B: uint8(float64(b) * a),
		A: uint8(255 * a),
	}
}

// hudLines is the text of the HUD panel.
func hudLines(h game.HUD) []string {
	lines := []string{
		fmt.Sprintf("SCORE %d   LEVEL %d", h.Score, h.Difficulty),
		fmt.Sprintf("HEALTH %d   DAMAGE %d", h.Health, h.Damage),
		fmt.Sprintf("COINS %d/%d   TOTAL %d", h.Coins, h.CoinsRequired, h.TotalCoins),
		fmt.Sprintf("ENEMIES %d", h.Enemies),
	}
	if h.PowerUpActive {
		lines = append(lines, fmt.Sprintf("POWER LV %d  %s", h.PowerLevel, clock(h.PowerUpRemaining)))
	} else {
		lines = append(lines, fmt.Sprintf("POWER LV %d  (inactive)", h.PowerLevel))
	}
	lines = append(lines, "WASD move  Q/E turret  SPACE fire")
	lines = append(lines, "P pause  R restart  C copy report")
	return lines
}

// clock formats a duration as m:ss.
func clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// feedLines formats the newest entries that fit in maxLines.
func feedLines(entries []game.FeedEntry, maxLines int) []string {
	if maxLines <= 0 {
		return nil
	}
	if len(entries) > maxLines {
		entries = entries[len(entries)-maxLines:]
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, fmt.Sprintf("%5d [%s] %s", e.Frame, e.Label, e.Message))
	}
	return out
}

// healthColor shades from green to red as health drops.
func healthColor(health int) uint32 {
	switch {
	case health > 60:
		return 0x33DD55
	case health > 30:
		return 0xEECC33
	default:
		return 0xEE3333
	}
}
