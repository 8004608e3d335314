package view

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Tank-Arena/internal/fx"
	"github.com/Garsondee/Tank-Arena/internal/game"
	"github.com/Garsondee/Tank-Arena/internal/geom"
	"github.com/Garsondee/Tank-Arena/internal/terrain"
)

const (
	lineHeight    = 14
	feedLineH     = 13
	hudPadX       = 6
	hudPadY       = 5
	healthBarW    = 3.0 // world units
	healthBarLift = 3.0
)

var (
	windowBg   = color.RGBA{R: 12, G: 14, B: 12, A: 255}
	groundCol  = color.RGBA{R: 28, G: 42, B: 28, A: 255}
	gridCol    = color.RGBA{R: 40, G: 58, B: 40, A: 255}
	borderCol  = color.RGBA{R: 65, G: 90, B: 65, A: 255}
	boxCol     = color.RGBA{R: 120, G: 96, B: 60, A: 255}
	rockCol    = color.RGBA{R: 110, G: 110, B: 115, A: 255}
	playerCol  = color.RGBA{R: 70, G: 130, B: 230, A: 255}
	enemyCol   = color.RGBA{R: 210, G: 70, B: 70, A: 255}
	turretCol  = color.RGBA{R: 230, G: 230, B: 220, A: 255}
	coinCol    = color.RGBA{R: 255, G: 215, B: 0, A: 255}
	shellCol   = color.RGBA{R: 255, G: 240, B: 180, A: 255}
	panelBg    = color.RGBA{R: 6, G: 10, B: 6, A: 210}
	panelEdge  = color.RGBA{R: 60, G: 100, B: 60, A: 180}
	feedBg     = color.RGBA{R: 10, G: 12, B: 10, A: 248}
	feedTitle  = color.RGBA{R: 20, G: 30, B: 20, A: 255}
	feedRecent = color.RGBA{R: 30, G: 40, B: 30, A: 160}
)

// Renderer draws a match. It holds no simulation state.
type Renderer struct {
	width, height int
	face          text.Face
}

// NewRenderer returns a renderer for a w x h window.
func NewRenderer(w, h int) *Renderer {
	return &Renderer{
		width:  w,
		height: h,
		face:   text.NewGoXFace(basicfont.Face7x13),
	}
}

// Layout reports the logical screen size.
func (r *Renderer) Layout() (int, int) { return r.width, r.height }

// Draw renders the whole frame.
func (r *Renderer) Draw(screen *ebiten.Image, g *game.Game, particles *fx.System) {
	screen.Fill(windowBg)

	vp := NewViewport(r.width, r.height, worldSize(g.Terrain()))

	r.drawGround(screen, vp, g.Terrain())
	for _, c := range g.Coins() {
		r.drawCoin(screen, vp, c)
	}
	for _, e := range g.Enemies() {
		r.drawTank(screen, vp, e.Tank(), enemyCol)
		r.drawHealthBar(screen, vp, e.Tank())
	}
	if p := g.Player(); !p.Destroyed() {
		r.drawTank(screen, vp, p, playerCol)
	}
	r.drawShells(screen, vp, g.Player().Projectiles())
	for _, e := range g.Enemies() {
		r.drawShells(screen, vp, e.Tank().Projectiles())
	}
	if particles != nil {
		r.drawParticles(screen, vp, particles.Particles())
	}

	r.drawHUD(screen, vp, g.HUD())
	r.drawFeed(screen, vp, g.Feed())
	if particles != nil {
		r.drawBanner(screen, vp, particles.Banner())
	}
}

// worldSize is the ground extent to fit on screen. Terrains that do not
// report a ground size are framed by their boundary.
func worldSize(t terrain.Terrain) float64 {
	if t == nil {
		return terrain.DefaultArenaSize
	}
	if sized, ok := t.(interface{ Size() float64 }); ok {
		return sized.Size()
	}
	return t.BoundarySize()
}

func (r *Renderer) drawGround(screen *ebiten.Image, vp Viewport, t terrain.Terrain) {
	ox, oy, side := float32(vp.OffX), float32(vp.OffY), float32(vp.Side)
	vector.FillRect(screen, ox, oy, side, side, groundCol, false)

	spacing := vp.Len(10)
	if spacing >= 4 {
		for x := float32(0); x <= side; x += spacing {
			vector.StrokeLine(screen, ox+x, oy, ox+x, oy+side, 1.0, gridCol, false)
		}
		for y := float32(0); y <= side; y += spacing {
			vector.StrokeLine(screen, ox, oy+y, ox+side, oy+y, 1.0, gridCol, false)
		}
	}
	vector.StrokeRect(screen, ox-1, oy-1, side+2, side+2, 2.0, borderCol, false)

	if t == nil {
		return
	}
	half := t.BoundarySize() / 2
	bx, by := vp.ToScreen(geom.Vec3{-half, 0, -half})
	bl := vp.Len(2 * half)
	vector.StrokeRect(screen, bx, by, bl, bl, 1.5, color.RGBA{R: 150, G: 60, B: 60, A: 160}, false)

	for _, o := range t.Obstacles() {
		cx, cy := vp.ToScreen(o.Position)
		rad := vp.Len(o.Radius)
		switch o.Kind {
		case terrain.ObstacleBox:
			// Collision is radial; the box is drawn inscribed in it.
			e := rad * float32(math.Sqrt2)
			vector.FillRect(screen, cx-e/2, cy-e/2, e, e, boxCol, false)
			vector.StrokeCircle(screen, cx, cy, rad, 1, color.RGBA{R: 120, G: 96, B: 60, A: 90}, true)
		default:
			vector.FillCircle(screen, cx, cy, rad, rockCol, true)
		}
	}
}

func (r *Renderer) drawTank(screen *ebiten.Image, vp Viewport, t *game.Tank, body color.RGBA) {
	cx, cy := vp.ToScreen(t.Position())
	rad := vp.Len(t.Radius())
	vector.FillCircle(screen, cx, cy, rad, body, true)

	hx, hy := vp.ToScreen(t.Position().Add(t.Forward().Mul(t.Radius())))
	vector.StrokeLine(screen, cx, cy, hx, hy, 2, color.RGBA{R: 20, G: 20, B: 20, A: 255}, true)

	tx, ty := vp.ToScreen(t.MuzzlePosition())
	vector.StrokeLine(screen, cx, cy, tx, ty, 3, turretCol, true)
	vector.FillCircle(screen, cx, cy, rad*0.45, turretCol, true)
}

func (r *Renderer) drawHealthBar(screen *ebiten.Image, vp Viewport, t *game.Tank) {
	if t.Destroyed() {
		return
	}
	cx, cy := vp.ToScreen(t.Position())
	w := vp.Len(healthBarW)
	y := cy - vp.Len(healthBarLift)
	frac := float32(t.Health()) / 100
	vector.FillRect(screen, cx-w/2, y, w, 3, color.RGBA{R: 40, G: 40, B: 40, A: 200}, false)
	vector.FillRect(screen, cx-w/2, y, w*frac, 3, rgba(healthColor(t.Health()), 1), false)
}

func (r *Renderer) drawCoin(screen *ebiten.Image, vp Viewport, c *game.Coin) {
	cx, cy := vp.ToScreen(c.Position())
	rad := vp.Len(c.Radius() * c.DisplayScale())
	if rad <= 0 {
		return
	}
	// Spin squashes the disc horizontally.
	squash := float32(math.Abs(math.Cos(c.Spin())))*0.6 + 0.4
	vector.FillCircle(screen, cx, cy, rad*squash, coinCol, true)
	vector.StrokeCircle(screen, cx, cy, rad, 1, color.RGBA{R: 255, G: 235, B: 120, A: 120}, true)
}

func (r *Renderer) drawShells(screen *ebiten.Image, vp Viewport, shells []*game.Projectile) {
	for _, p := range shells {
		if p.ShouldRemove() {
			continue
		}
		cx, cy := vp.ToScreen(p.Position())
		tx, ty := vp.ToScreen(p.Position().Sub(p.Direction().Mul(1.5)))
		vector.StrokeLine(screen, tx, ty, cx, cy, 1.5, color.RGBA{R: 255, G: 180, B: 80, A: 140}, true)
		vector.FillCircle(screen, cx, cy, max(2, vp.Len(p.Radius())), shellCol, true)
	}
}

func (r *Renderer) drawParticles(screen *ebiten.Image, vp Viewport, ps []*fx.Particle) {
	for _, p := range ps {
		x, y := vp.ToScreen(p.Pos)
		switch p.Kind {
		case fx.Debris, fx.Spark:
			// Height lifts the particle up the screen a little so arcs read
			// in a top-down view.
			y -= vp.Len(p.Pos[1] * 0.5)
			vector.FillCircle(screen, x, y, max(1, vp.Len(p.Size)), rgba(p.Color, p.Alpha), false)
		case fx.Flash:
			vector.FillCircle(screen, x, y, vp.Len(p.Size), rgba(p.Color, p.Alpha), true)
		case fx.Ring:
			vector.StrokeCircle(screen, x, y, vp.Len(p.Size), 2, rgba(p.Color, p.Alpha), true)
		case fx.FloatText:
			y -= vp.Len(p.Pos[1])
			r.drawText(screen, p.Text, float64(x)-float64(len(p.Text))*3.5, float64(y), rgba(p.Color, p.Alpha))
		}
	}
}

func (r *Renderer) drawText(screen *ebiten.Image, s string, x, y float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, r.face, op)
}

func (r *Renderer) drawHUD(screen *ebiten.Image, vp Viewport, h game.HUD) {
	lines := hudLines(h)
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	bx := float32(vp.OffX + 6)
	by := float32(vp.OffY + 6)
	bw := float32(maxLen*7 + hudPadX*2)
	bh := float32(len(lines)*lineHeight + hudPadY*2)

	vector.FillRect(screen, bx, by, bw, bh, panelBg, false)
	vector.StrokeRect(screen, bx, by, bw, bh, 1.0, panelEdge, false)
	vector.StrokeLine(screen, bx+1, by+1, bx+bw-1, by+1, 1.0, color.RGBA{R: 80, G: 140, B: 80, A: 80}, false)

	for i, line := range lines {
		c := color.Color(color.White)
		if i == 1 {
			c = rgba(healthColor(h.Health), 1)
		}
		r.drawText(screen, line, float64(bx)+hudPadX, float64(by)+hudPadY+float64(i*lineHeight), c)
	}
}

// drawFeed renders the event feed panel, newest at the bottom.
func (r *Renderer) drawFeed(screen *ebiten.Image, vp Viewport, feed *game.EventFeed) {
	px := vp.FeedX()
	ph := r.height
	vector.FillRect(screen, float32(px), 0, float32(feedPanelWidth), float32(ph), feedBg, false)
	vector.StrokeLine(screen, float32(px), 0, float32(px), float32(ph), 1.0, color.RGBA{R: 50, G: 70, B: 50, A: 255}, false)

	vector.FillRect(screen, float32(px), 0, float32(feedPanelWidth), 16, feedTitle, false)
	ebitenutil.DebugPrintAt(screen, "EVENT FEED", px+8, 2)
	vector.StrokeLine(screen, float32(px), 16, float32(px+feedPanelWidth), 16, 1.0, color.RGBA{R: 50, G: 80, B: 50, A: 200}, false)

	if feed == nil {
		return
	}
	lines := feedLines(feed.Recent(), (ph-24)/feedLineH)
	const recent = 3
	y := 20
	for i, line := range lines {
		if i >= len(lines)-recent {
			vector.FillRect(screen, float32(px+2), float32(y), float32(feedPanelWidth-4), feedLineH, feedRecent, false)
		}
		ebitenutil.DebugPrintAt(screen, line, px+8, y)
		y += feedLineH
	}
}

func (r *Renderer) drawBanner(screen *ebiten.Image, vp Viewport, b fx.Banner) {
	if b.Text == "" {
		return
	}
	cx := vp.OffX + vp.Side/2
	cy := vp.OffY + vp.Side/2
	w := float32(len(b.Text)*7 + 40)
	vector.FillRect(screen, float32(cx)-w/2, float32(cy)-20, w, 40, color.RGBA{R: 0, G: 0, B: 0, A: 180}, false)
	r.drawText(screen, b.Text, cx-float64(len(b.Text))*3.5, cy-7, rgba(b.Color, 1))
}
