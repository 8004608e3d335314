package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Tank-Arena/internal/fx"
	"github.com/Garsondee/Tank-Arena/internal/game"
	"github.com/Garsondee/Tank-Arena/internal/geom"
	"github.com/Garsondee/Tank-Arena/internal/terrain"
)

// hudRows are reserved at the top for the status line and HUD.
const hudRows = 2

type cell struct {
	r     rune
	style tcell.Style
}

// canvas is an off-screen character grid. Drawing happens here so the
// layout can be tested without a terminal.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([]cell, max(w*h, 0))}
	for i := range c.cells {
		c.cells[i] = cell{r: ' ', style: tcell.StyleDefault}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, st tcell.Style) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y*c.w+x] = cell{r: r, style: st}
}

func (c *canvas) at(x, y int) rune {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return 0
	}
	return c.cells[y*c.w+x].r
}

func (c *canvas) text(x, y int, s string, st tcell.Style) {
	for i, r := range []rune(s) {
		c.set(x+i, y, r, st)
	}
}

func (c *canvas) blit(s tcell.Screen) {
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			cl := c.cells[y*c.w+x]
			s.SetContent(x, y, cl.r, nil, cl.style)
		}
	}
}

// field maps the arena's X/Z plane onto the rows below the HUD. Terminal
// cells are about twice as tall as wide, so X gets twice the columns.
type field struct {
	originX, originY int
	cols, rows       int
	half             float64
}

func newField(w, h int, boundary float64) field {
	rows := h - hudRows
	cols := w
	if cols > rows*2 {
		cols = rows * 2
	} else {
		rows = cols / 2
	}
	return field{
		originX: (w - cols) / 2,
		originY: hudRows,
		cols:    max(cols, 1),
		rows:    max(rows, 1),
		half:    boundary / 2,
	}
}

func (f field) project(p geom.Vec3) (int, int) {
	u := (p[0] + f.half) / (2 * f.half)
	v := (p[2] + f.half) / (2 * f.half)
	x := int(math.Floor(u * float64(f.cols)))
	y := int(math.Floor(v * float64(f.rows)))
	x = min(max(x, 0), f.cols-1)
	y = min(max(y, 0), f.rows-1)
	return f.originX + x, f.originY + y
}

var (
	styleBorder   = tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)
	styleObstacle = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	stylePlayer   = tcell.StyleDefault.Foreground(tcell.ColorDodgerBlue).Bold(true)
	styleEnemy    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleCoin     = tcell.StyleDefault.Foreground(tcell.ColorGold)
	styleShell    = tcell.StyleDefault.Foreground(tcell.ColorLightYellow)
	styleHUD      = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleBanner   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
)

// headingGlyph picks an arrow for a yaw, with +Z drawn downwards.
func headingGlyph(yaw float64) rune {
	dir := geom.ForwardFromYaw(yaw)
	if math.Abs(dir[0]) > math.Abs(dir[2]) {
		if dir[0] > 0 {
			return '>'
		}
		return '<'
	}
	if dir[2] > 0 {
		return 'v'
	}
	return '^'
}

func (c *canvas) drawMatch(g *game.Game, particles *fx.System, status string) {
	boundary := terrain.DefaultArenaSize
	if t := g.Terrain(); t != nil {
		boundary = t.BoundarySize()
	}
	f := newField(c.w, c.h, boundary)

	for x := f.originX; x < f.originX+f.cols; x++ {
		c.set(x, f.originY-1, '-', styleBorder)
		c.set(x, f.originY+f.rows, '-', styleBorder)
	}
	if t := g.Terrain(); t != nil {
		for _, o := range t.Obstacles() {
			glyph := '#'
			if o.Kind == terrain.ObstacleRock {
				glyph = 'o'
			}
			x, y := f.project(o.Position)
			c.set(x, y, glyph, styleObstacle)
		}
	}
	for _, coin := range g.Coins() {
		if coin.Collected() {
			continue
		}
		x, y := f.project(coin.Position())
		c.set(x, y, '$', styleCoin)
	}
	if particles != nil {
		for _, p := range particles.Particles() {
			if p.Kind == fx.Debris || p.Kind == fx.Spark {
				x, y := f.project(p.Pos)
				c.set(x, y, '*', tcell.StyleDefault.Foreground(tcell.NewHexColor(int32(p.Color))))
			}
		}
	}
	shells := g.Player().Projectiles()
	for _, e := range g.Enemies() {
		shells = append(shells[:len(shells):len(shells)], e.Tank().Projectiles()...)
	}
	for _, s := range shells {
		if s.ShouldRemove() {
			continue
		}
		x, y := f.project(s.Position())
		c.set(x, y, '.', styleShell)
	}
	for _, e := range g.Enemies() {
		x, y := f.project(e.Tank().Position())
		c.set(x, y, headingGlyph(e.Tank().Yaw()), styleEnemy)
	}
	if p := g.Player(); !p.Destroyed() {
		x, y := f.project(p.Position())
		c.set(x, y, headingGlyph(p.CannonYaw()), stylePlayer)
	}

	h := g.HUD()
	power := "off"
	if h.PowerUpActive {
		power = fmt.Sprintf("lv%d %ds", h.PowerLevel, int(h.PowerUpRemaining.Seconds()))
	}
	c.text(0, 0, fmt.Sprintf("score %d  level %d  hp %d  coins %d/%d (%d)  power %s  enemies %d",
		h.Score, h.Difficulty, h.Health, h.Coins, h.CoinsRequired, h.TotalCoins, power, h.Enemies), styleHUD)
	if status == "" {
		status = "wasd move  q/e turret  space fire  p pause  r restart  c copy  esc quit"
	}
	c.text(0, 1, status, styleHUD)

	if particles != nil {
		if b := particles.Banner(); b.Text != "" {
			msg := " " + b.Text + " "
			c.text(f.originX+(f.cols-len(msg))/2, f.originY+f.rows/2, msg, styleBanner)
		}
	}
}
