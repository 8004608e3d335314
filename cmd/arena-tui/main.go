package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/Garsondee/Tank-Arena/internal/config"
	"github.com/Garsondee/Tank-Arena/internal/fx"
	"github.com/Garsondee/Tank-Arena/internal/game"
	"github.com/Garsondee/Tank-Arena/internal/logging"
	"github.com/Garsondee/Tank-Arena/internal/telemetry"
	"github.com/Garsondee/Tank-Arena/internal/terrain"
)

const (
	frameDuration = 33 * time.Millisecond
	// Terminals send no key-up events, so a key counts as held for this
	// long after its last repeat.
	keyTimeout = 150 * time.Millisecond
)

type holdKey int

const (
	holdForward holdKey = iota
	holdBackward
	holdLeft
	holdRight
	holdTurretLeft
	holdTurretRight
	holdFire
)

type tui struct {
	screen tcell.Screen
	game   *game.Game
	fx     *fx.System
	log    zerolog.Logger
	held   map[holdKey]time.Time
	status string
}

func newTUI(screen tcell.Screen, g *game.Game, particles *fx.System, log zerolog.Logger) *tui {
	return &tui{
		screen: screen,
		game:   g,
		fx:     particles,
		log:    log,
		held:   make(map[holdKey]time.Time),
	}
}

func (t *tui) isHeld(k holdKey, now time.Time) bool {
	last, ok := t.held[k]
	return ok && now.Sub(last) < keyTimeout
}

// handleKey reports false when the user asked to quit.
func (t *tui) handleKey(ev *tcell.EventKey, now time.Time) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		t.held[holdForward] = now
	case tcell.KeyDown:
		t.held[holdBackward] = now
	case tcell.KeyLeft:
		t.held[holdLeft] = now
	case tcell.KeyRight:
		t.held[holdRight] = now
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			t.held[holdForward] = now
		case 's', 'S':
			t.held[holdBackward] = now
		case 'a', 'A':
			t.held[holdLeft] = now
		case 'd', 'D':
			t.held[holdRight] = now
		case 'q', 'Q':
			t.held[holdTurretLeft] = now
		case 'e', 'E':
			t.held[holdTurretRight] = now
		case ' ':
			t.held[holdFire] = now
		case 'p', 'P':
			t.game.TogglePause()
		case 'r', 'R':
			t.game.Restart(now)
		case 'c', 'C':
			t.copyReport()
		}
	}
	return true
}

func (t *tui) copyReport() {
	if err := clipboard.WriteAll(t.game.MatchReport(0)); err != nil {
		t.status = "clipboard unavailable"
		t.log.Warn().Err(err).Msg("copying match report")
		return
	}
	t.status = "report copied"
}

func (t *tui) step(now time.Time) {
	t.game.SetPlayerIntent(game.Intent{
		Forward:     t.isHeld(holdForward, now),
		Backward:    t.isHeld(holdBackward, now),
		Left:        t.isHeld(holdLeft, now),
		Right:       t.isHeld(holdRight, now),
		TurretLeft:  t.isHeld(holdTurretLeft, now),
		TurretRight: t.isHeld(holdTurretRight, now),
	})
	if t.isHeld(holdFire, now) {
		t.game.Fire(now)
	}
	t.game.Update(now)
	t.fx.Update(now)
}

func (t *tui) render() {
	w, h := t.screen.Size()
	c := newCanvas(w, h)
	c.drawMatch(t.game, t.fx, t.status)
	c.blit(t.screen)
	t.screen.Show()
}

func (t *tui) run() {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !t.handleKey(ev, time.Now()) {
					return
				}
			case *tcell.EventResize:
				t.screen.Sync()
			}
		case now := <-ticker.C:
			t.step(now)
			t.render()
		}
	}
}

func main() {
	configPath := flag.String("config", "", "path to a json/yaml/toml config file")
	logPath := flag.String("log", "arena-tui.log", "log file (the terminal is taken by the game)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log := logging.JSON(cfg.LogLevel, logFile)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- game only

	metrics, err := telemetry.Default()
	if err != nil {
		log.Fatal().Err(err).Msg("creating metric instruments")
	}

	particles := fx.NewSystem(rng)
	g := game.New(cfg.Sim,
		game.WithTerrain(terrain.NewArena(rng, cfg.Arena.Options())),
		game.WithSink(particles),
		game.WithLogger(log),
		game.WithMetrics(metrics),
		game.WithRand(rng),
		game.WithSimLog(game.NewBoundedSimLog(false, game.DefaultSimLogLimit)),
	)

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal().Err(err).Msg("creating terminal screen")
	}
	if err := screen.Init(); err != nil {
		log.Fatal().Err(err).Msg("initialising terminal screen")
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	log.Info().Int64("seed", seed).Msg("starting tank arena (terminal)")
	newTUI(screen, g, particles, log).run()
	screen.Fini()

	out := g.Outcome()
	fmt.Printf("final score %d, %d kills (%s)\n", out.Score, out.Kills, out.Description)
}
