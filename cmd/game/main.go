package main

import (
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"

	"github.com/Garsondee/Tank-Arena/internal/config"
	"github.com/Garsondee/Tank-Arena/internal/fx"
	"github.com/Garsondee/Tank-Arena/internal/game"
	"github.com/Garsondee/Tank-Arena/internal/logging"
	"github.com/Garsondee/Tank-Arena/internal/telemetry"
	"github.com/Garsondee/Tank-Arena/internal/terrain"
	"github.com/Garsondee/Tank-Arena/internal/view"
)

// reportFrames is how much of the timeline the clipboard report includes.
const reportFrames = 600

// app adapts the simulation core to ebiten's Update/Draw loop.
type app struct {
	game     *game.Game
	fx       *fx.System
	renderer *view.Renderer
	log      zerolog.Logger
}

func (a *app) Update() error {
	now := time.Now()
	a.handleInput(now)
	a.game.Update(now)
	a.fx.Update(now)
	return nil
}

func (a *app) handleInput(now time.Time) {
	a.game.SetPlayerIntent(game.Intent{
		Forward:     ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Backward:    ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		Left:        ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right:       ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		TurretLeft:  ebiten.IsKeyPressed(ebiten.KeyQ),
		TurretRight: ebiten.IsKeyPressed(ebiten.KeyE),
	})

	// Holding space keeps firing at the cannon's reload rate.
	if ebiten.IsKeyPressed(ebiten.KeySpace) || ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		a.game.Fire(now)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.game.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.game.Restart(now)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		a.copyReport()
	}
}

func (a *app) copyReport() {
	report := a.game.MatchReport(reportFrames)
	if err := clipboard.WriteAll(report); err != nil {
		a.log.Warn().Err(err).Msg("copying match report to clipboard")
		return
	}
	a.log.Info().Int("bytes", len(report)).Msg("match report copied to clipboard")
}

func (a *app) Draw(screen *ebiten.Image) {
	a.renderer.Draw(screen, a.game, a.fx)
}

func (a *app) Layout(_, _ int) (int, int) {
	return a.renderer.Layout()
}

func main() {
	configPath := flag.String("config", "", "path to a json/yaml/toml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		boot := logging.Setup("info", os.Stderr)
		boot.Fatal().Err(err).Msg("loading config")
	}
	log := logging.Setup(cfg.LogLevel, os.Stderr)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- game only
	log.Info().Int64("seed", seed).Str("config", *configPath).Msg("starting tank arena")

	metrics, err := telemetry.Default()
	if err != nil {
		log.Fatal().Err(err).Msg("creating metric instruments")
	}

	particles := fx.NewSystem(rng)
	arena := terrain.NewArena(rng, cfg.Arena.Options())
	g := game.New(cfg.Sim,
		game.WithTerrain(arena),
		game.WithSink(particles),
		game.WithLogger(log.With().Str("component", "game").Logger()),
		game.WithMetrics(metrics),
		game.WithRand(rng),
		game.WithSimLog(game.NewBoundedSimLog(false, game.DefaultSimLogLimit)),
	)

	a := &app{
		game:     g,
		fx:       particles,
		renderer: view.NewRenderer(cfg.Window.Width, cfg.Window.Height),
		log:      log,
	}

	ebiten.SetWindowTitle("Tank Arena")
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	if err := ebiten.RunGame(a); err != nil {
		log.Fatal().Err(err).Msg("game loop exited")
	}
	log.Info().Int("score", g.Score()).Str("outcome", g.Outcome().Outcome.String()).Msg("window closed")
}
