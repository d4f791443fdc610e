package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/restotycoon/server/internal/config"
	"github.com/restotycoon/server/internal/core/loop"
	coresys "github.com/restotycoon/server/internal/core/system"
	"github.com/restotycoon/server/internal/data"
	"github.com/restotycoon/server/internal/handler"
	gonet "github.com/restotycoon/server/internal/net"
	"github.com/restotycoon/server/internal/net/packet"
	"github.com/restotycoon/server/internal/persist"
	"github.com/restotycoon/server/internal/scripting"
	"github.com/restotycoon/server/internal/system"
	"github.com/restotycoon/server/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const startupHint = "Click customers to seat them. Hire staff to automate tasks."

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name, slot string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            RestoTycoon  v0.1.0            \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s \033[90m(slot: %s)\033[0m\n\n", name, slot)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("RESTO_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.Slot)

	// 3. Balance tables and scripted formulas
	tuning, err := data.LoadTuning(cfg.Data.TuningPath)
	if err != nil {
		return fmt.Errorf("load tuning: %w", err)
	}
	printOK("tuning loaded")

	formulas, err := scripting.NewEngine(cfg.Data.ScriptsDir, tuning, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer formulas.Close()
	printOK("lua scripts loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 4. Save store. Any failure here leaves an unsaved in-memory session.
	openCtx, cancelOpen := context.WithTimeout(ctx, 30*time.Second)
	defer cancelOpen()

	store, err := persist.OpenStore(openCtx, cfg.Database, log)
	if err != nil {
		log.Warn("save store unavailable, progress will not be saved",
			zap.String("driver", cfg.Database.Driver), zap.Error(err))
		store = persist.NewMemoryStore()
	}
	defer store.Close()

	game := world.DefaultGameState()
	found, err := store.LoadState(openCtx, cfg.Server.Slot, &game)
	switch {
	case err != nil:
		log.Warn("could not load save, starting fresh", zap.String("slot", cfg.Server.Slot), zap.Error(err))
		game = world.DefaultGameState()
	case found:
		log.Info("save loaded", zap.String("slot", cfg.Server.Slot), zap.Int("day", game.Day))
	}
	cancelOpen()
	printOK(fmt.Sprintf("save store ready (%s)", cfg.Database.Driver))

	saver := persist.NewSaver(store, cfg.Server.Slot, cfg.Database.FlushInterval, log)
	saver.Start()

	// 5. World state
	seed := cfg.Server.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	ws := world.NewState(game, tuning, rand.New(rand.NewSource(seed)))
	ws.ShowNotice(startupHint)

	lifecycle := system.NewLifecycle(ws, formulas, log)
	economy := system.NewEconomySystem(ws, formulas, log)
	system.SubscribeDayLedger(ws.Bus, saver, log)
	system.SubscribeJournal(ws.Bus, log)

	// 6. Message handlers
	codec, err := packet.NewCodec()
	if err != nil {
		return fmt.Errorf("message schema: %w", err)
	}
	pktReg := packet.NewRegistry(log)
	handler.RegisterAll(pktReg, &handler.Deps{
		Log:       log,
		World:     ws,
		Lifecycle: lifecycle,
		Economy:   economy,
	})

	// 7. Network server
	netServer, err := gonet.NewServer(cfg.Network, log)
	if err != nil {
		return fmt.Errorf("net server: %w", err)
	}
	go netServer.Serve()
	sessions := gonet.NewSessionStore()

	// 8. Systems, in phase order
	runner := coresys.NewRunner()
	runner.Register(system.NewInputSystem(netServer, pktReg, codec, sessions, cfg.Network.MaxInputsPerFrame, ws, log))
	runner.Register(system.NewEventDispatchSystem(ws.Bus))
	runner.Register(system.NewTaskSystem(ws, lifecycle, log))
	runner.Register(system.NewCleanupSystem(ws.Entities, log))
	runner.Register(system.NewSpawnSystem(ws, formulas))
	runner.Register(system.NewCustomerSystem(ws, lifecycle))
	runner.Register(system.NewStaffSystem(ws, lifecycle))
	runner.Register(economy)

	presenter := gonet.NewPresenter(sessions, cfg.Network.SnapshotEvery, log)
	scheduler := loop.NewScheduler(runner, ws, presenter, saver, cfg.Loop.MaxStep, log)

	fmt.Println()
	printReady(fmt.Sprintf("listening on %s", netServer.Addr().String()))
	printReady(fmt.Sprintf("game loop running (frame: %s)", cfg.Loop.FrameRate))
	fmt.Println()

	// 9. Game loop until SIGINT/SIGTERM
	scheduler.Run(ctx, cfg.Loop.FrameRate)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := netServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("net server shutdown", zap.Error(err))
	}
	saver.Save(ws.Game)
	if err := saver.Close(shutdownCtx); err != nil {
		log.Warn("final save failed", zap.Error(err))
	}
	log.Info("server stopped")
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
