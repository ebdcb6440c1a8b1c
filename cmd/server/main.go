package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"dungeon-sim/internal/agent"
	"dungeon-sim/internal/engine"
	"dungeon-sim/internal/infrastructure/storage"
	"dungeon-sim/internal/network"
	"dungeon-sim/internal/scenario"
	"dungeon-sim/internal/server"
	"dungeon-sim/internal/version"
	"dungeon-sim/pkg/logger"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	// .env необязателен: переменные могут прийти из окружения
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		println("failed to load .env:", err.Error())
	}
	logger.Init()
}

func main() {
	var (
		scenarioPath string
		configPath   string
		addr         string
		replayDir    string
		indexPath    string
		verifyPath   string
		origins      string
		autopilot    int
	)
	flag.StringVar(&scenarioPath, "scenario", getEnv("DSIM_SCENARIO", "levels/boulders.yaml"), "Scenario file (YAML or JSON)")
	flag.StringVar(&configPath, "config", os.Getenv("DSIM_CONFIG"), "Engine tuning YAML (optional)")
	flag.StringVar(&addr, "addr", getEnv("DSIM_ADDR", ":8080"), "HTTP listen address")
	flag.StringVar(&replayDir, "replays", getEnv("DSIM_REPLAY_DIR", "replays"), "Directory for replay files")
	flag.StringVar(&indexPath, "index", getEnv("DSIM_INDEX_DB", "data/ticks.db"), "SQLite tick digest index")
	flag.StringVar(&verifyPath, "verify-replay", "", "Replay file to re-simulate and check against the index")
	flag.StringVar(&origins, "cors", os.Getenv("DSIM_CORS_ORIGINS"), "Comma-separated CORS origins")
	flag.IntVar(&autopilot, "autopilot", 0, "Let a bot play up to N moves after start (0 disables)")
	flag.Parse()

	logger.Log.Info("Starting dungeon simulation...")
	logger.Log.Info(version.String())

	cfg := engine.NewConfig()
	if configPath != "" {
		loaded, err := engine.LoadConfig(configPath)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to load config")
		}
		cfg = loaded
	}
	cfg = engine.ConfigFromEnv(cfg)

	index, err := storage.OpenTickIndex(indexPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to open tick index")
	}
	defer index.Close()

	if verifyPath != "" {
		logger.Log.Info("💿 Mode: Replay Verification")
		if err := verify(verifyPath, cfg, index); err != nil {
			logger.Log.WithError(err).Error("Replay verification failed")
			index.Close()
			os.Exit(1)
		}
		return
	}

	if err := serve(scenarioPath, cfg, addr, replayDir, splitOrigins(origins), autopilot, index); err != nil {
		logger.Log.WithError(err).Error("Server stopped with error")
		index.Close()
		os.Exit(1)
	}
}

// serve поднимает HTTP-сервер над сценарием; при остановке сохраняет реплей.
func serve(path string, cfg engine.Config, addr, replayDir string, origins []string, autopilot int, index *storage.TickIndex) error {
	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}
	g, err := scenario.Build(sc, cfg)
	if err != nil {
		return err
	}

	replays, err := storage.NewReplayService(replayDir)
	if err != nil {
		return err
	}
	runID := uuid.NewString()
	recorder := storage.NewReplayRecorder(replays, runID, path, g.Config.Seed)
	if err := index.Track(g, runID, path); err != nil {
		return err
	}

	session := engine.NewSession(g, network.NewBroadcaster(0))
	session.Recorder = recorder

	logger.Log.WithFields(logrus.Fields{
		"run_id":   runID,
		"scenario": path,
		"seed":     g.Config.Seed,
	}).Info("🎲 Run started")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(session, addr, origins)

	if autopilot > 0 {
		bot := agent.NewBot(session)
		go func() {
			if err := bot.Run(ctx, autopilot); err != nil && ctx.Err() == nil {
				logger.Log.WithError(err).Warn("Autopilot stopped")
			}
		}()
	}
	runErr := srv.Run(ctx)

	logger.Log.Info("Shutting down...")
	file, err := recorder.Flush()
	if err != nil {
		logger.Log.WithError(err).Error("Failed to save replay")
	} else {
		logger.Log.WithField("file", file).Info("Replay saved")
	}
	return runErr
}

// verify пересобирает сценарий реплея и проверяет итоговый дайджест по индексу.
func verify(path string, cfg engine.Config, index *storage.TickIndex) error {
	replays, err := storage.NewReplayService(".")
	if err != nil {
		return err
	}
	session, err := replays.Load(path)
	if err != nil {
		return err
	}
	sc, err := scenario.Load(session.Scenario)
	if err != nil {
		return err
	}
	cfg.Seed = session.Seed
	g, err := scenario.Build(sc, cfg)
	if err != nil {
		return err
	}
	return storage.Verify(g, session, index)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
