package main

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/punchline/internal/api"
	"github.com/kiliankoe/punchline/internal/cards"
	"github.com/kiliankoe/punchline/internal/config"
	"github.com/kiliankoe/punchline/internal/export"
	"github.com/kiliankoe/punchline/internal/game"
	"github.com/kiliankoe/punchline/internal/ws"
)

const version = "v0.3.0-dev"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Punchline - party card game server

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT                    Port to listen on (default: 8080)
  LOG_LEVEL               debug, info, warn or error (default: info)
  CARDS_FILE              JSON card pack (default: built-in pack)
  EXPORT_ENABLED          Append finished games to a file (default: true)
  EXPORT_FILE             Path of that file (default: ./punchline-results.txt)
  ALLOWED_ORIGINS         Comma separated CORS origins (default: *)
  DEFAULT_WINNING_SCORE   Points needed to win (default: 5)
  DEFAULT_TURN_DURATION   Round time limit, 0s for none (default: 0s)
  FINISH_DELAY            Pause before the game ends (default: 5s)
  START_TURN_DELAY        Pause between rounds (default: 5s)
`, os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Punchline %s\n", version)
		return
	}

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
	}

	port := *portFlag
	if port == "" {
		port = cfg.Port
	}

	lib, err := cards.Load(cfg.CardsFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.CardsFile).Msg("failed to load cards")
	}
	log.Info().Int("setups", len(lib.Setups)).Int("punchlines", len(lib.Punchlines)).Msg("cards loaded")

	opts := []game.Option{game.WithMaxPlayers(lib.MaxPlayers())}
	if cfg.ExportEnabled {
		opts = append(opts, game.WithArchive(export.NewFileArchive(cfg.ExportFile)))
		log.Info().Str("file", cfg.ExportFile).Msg("exporting finished games")
	}
	mgr := game.NewManager(opts...)

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		log.Info().Str("path", path).Int("status", c.Writer.Status()).Dur("dur", time.Since(start)).Msg("http")
	})

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(cfg.AllowedOrigins) == 0 || slices.Contains(cfg.AllowedOrigins, "*") {
		corsCfg.AllowCredentials = false
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	api.Register(r, mgr)

	sock := ws.New(mgr, lib, cfg.DefaultSettings())
	sock.Origins = cfg.AllowedOrigins
	io := sock.Mount(r)
	defer io.Close()

	log.Info().Str("port", port).Msg("listening")
	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
