// main.go
//
// Wordly backend entrypoint.
// Responsibilities:
//   - Load .env + environment configuration, set up zerolog.
//   - Utility subcommands: rebuild (drop + remigrate the database),
//     show (dump the active game), players (list players of the active
//     game).
//   - Server mode: open the store, load the word pool and admin
//     credential, wire the HTTP server, serve.
//
// The admin credential file is required: refusing to start beats
// running with the reset endpoint unguarded or permanently broken.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"wordly/internal/config"
	"wordly/internal/dict"
	"wordly/internal/httpserver"
	"wordly/internal/lifecycle"
	"wordly/internal/store"
	"wordly/internal/words"
)

func main() {
	_ = godotenv.Load()
	setupLogging()

	cfg := config.Load()

	if len(os.Args) > 1 {
		runSubcommand(os.Args[1], cfg)
		return
	}

	admin, err := httpserver.LoadAdminAuth(cfg.AdminCodeFile, cfg.AdminTokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("admin credential unavailable")
	}

	st, err := store.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer st.Close()

	selector := words.NewSelector(words.LoadPool(cfg.WordsFile))
	games := lifecycle.New(st, selector, cfg.MaxGuesses)
	oracle := dict.NewClient(cfg.DictBaseURL, cfg.DictTimeout)

	srv := httpserver.New(st, games, oracle, admin, cfg.ClientOrigin)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("db", cfg.DatabaseType).Msg("wordly listening")
	if err := srv.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func setupLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	level := zerolog.InfoLevel
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if parsed, err := zerolog.ParseLevel(raw); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)
	if os.Getenv("LOG_PRETTY") != "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// runSubcommand handles the db utility commands and exits.
func runSubcommand(cmd string, cfg *config.Config) {
	st, err := store.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer st.Close()

	ctx := context.Background()
	switch cmd {
	case "rebuild":
		if err := st.Rebuild(); err != nil {
			log.Fatal().Err(err).Msg("rebuild failed")
		}
		fmt.Println("database rebuilt")

	case "show":
		g, err := st.ActiveGame(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("no active game")
		}
		fmt.Printf("game %s\n  word: %s\n  definition: %s\n  wordLength: %d  maxGuesses: %d\n  created: %s\n",
			g.UID, g.Word, g.Definition, g.WordLength, g.MaxGuesses, g.CreatedAt.Format(time.RFC3339))

	case "players":
		g, err := st.ActiveGame(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("no active game")
		}
		players, err := st.Players(ctx, g.UID)
		if err != nil {
			log.Fatal().Err(err).Msg("list players")
		}
		if len(players) == 0 {
			fmt.Println("no players yet")
			return
		}
		for _, p := range players {
			fmt.Printf("%-20s %d tries  %s\n", p.Name, p.Tries, p.Status)
		}

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (expected rebuild, show, or players)\n", cmd)
		os.Exit(2)
	}
}
