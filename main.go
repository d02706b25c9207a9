// main.go
//
// Entry point for the Recall game server and CLI.
// Loads configuration (including `.env`), configures logging, then hands off
// to the command tree. With no subcommand the HTTP server starts.

package main

import (
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/recall/internal/cli"
	"github.com/robalobadob/recall/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	config.SetupLogging(cfg)
	cli.Execute(cfg)
}
