package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/codelens/internal/api"
	"github.com/codelens/internal/config"
	"github.com/codelens/internal/llm"
)

// ServeCommand returns the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the trusted review service the editor proxies through",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Override the listen port",
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.AI.APIKey == "" {
		return fmt.Errorf("serve requires ai.api_key: the review service holds its own provider credential")
	}

	port := cfg.Server.Port
	if override := c.Int("port"); override > 0 {
		port = override
	}

	server, err := api.NewServer(api.Options{
		Port:      port,
		RateLimit: cfg.Server.RateLimit,
		AIConfig: llm.Config{
			APIKey:      cfg.AI.APIKey,
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			MaxTokens:   cfg.AI.MaxTokens,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	log.Info().Int("port", port).Str("model", cfg.AI.Model).Msg("Review service listening")
	return server.Start()
}
