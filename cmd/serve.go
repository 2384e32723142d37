package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/marketmind/growth-api/internal/insight"
	"github.com/marketmind/growth-api/internal/pricing"
	"github.com/marketmind/growth-api/internal/server"
	"github.com/marketmind/growth-api/pkg/groq"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the insight API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Groq.Key == "" {
			zap.L().Warn("GROWTH_GROQ_KEY not set, AI endpoints will return error envelopes")
		}

		llm := groq.NewClient(cfg.Groq.Key,
			groq.WithBaseURL(cfg.Groq.BaseURL),
			groq.WithModel(cfg.Groq.Model),
		)
		svc := insight.NewService(llm, cfg.Groq, cfg.Scorer)
		eng := pricing.NewEngine(cfg.Pricing)

		srvCfg := cfg.Server
		if servePort != 0 {
			srvCfg.Port = servePort
		}

		return server.New(srvCfg, svc, eng).Start(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
