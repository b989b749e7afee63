package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/civigen/billforge"
	"github.com/civigen/billforge/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the billforge server",
	Long:  "Start the billforge API server that processes bills and publishes discussions.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Local development keeps secrets in a .env file.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	app, err := billforge.NewBuilder().
		WithConfig(billforge.Config{
			ServerAddr:   cfg.ServerAddr,
			DataDir:      cfg.DataDir,
			DatabasePath: cfg.DatabasePath,

			OpenAIAPIKey: cfg.OpenAIAPIKey,
			OpenAIModel:  cfg.OpenAIModel,

			KialoUsername:  cfg.KialoUsername,
			KialoPassword:  cfg.KialoPassword,
			KialoEnv:       cfg.KialoEnv,
			KialoImagePath: cfg.KialoImagePath,
			KialoTag:       cfg.KialoTag,

			WebflowAPIKey:        cfg.WebflowAPIKey,
			WebflowCollectionID:  cfg.WebflowCollectionID,
			WebflowSiteID:        cfg.WebflowSiteID,
			WebflowJurisdictions: cfg.WebflowJurisdictions,

			SlackBotToken: cfg.SlackBotToken,
			SlackChannel:  cfg.SlackChannel,

			AckTimeout:                cfg.AckTimeout,
			ContinueWithoutDiscussion: cfg.ContinueWithoutDiscussion,
		}).
		Build()
	if err != nil {
		return fmt.Errorf("building app: %w", err)
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down...")
		cancel()
	}()

	return app.Start(ctx)
}
