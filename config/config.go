// Package config provides configuration management for billforge.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all configuration for the billforge server.
type Config struct {
	// ServerAddr is the address the HTTP server listens on (e.g., ":7090").
	ServerAddr string

	// DataDir is the directory for persistent data (SQLite DB, PDFs, etc.).
	DataDir string

	// DatabasePath is the full path to the SQLite database file.
	DatabasePath string

	// OpenAIAPIKey authenticates the summarization/pros-cons LLM calls.
	OpenAIAPIKey string

	// OpenAIModel overrides the default chat model when set.
	OpenAIModel string

	// Kialo automation settings.
	KialoUsername  string
	KialoPassword  string
	KialoEnv       string // "ec2" (headless) or "local"
	KialoImagePath string // discussion media asset
	KialoTag       string

	// Webflow CMS settings.
	WebflowAPIKey        string
	WebflowCollectionID  string
	WebflowSiteID        string
	WebflowJurisdictions map[string]string

	// Slack notification settings (optional).
	SlackBotToken string
	SlackChannel  string

	// AckTimeout is how long the create-run endpoint waits for a terminal
	// state before answering with a "processing" acknowledgment.
	AckTimeout time.Duration

	// ContinueWithoutDiscussion keeps a run going when the Kialo automation
	// fails, publishing the CMS record without a discussion URL.
	ContinueWithoutDiscussion bool
}

// Load creates a Config from environment variables with sensible defaults,
// overlaying values from the optional config file.
func Load() (*Config, error) {
	dataDir := envOr("BILLFORGE_DATA_DIR", defaultDataDir())
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	cfg := &Config{
		ServerAddr:   envOr("BILLFORGE_ADDR", ":7090"),
		DataDir:      dataDir,
		DatabasePath: filepath.Join(dataDir, "billforge.db"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  os.Getenv("BILLFORGE_OPENAI_MODEL"),

		KialoUsername:  os.Getenv("KIALO_USERNAME"),
		KialoPassword:  os.Getenv("KIALO_PASSWORD"),
		KialoEnv:       envOr("RUN_ENV", "local"),
		KialoImagePath: envOr("KIALO_IMAGE_PATH", filepath.Join(dataDir, "image.png")),
		KialoTag:       envOr("KIALO_TAG", "DDP"),

		WebflowAPIKey:       os.Getenv("WEBFLOW_KEY"),
		WebflowCollectionID: os.Getenv("WEBFLOW_COLLECTION_ID"),
		WebflowSiteID:       os.Getenv("WEBFLOW_SITE_ID"),

		SlackBotToken: os.Getenv("SLACK_BOT_TOKEN"),
		SlackChannel:  os.Getenv("SLACK_CHANNEL"),

		AckTimeout:                envOrDuration("BILLFORGE_ACK_TIMEOUT", 39*time.Second),
		ContinueWithoutDiscussion: envOrBool("BILLFORGE_CONTINUE_WITHOUT_DISCUSSION", true),
	}

	file, err := LoadConfigFile()
	if err != nil {
		return nil, err
	}
	if file != nil {
		applyFile(cfg, file)
	}

	return cfg, nil
}

func applyFile(cfg *Config, file *FileConfig) {
	if file.Webflow.CollectionID != "" {
		cfg.WebflowCollectionID = file.Webflow.CollectionID
	}
	if file.Webflow.SiteID != "" {
		cfg.WebflowSiteID = file.Webflow.SiteID
	}
	if len(file.Webflow.Jurisdictions) > 0 {
		cfg.WebflowJurisdictions = file.Webflow.Jurisdictions
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envOrDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".billforge"
	}
	return filepath.Join(home, ".billforge")
}
