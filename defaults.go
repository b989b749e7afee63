package billforge

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/civigen/billforge/eventbus"
	"github.com/civigen/billforge/kialo"
	"github.com/civigen/billforge/llm"
	llmOpenAI "github.com/civigen/billforge/llm/openai"
	slackNotify "github.com/civigen/billforge/notify/slack"
	"github.com/civigen/billforge/pdfgen"
	"github.com/civigen/billforge/scraper"
	sqliteStore "github.com/civigen/billforge/store/sqlite"
	"github.com/civigen/billforge/webflow"
)

// applyDefaults fills in missing fields on the builder with sensible defaults.
func applyDefaults(b *Builder) error {
	// Config defaults.
	if b.config.ServerAddr == "" {
		b.config.ServerAddr = ":7090"
	}
	if b.config.DataDir == "" {
		b.config.DataDir = defaultDataDir()
	}
	if b.config.DatabasePath == "" {
		b.config.DatabasePath = filepath.Join(b.config.DataDir, "billforge.db")
	}
	if b.config.AckTimeout == 0 {
		b.config.AckTimeout = 39 * time.Second
	}

	// Ensure data dir exists.
	if err := os.MkdirAll(b.config.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Store.
	if b.store == nil {
		st, err := sqliteStore.New(b.config.DatabasePath)
		if err != nil {
			return fmt.Errorf("initializing store: %w", err)
		}
		b.store = st
	}

	// Event bus.
	if b.bus == nil {
		b.bus = eventbus.NewInMemoryBus()
	}

	// Bill fetcher.
	if b.fetcher == nil {
		s := scraper.New()
		s.DownloadDir = b.config.DataDir
		b.fetcher = s
	}

	// LLM generator.
	if b.generator == nil {
		if b.config.OpenAIAPIKey == "" {
			return fmt.Errorf("OpenAI API key is required (or use WithTextGenerator)")
		}
		client, err := llmOpenAI.New(b.config.OpenAIAPIKey)
		if err != nil {
			return fmt.Errorf("initializing LLM client: %w", err)
		}
		gen := llm.NewGenerator(client)
		if b.config.OpenAIModel != "" {
			gen.SummaryModel = b.config.OpenAIModel
			gen.ArgumentsModel = b.config.OpenAIModel
		}
		b.generator = gen
	}

	// Kialo publisher.
	if b.discussion == nil {
		env := kialo.EnvLocal
		if b.config.KialoEnv == "ec2" {
			env = kialo.EnvEC2
		}
		b.discussion = kialo.NewPublisher(kialo.Config{
			Credentials: kialo.Credentials{
				Username: b.config.KialoUsername,
				Password: b.config.KialoPassword,
			},
			Environment: env,
			ImagePath:   b.config.KialoImagePath,
			Tag:         b.config.KialoTag,
		})
	}

	// Webflow publisher.
	if b.cms == nil {
		b.cms = webflow.New(
			b.config.WebflowAPIKey,
			b.config.WebflowCollectionID,
			b.config.WebflowSiteID,
			webflow.WithJurisdictions(b.config.WebflowJurisdictions),
		)
	}

	// Summary PDF renderer.
	if b.pdf == nil {
		b.pdf = pdfgen.CreateSummaryPDF
	}

	// Slack notifications.
	if b.notifier == nil && b.config.SlackBotToken != "" && b.config.SlackChannel != "" {
		b.notifier = slackNotify.New(b.config.SlackBotToken, b.config.SlackChannel)
	}

	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".billforge"
	}
	return filepath.Join(home, ".billforge")
}
