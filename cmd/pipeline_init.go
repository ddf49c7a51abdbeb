package main

import (
	"time"

	"github.com/sells-group/lead-intake/internal/ai"
	"github.com/sells-group/lead-intake/internal/enrich"
	"github.com/sells-group/lead-intake/internal/leadstore"
	"github.com/sells-group/lead-intake/internal/notify"
	"github.com/sells-group/lead-intake/internal/orchestrator"
	"github.com/sells-group/lead-intake/internal/rules"
	"github.com/sells-group/lead-intake/pkg/anthropic"
	"github.com/sells-group/lead-intake/pkg/notion"
	"github.com/sells-group/lead-intake/pkg/searchapi"
)

// buildPipeline wires every adapter from config into an orchestrator.
func buildPipeline() (*orchestrator.Orchestrator, error) {
	store := leadstore.NewNotionStore(
		notion.NewClient(cfg.Notion.Token),
		cfg.Notion.ParentPage,
		cfg.Notion.LeadsTable,
	)

	fetcher := enrich.NewChromeFetcher(
		time.Duration(cfg.Scraper.TimeoutSecs)*time.Second,
		cfg.Scraper.UserAgent,
	)

	search := searchapi.NewClient(cfg.Search.Key,
		searchapi.WithBaseURL(cfg.Search.BaseURL),
		searchapi.WithEngine(cfg.Search.Engine),
	)

	gen := ai.NewGenerator(
		anthropic.NewClient(cfg.Anthropic.Key),
		cfg.Anthropic.Model,
		cfg.Anthropic.MaxTokens,
	)

	engine, err := loadRules()
	if err != nil {
		return nil, err
	}

	scheduler := notify.NewLogScheduler(cfg.Calendar.InvestorEmail, cfg.Calendar.Timezone)

	return orchestrator.New(store, fetcher, search, gen, engine, buildMailer(), scheduler), nil
}

// loadRules returns the configured rule engine: the external YAML file
// when one is set, the built-in default rule set otherwise.
func loadRules() (*rules.Engine, error) {
	ruleSet := rules.DefaultRules()
	if cfg.Rules.Path != "" {
		loaded, err := rules.LoadFile(cfg.Rules.Path)
		if err != nil {
			return nil, err
		}
		ruleSet = loaded
	}
	return rules.New(ruleSet...)
}

func buildMailer() notify.Mailer {
	if cfg.Mail.Mode == "smtp" {
		return notify.NewSMTPMailer(
			cfg.Mail.From,
			cfg.Mail.SMTPHost,
			cfg.Mail.SMTPPort,
			cfg.Mail.SMTPUser,
			cfg.Mail.SMTPPass,
		)
	}
	return notify.NewLogMailer(cfg.Mail.From)
}
