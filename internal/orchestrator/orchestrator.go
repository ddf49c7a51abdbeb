// Package orchestrator drives one submission through persistence,
// enrichment, generation, and rule-triggered follow-up actions.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intake/internal/enrich"
	"github.com/sells-group/lead-intake/internal/leadstore"
	"github.com/sells-group/lead-intake/internal/model"
	"github.com/sells-group/lead-intake/internal/notify"
	"github.com/sells-group/lead-intake/internal/resilience"
	"github.com/sells-group/lead-intake/internal/rules"
	"github.com/sells-group/lead-intake/pkg/searchapi"
)

// ContextGenerator is the language-model surface the pipeline needs.
type ContextGenerator interface {
	MeetingContext(ctx context.Context, sub model.Submission, linkedinText, companyText string) (*model.MeetingContext, error)
	EmailBody(ctx context.Context, template string, mc model.MeetingContext, sub model.Submission) (string, error)
	OneLiner(ctx context.Context, companyText string) (string, error)
}

// Orchestrator composes the store, enrichment sources, generator, rule
// engine, and action adapters into one sequential pipeline.
type Orchestrator struct {
	store     leadstore.Store
	fetcher   enrich.PageFetcher
	search    searchapi.Client
	gen       ContextGenerator
	engine    *rules.Engine
	mailer    notify.Mailer
	scheduler notify.Scheduler

	searchRetry resilience.RetryConfig
}

// New creates an Orchestrator with all dependencies.
func New(
	store leadstore.Store,
	fetcher enrich.PageFetcher,
	search searchapi.Client,
	gen ContextGenerator,
	engine *rules.Engine,
	mailer notify.Mailer,
	scheduler notify.Scheduler,
) *Orchestrator {
	searchRetry := resilience.DefaultRetryConfig()
	searchRetry.OnRetry = resilience.RetryLogger("searchapi", "public info search")
	return &Orchestrator{
		store:       store,
		fetcher:     fetcher,
		search:      search,
		gen:         gen,
		engine:      engine,
		mailer:      mailer,
		scheduler:   scheduler,
		searchRetry: searchRetry,
	}
}

// ProcessSubmission runs the full pipeline for one submission. Store and
// generation failures abort the run; enrichment failures degrade to
// empty enrichment text; individual action failures are logged and do
// not stop remaining actions or rules. There is no rollback: a failed
// run may leave a created lead record behind, and re-running the same
// submission creates a second record.
func (o *Orchestrator) ProcessSubmission(ctx context.Context, sub model.Submission) error {
	log := zap.L().With(
		zap.String("email", sub.Email),
		zap.String("company", sub.Company),
	)
	log.Info("pipeline: processing submission")

	if err := o.store.EnsureDatabase(ctx); err != nil {
		log.Error("pipeline: ensure database failed", zap.Error(err))
		return eris.Wrap(err, "orchestrator: ensure database")
	}

	leadID, err := o.store.CreateLead(ctx, sub)
	if err != nil {
		log.Error("pipeline: create lead failed", zap.Error(err))
		return eris.Wrap(err, "orchestrator: create lead")
	}
	log = log.With(zap.String("lead_id", leadID))

	// Enrichment branches are mutually exclusive: a provided company
	// website always wins; search runs only when no enrichment text has
	// been obtained from any source. LinkedIn scraping is a documented
	// branch that is currently disabled, so linkedinData stays empty.
	var linkedinData, companyData, publicInfo string
	var extracted enrich.Extracted

	if sub.CompanyWebsite != "" {
		log.Info("pipeline: fetching company website", zap.String("url", sub.CompanyWebsite))
		companyData = o.fetcher.VisibleText(ctx, sub.CompanyWebsite)
	}

	if linkedinData == "" && companyData == "" {
		query := fmt.Sprintf("%s %s %s", sub.FirstName, sub.LastName, sub.Company)
		log.Info("pipeline: searching public info", zap.String("query", query))

		results, searchErr := resilience.DoVal(ctx, o.searchRetry, func(ctx context.Context) ([]searchapi.Result, error) {
			return o.search.Search(ctx, query)
		})
		if searchErr != nil {
			// Degrade: the pipeline continues with empty enrichment.
			log.Warn("pipeline: public info search failed", zap.Error(searchErr))
		} else {
			publicInfo = enrich.PublicInfo(results)
			extracted = enrich.ExtractURLs(results)
			log.Info("pipeline: extracted urls from search results",
				zap.String("linkedin", extracted.LinkedIn),
				zap.String("website", extracted.Website),
			)
		}
	}

	enrichment := companyData
	if enrichment == "" {
		enrichment = publicInfo
	}

	mc, err := o.gen.MeetingContext(ctx, sub, linkedinData, enrichment)
	if err != nil {
		log.Error("pipeline: meeting context generation failed", zap.Error(err))
		return eris.Wrap(err, "orchestrator: generate meeting context")
	}

	oneLiner, err := o.gen.OneLiner(ctx, enrichment)
	if err != nil {
		log.Error("pipeline: one-liner generation failed", zap.Error(err))
		return eris.Wrap(err, "orchestrator: generate one-liner")
	}

	// Submission-provided URLs always win over extracted candidates.
	linkedinURL := sub.LinkedInURL
	if linkedinURL == "" {
		linkedinURL = extracted.LinkedIn
	}
	website := sub.CompanyWebsite
	if website == "" {
		website = extracted.Website
	}

	update := leadstore.LeadUpdate{
		AIContext:      leadstore.Str(mc.FormatText()),
		LinkedInData:   leadstore.Str(linkedinData),
		OneLiner:       leadstore.Str(oneLiner),
		LinkedInURL:    leadstore.Str(linkedinURL),
		CompanyWebsite: leadstore.Str(website),
	}
	if err := o.store.UpdateLead(ctx, leadID, update); err != nil {
		log.Error("pipeline: enrichment update failed", zap.Error(err))
		return eris.Wrap(err, "orchestrator: update lead")
	}

	matched := o.engine.Evaluate(sub)
	log.Info("pipeline: rules evaluated", zap.Int("matched", len(matched)))

	for _, rule := range matched {
		log.Info("pipeline: executing rule", zap.String("rule", rule.Name))

		for _, action := range rule.Actions {
			switch action.Type {
			case model.ActionEmail:
				if err := o.runEmailAction(ctx, log, sub, *action.Email, *mc); err != nil {
					return eris.Wrap(err, "orchestrator: email action")
				}
			case model.ActionSchedule:
				o.runScheduleAction(ctx, log, sub, *action.Schedule, *mc)
			}
		}

		if err := o.store.UpdateLead(ctx, leadID, leadstore.LeadUpdate{
			RulesExecuted: leadstore.Str(rule.Name),
			Status:        leadstore.Status(model.LeadStatusContacted),
		}); err != nil {
			log.Error("pipeline: status update failed", zap.String("rule", rule.Name), zap.Error(err))
			return eris.Wrap(err, "orchestrator: update lead status")
		}
	}

	log.Info("pipeline: submission processed")
	return nil
}

// runEmailAction generates and sends the follow-up email. Generation
// failures abort the run; send failures are independent of other
// actions and only logged.
func (o *Orchestrator) runEmailAction(ctx context.Context, log *zap.Logger, sub model.Submission, cfg model.EmailConfig, mc model.MeetingContext) error {
	body, err := o.gen.EmailBody(ctx, cfg.Template, mc, sub)
	if err != nil {
		return eris.Wrap(err, "generate email body")
	}

	if cfg.RequiresReview {
		// Human-in-the-loop gate: the body is generated for review but
		// never sent automatically.
		log.Info("pipeline: email held for review",
			zap.String("template", cfg.Template),
			zap.String("subject", cfg.Subject),
		)
		return nil
	}

	if err := o.mailer.Send(ctx, sub.Email, cfg.Subject, body); err != nil {
		log.Error("pipeline: email send failed", zap.Error(err))
	}
	return nil
}

// runScheduleAction books the meeting when auto-scheduling is enabled;
// otherwise the task is deferred to manual scheduling. Failures are
// logged and never abort the run.
func (o *Orchestrator) runScheduleAction(ctx context.Context, log *zap.Logger, sub model.Submission, cfg model.ScheduleConfig, mc model.MeetingContext) {
	if !cfg.AutoSchedule {
		log.Info("pipeline: manual scheduling required",
			zap.String("meeting_type", cfg.MeetingType),
		)
		return
	}

	meetingID, err := o.scheduler.Schedule(ctx, sub, cfg, mc)
	if err != nil {
		log.Error("pipeline: scheduling failed", zap.Error(err))
		return
	}
	log.Info("pipeline: meeting scheduled", zap.String("meeting_id", meetingID))
}
