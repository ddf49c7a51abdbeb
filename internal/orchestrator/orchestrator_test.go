package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-intake/internal/leadstore"
	"github.com/sells-group/lead-intake/internal/model"
	"github.com/sells-group/lead-intake/internal/rules"
	"github.com/sells-group/lead-intake/pkg/searchapi"
)

type mockStore struct {
	ensureErr error
	createErr error
	updateErr error

	ensured bool
	created []model.Submission
	updates []leadstore.LeadUpdate
}

func (m *mockStore) EnsureDatabase(context.Context) error {
	if m.ensureErr != nil {
		return m.ensureErr
	}
	m.ensured = true
	return nil
}

func (m *mockStore) CreateLead(_ context.Context, sub model.Submission) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	m.created = append(m.created, sub)
	return "lead-1", nil
}

func (m *mockStore) UpdateLead(_ context.Context, _ string, update leadstore.LeadUpdate) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates = append(m.updates, update)
	return nil
}

type mockFetcher struct {
	text string
	urls []string
}

func (m *mockFetcher) VisibleText(_ context.Context, url string) string {
	m.urls = append(m.urls, url)
	return m.text
}

type mockSearch struct {
	results []searchapi.Result
	err     error
	queries []string
}

func (m *mockSearch) Search(_ context.Context, query string) ([]searchapi.Result, error) {
	m.queries = append(m.queries, query)
	return m.results, m.err
}

type mockGenerator struct {
	contextErr  error
	oneLinerErr error
	emailErr    error

	contextCalls  []string // companyText passed to MeetingContext
	oneLinerCalls []string
	emailCalls    []string // template ids
}

func (m *mockGenerator) MeetingContext(_ context.Context, _ model.Submission, _, companyText string) (*model.MeetingContext, error) {
	if m.contextErr != nil {
		return nil, m.contextErr
	}
	m.contextCalls = append(m.contextCalls, companyText)
	return &model.MeetingContext{PersonalBackground: "Background."}, nil
}

func (m *mockGenerator) EmailBody(_ context.Context, template string, _ model.MeetingContext, _ model.Submission) (string, error) {
	if m.emailErr != nil {
		return "", m.emailErr
	}
	m.emailCalls = append(m.emailCalls, template)
	return "Generated email body.", nil
}

func (m *mockGenerator) OneLiner(_ context.Context, companyText string) (string, error) {
	if m.oneLinerErr != nil {
		return "", m.oneLinerErr
	}
	m.oneLinerCalls = append(m.oneLinerCalls, companyText)
	return "One liner.", nil
}

type mockMailer struct {
	err  error
	sent []string // subjects
}

func (m *mockMailer) Send(_ context.Context, _, subject, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, subject)
	return nil
}

type mockScheduler struct {
	err       error
	scheduled []model.ScheduleConfig
}

func (m *mockScheduler) Schedule(_ context.Context, _ model.Submission, cfg model.ScheduleConfig, _ model.MeetingContext) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.scheduled = append(m.scheduled, cfg)
	return "event-1", nil
}

type env struct {
	store     *mockStore
	fetcher   *mockFetcher
	search    *mockSearch
	gen       *mockGenerator
	mailer    *mockMailer
	scheduler *mockScheduler
	orch      *Orchestrator
}

func newEnv(t *testing.T, ruleSet ...model.Rule) *env {
	t.Helper()

	engine, err := rules.New(ruleSet...)
	require.NoError(t, err)

	e := &env{
		store:     &mockStore{},
		fetcher:   &mockFetcher{text: "Website text."},
		search:    &mockSearch{},
		gen:       &mockGenerator{},
		mailer:    &mockMailer{},
		scheduler: &mockScheduler{},
	}
	e.orch = New(e.store, e.fetcher, e.search, e.gen, engine, e.mailer, e.scheduler)
	// Single-attempt retry keeps failure tests fast.
	e.orch.searchRetry.MaxAttempts = 1
	return e
}

func intp(n int) *int { return &n }

func qualifiedSubmission() model.Submission {
	return model.Submission{
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Email:         "ada@example.com",
		Company:       "Analytical Engines",
		Position:      "CEO",
		Message:       "We are raising our series A round.",
		FundingStage:  model.StageSeriesA,
		FundingAmount: intp(2_000_000),
		Industry:      "Technology",
	}
}

func TestProcessSubmissionWebsiteBranch(t *testing.T) {
	e := newEnv(t)

	sub := qualifiedSubmission()
	sub.CompanyWebsite = "https://analyticalengines.example.com"

	require.NoError(t, e.orch.ProcessSubmission(context.Background(), sub))

	assert.True(t, e.store.ensured)
	require.Len(t, e.store.created, 1)

	// Website branch excludes the search branch entirely.
	assert.Equal(t, []string{"https://analyticalengines.example.com"}, e.fetcher.urls)
	assert.Empty(t, e.search.queries)

	// Scraped text feeds both generation calls.
	assert.Equal(t, []string{"Website text."}, e.gen.contextCalls)
	assert.Equal(t, []string{"Website text."}, e.gen.oneLinerCalls)

	require.Len(t, e.store.updates, 1)
	update := e.store.updates[0]
	require.NotNil(t, update.CompanyWebsite)
	assert.Equal(t, "https://analyticalengines.example.com", *update.CompanyWebsite)
	require.NotNil(t, update.OneLiner)
	assert.Equal(t, "One liner.", *update.OneLiner)
}

func TestProcessSubmissionSearchBranch(t *testing.T) {
	e := newEnv(t)
	e.search.results = []searchapi.Result{
		{Title: "Ada - LinkedIn", Link: "https://linkedin.com/in/ada", Snippet: "Profile."},
		{Title: "Analytical Engines", Link: "https://analyticalengines.example.com", Snippet: "Company."},
	}

	sub := qualifiedSubmission()
	require.NoError(t, e.orch.ProcessSubmission(context.Background(), sub))

	// No website on the submission: exactly one search with the composed
	// query, no page fetch.
	assert.Equal(t, []string{"Ada Lovelace Analytical Engines"}, e.search.queries)
	assert.Empty(t, e.fetcher.urls)

	require.Len(t, e.store.updates, 1)
	update := e.store.updates[0]
	require.NotNil(t, update.LinkedInURL)
	assert.Equal(t, "https://linkedin.com/in/ada", *update.LinkedInURL)
	require.NotNil(t, update.CompanyWebsite)
	assert.Equal(t, "https://analyticalengines.example.com", *update.CompanyWebsite)

	// Flattened results feed generation.
	assert.Equal(t, []string{"Ada - LinkedIn: Profile.\n\nAnalytical Engines: Company."}, e.gen.contextCalls)
}

func TestProcessSubmissionURLPrecedence(t *testing.T) {
	e := newEnv(t)
	e.search.results = []searchapi.Result{
		{Link: "https://linkedin.com/in/extracted"},
	}

	sub := qualifiedSubmission()
	sub.LinkedInURL = "https://linkedin.com/in/submitted"

	require.NoError(t, e.orch.ProcessSubmission(context.Background(), sub))

	update := e.store.updates[0]
	require.NotNil(t, update.LinkedInURL)
	assert.Equal(t, "https://linkedin.com/in/submitted", *update.LinkedInURL,
		"submission-provided URL wins over extracted")
}

func TestProcessSubmissionSearchFailureDegrades(t *testing.T) {
	e := newEnv(t)
	e.search.err = assert.AnError

	require.NoError(t, e.orch.ProcessSubmission(context.Background(), qualifiedSubmission()))

	// Pipeline continues with empty enrichment text.
	assert.Equal(t, []string{""}, e.gen.contextCalls)
	require.Len(t, e.store.updates, 1)
}

func TestProcessSubmissionStoreFailuresAbort(t *testing.T) {
	e := newEnv(t)
	e.store.ensureErr = assert.AnError
	assert.Error(t, e.orch.ProcessSubmission(context.Background(), qualifiedSubmission()))

	e = newEnv(t)
	e.store.createErr = assert.AnError
	assert.Error(t, e.orch.ProcessSubmission(context.Background(), qualifiedSubmission()))
	assert.Empty(t, e.gen.contextCalls, "generation never runs without a lead record")

	e = newEnv(t)
	e.store.updateErr = assert.AnError
	assert.Error(t, e.orch.ProcessSubmission(context.Background(), qualifiedSubmission()))
}

func TestProcessSubmissionGenerationFailuresAbort(t *testing.T) {
	e := newEnv(t)
	e.gen.contextErr = assert.AnError
	assert.Error(t, e.orch.ProcessSubmission(context.Background(), qualifiedSubmission()))
	assert.Empty(t, e.store.updates)

	e = newEnv(t)
	e.gen.oneLinerErr = assert.AnError
	assert.Error(t, e.orch.ProcessSubmission(context.Background(), qualifiedSubmission()))
	assert.Empty(t, e.store.updates)
}

func TestProcessSubmissionRuleActions(t *testing.T) {
	e := newEnv(t, rules.DefaultRules()...)

	require.NoError(t, e.orch.ProcessSubmission(context.Background(), qualifiedSubmission()))

	// Default rule: email requires review, so the body is generated but
	// never sent; the meeting auto-schedules.
	assert.Equal(t, []string{"high-priority"}, e.gen.emailCalls)
	assert.Empty(t, e.mailer.sent)
	require.Len(t, e.scheduler.scheduled, 1)
	assert.Equal(t, 30, e.scheduler.scheduled[0].DurationMinutes)

	// Second update records the executed rule and moves the lead to
	// Contacted.
	require.Len(t, e.store.updates, 2)
	final := e.store.updates[1]
	require.NotNil(t, final.RulesExecuted)
	assert.Equal(t, "schedule-meeting", *final.RulesExecuted)
	require.NotNil(t, final.Status)
	assert.Equal(t, model.LeadStatusContacted, *final.Status)
}

func TestProcessSubmissionSendsWhenReviewNotRequired(t *testing.T) {
	rule := model.Rule{
		ID:   "auto-email",
		Name: "auto-email",
		Actions: []model.Action{{
			Type: model.ActionEmail,
			Email: &model.EmailConfig{
				Template: "standard",
				Subject:  "Thanks for reaching out",
			},
		}},
		Enabled: true,
	}
	e := newEnv(t, rule)

	require.NoError(t, e.orch.ProcessSubmission(context.Background(), qualifiedSubmission()))
	assert.Equal(t, []string{"Thanks for reaching out"}, e.mailer.sent)
}

func TestProcessSubmissionManualScheduling(t *testing.T) {
	rule := model.Rule{
		ID:   "manual",
		Name: "manual",
		Actions: []model.Action{{
			Type: model.ActionSchedule,
			Schedule: &model.ScheduleConfig{
				DurationMinutes: 45,
				MeetingType:     "intro",
			},
		}},
		Enabled: true,
	}
	e := newEnv(t, rule)

	require.NoError(t, e.orch.ProcessSubmission(context.Background(), qualifiedSubmission()))
	assert.Empty(t, e.scheduler.scheduled, "autoSchedule off defers to manual scheduling")

	// The rule still counts as executed.
	require.Len(t, e.store.updates, 2)
	assert.Equal(t, "manual", *e.store.updates[1].RulesExecuted)
}

func TestProcessSubmissionActionFailuresDoNotAbort(t *testing.T) {
	e := newEnv(t, rules.DefaultRules()...)
	e.mailer.err = assert.AnError
	e.scheduler.err = assert.AnError

	require.NoError(t, e.orch.ProcessSubmission(context.Background(), qualifiedSubmission()))
	require.Len(t, e.store.updates, 2, "status update still runs after failed actions")
}

func TestProcessSubmissionEmailGenerationFailureAborts(t *testing.T) {
	rule := model.Rule{
		ID:   "auto-email",
		Name: "auto-email",
		Actions: []model.Action{{
			Type:  model.ActionEmail,
			Email: &model.EmailConfig{Template: "standard", Subject: "s"},
		}},
		Enabled: true,
	}
	e := newEnv(t, rule)
	e.gen.emailErr = assert.AnError

	assert.Error(t, e.orch.ProcessSubmission(context.Background(), qualifiedSubmission()))
	require.Len(t, e.store.updates, 1, "no status update for the failed rule")
}

func TestProcessSubmissionRerunCreatesSecondRecord(t *testing.T) {
	e := newEnv(t)

	sub := qualifiedSubmission()
	require.NoError(t, e.orch.ProcessSubmission(context.Background(), sub))
	require.NoError(t, e.orch.ProcessSubmission(context.Background(), sub))

	assert.Len(t, e.store.created, 2, "no idempotency across runs")
}
