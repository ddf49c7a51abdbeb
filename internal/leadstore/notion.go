package leadstore

import (
	"context"
	"sync"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-intake/internal/model"
	"github.com/sells-group/lead-intake/internal/resilience"
	"github.com/sells-group/lead-intake/pkg/notion"
)

// NotionStore implements Store on top of a Notion database, one page per
// lead. The database is located by title under the configured parent
// page and created with the full lead schema when missing.
type NotionStore struct {
	client     notion.Client
	parentPage string
	tableName  string
	retry      resilience.RetryConfig

	mu   sync.Mutex
	dbID string
}

// NewNotionStore creates a NotionStore for the given table name.
func NewNotionStore(client notion.Client, parentPage, tableName string) *NotionStore {
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("notion", "lead store")
	return &NotionStore{
		client:     client,
		parentPage: parentPage,
		tableName:  tableName,
		retry:      retry,
	}
}

// EnsureDatabase finds or creates the lead database. The resolved
// database ID is cached for the life of the store.
func (s *NotionStore) EnsureDatabase(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dbID != "" {
		return nil
	}

	db, err := notion.FindDatabaseByTitle(ctx, s.client, s.tableName)
	if err != nil {
		return eris.Wrap(err, "leadstore: ensure database")
	}
	if db != nil {
		s.dbID = string(db.ID)
		zap.L().Debug("lead database exists", zap.String("db_id", s.dbID))
		return nil
	}

	zap.L().Info("creating lead database", zap.String("table", s.tableName))
	created, err := resilience.DoVal(ctx, s.retry, func(ctx context.Context) (*notionapi.Database, error) {
		return s.client.CreateDatabase(ctx, &notionapi.DatabaseCreateRequest{
			Parent: notionapi.Parent{
				Type:   notionapi.ParentTypePageID,
				PageID: notionapi.PageID(s.parentPage),
			},
			Title: []notionapi.RichText{
				{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: s.tableName}},
			},
			Properties: leadSchema(),
		})
	})
	if err != nil {
		return eris.Wrap(err, "leadstore: create database")
	}

	s.dbID = string(created.ID)
	return nil
}

// CreateLead creates a page for the submission with Status=New.
func (s *NotionStore) CreateLead(ctx context.Context, sub model.Submission) (string, error) {
	s.mu.Lock()
	dbID := s.dbID
	s.mu.Unlock()
	if dbID == "" {
		return "", eris.New("leadstore: database not ensured")
	}

	page, err := resilience.DoVal(ctx, s.retry, func(ctx context.Context) (*notionapi.Page, error) {
		return s.client.CreatePage(ctx, &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(dbID),
			},
			Properties: submissionProperties(sub),
		})
	})
	if err != nil {
		return "", eris.Wrap(err, "leadstore: create lead")
	}

	return string(page.ID), nil
}

// UpdateLead applies a partial update to the lead page.
func (s *NotionStore) UpdateLead(ctx context.Context, leadID string, update LeadUpdate) error {
	props := updateProperties(update)
	if len(props) == 0 {
		return nil
	}

	err := resilience.Do(ctx, s.retry, func(ctx context.Context) error {
		_, err := s.client.UpdatePage(ctx, leadID, &notionapi.PageUpdateRequest{
			Properties: props,
		})
		return err
	})
	if err != nil {
		return eris.Wrap(err, "leadstore: update lead")
	}
	return nil
}

// leadSchema defines the lead database columns, mirroring the intake
// form fields plus the mutable pipeline fields.
func leadSchema() notionapi.PropertyConfigs {
	stageOptions := make([]notionapi.Option, 0, len(model.Stages))
	for _, stage := range model.Stages {
		stageOptions = append(stageOptions, notionapi.Option{Name: string(stage)})
	}

	return notionapi.PropertyConfigs{
		"Company":         notionapi.TitlePropertyConfig{Type: notionapi.PropertyConfigTypeTitle},
		"First Name":      notionapi.RichTextPropertyConfig{Type: notionapi.PropertyConfigTypeRichText},
		"Last Name":       notionapi.RichTextPropertyConfig{Type: notionapi.PropertyConfigTypeRichText},
		"Email":           notionapi.EmailPropertyConfig{Type: notionapi.PropertyConfigTypeEmail},
		"Position":        notionapi.RichTextPropertyConfig{Type: notionapi.PropertyConfigTypeRichText},
		"LinkedIn URL":    notionapi.URLPropertyConfig{Type: notionapi.PropertyConfigTypeURL},
		"Company Website": notionapi.URLPropertyConfig{Type: notionapi.PropertyConfigTypeURL},
		"Message":         notionapi.RichTextPropertyConfig{Type: notionapi.PropertyConfigTypeRichText},
		"Funding Stage": notionapi.SelectPropertyConfig{
			Type:   notionapi.PropertyConfigTypeSelect,
			Select: notionapi.Select{Options: stageOptions},
		},
		"Funding Amount": notionapi.NumberPropertyConfig{
			Type:   notionapi.PropertyConfigTypeNumber,
			Number: notionapi.NumberFormat{Format: notionapi.FormatDollar},
		},
		"Industry":     notionapi.RichTextPropertyConfig{Type: notionapi.PropertyConfigTypeRichText},
		"Submitted At": notionapi.DatePropertyConfig{Type: notionapi.PropertyConfigTypeDate},
		"Status": notionapi.SelectPropertyConfig{
			Type: notionapi.PropertyConfigTypeSelect,
			Select: notionapi.Select{Options: []notionapi.Option{
				{Name: string(model.LeadStatusNew), Color: notionapi.ColorBlue},
				{Name: string(model.LeadStatusContacted), Color: notionapi.ColorGreen},
				{Name: string(model.LeadStatusClosed), Color: notionapi.ColorRed},
			}},
		},
		"AI Context":     notionapi.RichTextPropertyConfig{Type: notionapi.PropertyConfigTypeRichText},
		"LinkedIn Data":  notionapi.RichTextPropertyConfig{Type: notionapi.PropertyConfigTypeRichText},
		"One Liner":      notionapi.RichTextPropertyConfig{Type: notionapi.PropertyConfigTypeRichText},
		"Rules Executed": notionapi.RichTextPropertyConfig{Type: notionapi.PropertyConfigTypeRichText},
	}
}

// submissionProperties maps a submission to Notion page properties for
// record creation.
func submissionProperties(sub model.Submission) notionapi.Properties {
	amount := 0
	if sub.FundingAmount != nil {
		amount = *sub.FundingAmount
	}

	submittedAt := notionapi.Date(sub.SubmittedAt)

	props := notionapi.Properties{
		"Company":    titleProp(sub.Company),
		"First Name": richTextProp(sub.FirstName),
		"Last Name":  richTextProp(sub.LastName),
		"Email": notionapi.EmailProperty{
			Type:  notionapi.PropertyTypeEmail,
			Email: sub.Email,
		},
		"Position": richTextProp(sub.Position),
		"Message":  richTextProp(sub.Message),
		"Funding Stage": notionapi.SelectProperty{
			Type:   notionapi.PropertyTypeSelect,
			Select: notionapi.Option{Name: string(sub.FundingStage)},
		},
		"Funding Amount": notionapi.NumberProperty{
			Type:   notionapi.PropertyTypeNumber,
			Number: float64(amount),
		},
		"Industry": richTextProp(sub.Industry),
		"Submitted At": notionapi.DateProperty{
			Type: notionapi.PropertyTypeDate,
			Date: &notionapi.DateObject{Start: &submittedAt},
		},
		"Status": notionapi.SelectProperty{
			Type:   notionapi.PropertyTypeSelect,
			Select: notionapi.Option{Name: string(model.LeadStatusNew)},
		},
	}

	if sub.LinkedInURL != "" {
		props["LinkedIn URL"] = urlProp(sub.LinkedInURL)
	}
	if sub.CompanyWebsite != "" {
		props["Company Website"] = urlProp(sub.CompanyWebsite)
	}

	return props
}

// updateProperties maps the set fields of a LeadUpdate to Notion page
// properties.
func updateProperties(update LeadUpdate) notionapi.Properties {
	props := make(notionapi.Properties)

	if update.AIContext != nil {
		props["AI Context"] = richTextProp(*update.AIContext)
	}
	if update.LinkedInData != nil {
		props["LinkedIn Data"] = richTextProp(*update.LinkedInData)
	}
	if update.OneLiner != nil {
		props["One Liner"] = richTextProp(*update.OneLiner)
	}
	if update.LinkedInURL != nil {
		props["LinkedIn URL"] = urlProp(*update.LinkedInURL)
	}
	if update.CompanyWebsite != nil {
		props["Company Website"] = urlProp(*update.CompanyWebsite)
	}
	if update.RulesExecuted != nil {
		props["Rules Executed"] = richTextProp(*update.RulesExecuted)
	}
	if update.Status != nil {
		props["Status"] = notionapi.SelectProperty{
			Type:   notionapi.PropertyTypeSelect,
			Select: notionapi.Option{Name: string(*update.Status)},
		}
	}

	return props
}

func titleProp(v string) notionapi.TitleProperty {
	return notionapi.TitleProperty{
		Type: notionapi.PropertyTypeTitle,
		Title: []notionapi.RichText{
			{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: v}},
		},
	}
}

func richTextProp(v string) notionapi.RichTextProperty {
	return notionapi.RichTextProperty{
		Type: notionapi.PropertyTypeRichText,
		RichText: []notionapi.RichText{
			{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: v}},
		},
	}
}

func urlProp(v string) notionapi.URLProperty {
	return notionapi.URLProperty{
		Type: notionapi.PropertyTypeURL,
		URL:  v,
	}
}
