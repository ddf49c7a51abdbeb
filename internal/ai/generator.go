// Package ai generates meeting context and outreach copy from a
// submission plus whatever enrichment text is available.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-intake/internal/model"
	"github.com/sells-group/lead-intake/pkg/anthropic"
)

const systemPrompt = "You are an assistant for an investment team. You prepare concise, professional briefings and correspondence for investor meetings."

// Generator produces structured meeting context and free-text copy via
// the Anthropic API.
type Generator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewGenerator creates a Generator using the given model.
func NewGenerator(client anthropic.Client, model string, maxTokens int64) *Generator {
	if maxTokens <= 0 {
		maxTokens = 800
	}
	return &Generator{client: client, model: model, maxTokens: maxTokens}
}

// MeetingContext generates a structured briefing for an investor meeting
// from the submission and optional LinkedIn/company enrichment text.
func (g *Generator) MeetingContext(ctx context.Context, sub model.Submission, linkedinText, companyText string) (*model.MeetingContext, error) {
	var b strings.Builder
	b.WriteString("Generate a concise meeting context for an investor meeting with the following information:\n\n")
	b.WriteString("Personal Information:\n")
	fmt.Fprintf(&b, "- Name: %s\n", sub.FullName())
	fmt.Fprintf(&b, "- Position: %s\n", sub.Position)
	fmt.Fprintf(&b, "- Company: %s\n", sub.Company)
	fmt.Fprintf(&b, "- Industry: %s\n", sub.Industry)
	fmt.Fprintf(&b, "- Funding Stage: %s\n", sub.FundingStage)
	fmt.Fprintf(&b, "- Message: %s\n", sub.Message)

	if linkedinText != "" {
		b.WriteString("\nLinkedIn Profile Data:\n" + linkedinText + "\n")
	}
	if companyText != "" {
		b.WriteString("\nCompany Website Data:\n" + companyText + "\n")
	}

	b.WriteString("\nPlease provide:\n")
	b.WriteString("1. A brief personal background summary\n")
	b.WriteString("2. Company information and context\n")
	b.WriteString("3. Meeting purpose and objectives\n")
	b.WriteString("4. Key insights and talking points\n\n")
	b.WriteString("Keep it professional and concise for investor review. Separate each section with a blank line.")

	resp, err := g.generate(ctx, b.String(), 0.7, "meeting_context")
	if err != nil {
		return nil, eris.Wrap(err, "ai: generate meeting context")
	}

	mc := parseContext(resp)
	return &mc, nil
}

// EmailBody generates a short acknowledgement email for the submitter
// using the action's template id plus the generated context.
func (g *Generator) EmailBody(ctx context.Context, template string, mc model.MeetingContext, sub model.Submission) (string, error) {
	ctxJSON, err := json.MarshalIndent(mc, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "ai: marshal context")
	}
	subJSON, err := json.MarshalIndent(sub, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "ai: marshal submission")
	}

	prompt := fmt.Sprintf(
		"Generate a short and snappy professional response to the person who submitted the form saying we will get in touch soon:\n\n"+
			"Template: %s\n\nContext:\n%s\n\nSubmission Details:\n%s",
		template, ctxJSON, subJSON,
	)

	body, err := g.generate(ctx, prompt, 0.8, "email_body")
	if err != nil {
		return "", eris.Wrap(err, "ai: generate email")
	}
	return body, nil
}

// OneLiner summarizes company enrichment text into a single line stating
// the company's unique proposition. Empty input is allowed.
func (g *Generator) OneLiner(ctx context.Context, companyText string) (string, error) {
	prompt := "Given information regarding this company from their website, give me a one-liner that explains their unique proposition.\n\n" +
		"Website information:\n" + companyText

	line, err := g.generate(ctx, prompt, 0.8, "one_liner")
	if err != nil {
		return "", eris.Wrap(err, "ai: generate one-liner")
	}
	return line, nil
}

func (g *Generator) generate(ctx context.Context, prompt string, temperature float64, phase string) (string, error) {
	resp, err := g.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       g.model,
		MaxTokens:   g.maxTokens,
		System:      systemPrompt,
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
		Temperature: &temperature,
	})
	if err != nil {
		return "", err
	}
	resp.Usage.Log(g.model, phase)
	return strings.TrimSpace(resp.Text()), nil
}

// parseContext splits generated text on blank lines: first three
// paragraphs become background, company info, and purpose; the rest are
// key insights.
func parseContext(content string) model.MeetingContext {
	raw := strings.Split(content, "\n\n")

	sections := make([]string, 0, len(raw))
	for _, s := range raw {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			sections = append(sections, trimmed)
		}
	}

	var mc model.MeetingContext
	if len(sections) > 0 {
		mc.PersonalBackground = sections[0]
	}
	if len(sections) > 1 {
		mc.CompanyInfo = sections[1]
	}
	if len(sections) > 2 {
		mc.MeetingPurpose = sections[2]
	}
	if len(sections) > 3 {
		mc.KeyInsights = sections[3:]
	}
	return mc
}
