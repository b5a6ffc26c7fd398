// Package agent runs the AI qualifier behind the scoring engine using the
// ADK framework over Moonshot's Kimi model.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"github.com/google/uuid"

	"devscout_backend/internal/leads/domain"
	"devscout_backend/internal/leads/qualification"
	"devscout_backend/platform/ai/moonshot"
	"devscout_backend/platform/config"
	"devscout_backend/platform/logger"
)

const systemPrompt = `You are a lead qualification analyst for a developer
tooling company. You review GitHub repositories whose owners might be good
outreach targets: maintainers of automation integrations who publish active,
non-trivial work.

Score each repository between 0.0 (not worth contacting) and 1.0 (ideal
lead). Consider activity, stars, whether the project is a real integration
rather than a fork or tutorial, and whether the owner looks reachable.

Respond with ONLY a JSON object, no prose around it:
{"score": 0.0, "recommendation": "approve"|"reject"|"review", "analysis": "two or three sentences"}`

// MalformedVerdict reports model output that did not match the verdict
// contract. It is surfaced verbatim so operators can inspect the raw output.
type MalformedVerdict struct {
	Output string
	Err    error
}

func (e *MalformedVerdict) Error() string {
	return fmt.Sprintf("malformed qualifier verdict: %v", e.Err)
}

func (e *MalformedVerdict) Unwrap() error { return e.Err }

// Qualifier scores leads through an ADK agent. It implements
// qualification.Scorer.
type Qualifier struct {
	agent          agent.Agent
	runner         *runner.Runner
	sessionService session.Service
	appName        string
	log            *logger.Logger
}

// NewQualifier builds the qualifier agent with the Kimi model.
func NewQualifier(cfg config.ScoringConfig, log *logger.Logger) (*Qualifier, error) {
	kimi := moonshot.NewModel(moonshot.Config{
		APIKey:       cfg.GetScoreAPIKey(),
		BaseURL:      cfg.GetScoreAPIURL(),
		Model:        cfg.GetScoreModel(),
		ResponseJSON: true,
	})

	q := &Qualifier{
		appName: "lead_qualifier",
		log:     log,
	}

	adkAgent, err := llmagent.New(llmagent.Config{
		Name:        "LeadQualifier",
		Model:       kimi,
		Description: "Scores GitHub repository owners as outreach leads for a developer tooling company.",
		Instruction: systemPrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ADK agent: %w", err)
	}

	sessionService := session.InMemoryService()

	r, err := runner.New(runner.Config{
		AppName:        q.appName,
		Agent:          adkAgent,
		SessionService: sessionService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ADK runner: %w", err)
	}

	q.agent = adkAgent
	q.runner = r
	q.sessionService = sessionService
	return q, nil
}

// Score runs one qualification pass for a lead. Each call gets its own
// short-lived session; the verdicts are independent.
func (q *Qualifier) Score(ctx context.Context, lead *domain.Lead) (*qualification.ScoreResult, error) {
	userID := "qualifier-" + lead.ID.String()
	sessionID := uuid.New().String()

	_, err := q.sessionService.Create(ctx, &session.CreateRequest{
		AppName:   q.appName,
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	defer func() {
		deleteReq := &session.DeleteRequest{
			AppName:   q.appName,
			UserID:    userID,
			SessionID: sessionID,
		}
		if deleteErr := q.sessionService.Delete(ctx, deleteReq); deleteErr != nil {
			q.log.Warn("failed to delete qualifier session", "session_id", sessionID, "error", deleteErr)
		}
	}()

	userMessage := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: buildLeadPrompt(lead)},
		},
	}

	output, err := q.run(ctx, userID, sessionID, userMessage)
	if err != nil {
		return nil, err
	}

	return parseVerdict(output)
}

func (q *Qualifier) run(ctx context.Context, userID, sessionID string, userMessage *genai.Content) (string, error) {
	var output string
	runConfig := agent.RunConfig{
		StreamingMode: agent.StreamingModeNone,
	}

	for event, err := range q.runner.Run(ctx, userID, sessionID, userMessage, runConfig) {
		if err != nil {
			return "", fmt.Errorf("qualifier run failed: %w", err)
		}
		if event.Content != nil {
			for _, part := range event.Content.Parts {
				output += part.Text
			}
		}
	}

	return output, nil
}

func buildLeadPrompt(lead *domain.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Repository: %s\n", lead.Key())
	fmt.Fprintf(&b, "URL: %s\n", lead.RepoURL)
	if lead.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", lead.Description)
	}
	fmt.Fprintf(&b, "Stars: %d, Forks: %d\n", lead.Stars, lead.Forks)
	if lead.Language != "" {
		fmt.Fprintf(&b, "Language: %s\n", lead.Language)
	}
	if len(lead.Topics) > 0 {
		fmt.Fprintf(&b, "Topics: %s\n", strings.Join(lead.Topics, ", "))
	}
	if lead.LastActivityAt != nil {
		fmt.Fprintf(&b, "Last push: %s\n", lead.LastActivityAt.Format("2006-01-02"))
	}
	if lead.HasEmail() {
		b.WriteString("Owner has a public email.\n")
	} else {
		b.WriteString("Owner has no public email.\n")
	}
	return b.String()
}

type verdictPayload struct {
	Score          *float64 `json:"score"`
	Recommendation string   `json:"recommendation"`
	Analysis       string   `json:"analysis"`
}

// parseVerdict decodes the model's JSON verdict. Code fences around the
// object are tolerated; anything else malformed is rejected.
func parseVerdict(output string) (*qualification.ScoreResult, error) {
	cleaned := strings.TrimSpace(output)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var payload verdictPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, &MalformedVerdict{Output: output, Err: err}
	}
	if payload.Score == nil {
		return nil, &MalformedVerdict{Output: output, Err: fmt.Errorf("missing score")}
	}

	recommendation := domain.Recommendation(payload.Recommendation)
	if !domain.ValidRecommendation(recommendation) {
		return nil, &MalformedVerdict{Output: output, Err: fmt.Errorf("unknown recommendation %q", payload.Recommendation)}
	}

	return &qualification.ScoreResult{
		Score:          *payload.Score,
		Recommendation: recommendation,
		Analysis:       payload.Analysis,
	}, nil
}
