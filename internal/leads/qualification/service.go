// Package qualification scores stored leads and applies the auto-approval
// thresholds that feed the outreach review queue.
package qualification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"devscout_backend/internal/events"
	"devscout_backend/internal/leads/domain"
	"devscout_backend/platform/config"
	"devscout_backend/platform/logger"
)

// ScoreResult is a raw verdict from a scorer. The recommendation here is
// advisory; the thresholds have the final word.
type ScoreResult struct {
	Score          float64
	Recommendation domain.Recommendation
	Analysis       string
}

// Scorer produces a verdict for one lead.
type Scorer interface {
	Score(ctx context.Context, lead *domain.Lead) (*ScoreResult, error)
}

// Store is the persistence surface the engine needs.
type Store interface {
	ListUnanalyzed(ctx context.Context, limit int) ([]*domain.Lead, error)
	UpdateQualification(ctx context.Context, id uuid.UUID, score float64, recommendation domain.Recommendation, analysis string) error
}

// Result summarizes one scoring batch.
type Result struct {
	AnalyzedCount     int            `json:"analyzed_count"`
	AutoApprovedCount int            `json:"auto_approved_count"`
	Approved          []*domain.Lead `json:"approved"`
	Errors            []string       `json:"errors"`
}

// Service runs the qualification engine.
type Service struct {
	scorer           Scorer
	store            Store
	approveThreshold float64
	rejectThreshold  float64
	bus              events.Bus
	log              *logger.Logger
}

// New creates the qualification service.
func New(scorer Scorer, store Store, cfg config.ScoringConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		scorer:           scorer,
		store:            store,
		approveThreshold: cfg.GetAutoApproveThreshold(),
		rejectThreshold:  cfg.GetAutoRejectThreshold(),
		bus:              bus,
		log:              log,
	}
}

// ScoreBatch scores up to limit unanalyzed leads. Scorer failures are
// recorded per lead and skipped. The returned Approved slice contains only
// leads whose final recommendation is approve.
func (s *Service) ScoreBatch(ctx context.Context, limit int) (*Result, error) {
	leads, err := s.store.ListUnanalyzed(ctx, limit)
	if err != nil {
		return nil, err
	}

	result := &Result{Errors: []string{}}
	log := s.log.WithContext(ctx)

	for _, lead := range leads {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		verdict, err := s.scorer.Score(ctx, lead)
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("error processing %s: %v", lead.Key(), err))
			log.PipelineItemError("qualification", lead.Key(), err)
			continue
		}

		recommendation := s.applyThresholds(verdict)
		if err := s.store.UpdateQualification(ctx, lead.ID, verdict.Score, recommendation, verdict.Analysis); err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("error processing %s: %v", lead.Key(), err))
			log.PipelineItemError("qualification", lead.Key(), err)
			continue
		}

		score := verdict.Score
		lead.AIScore = &score
		rec := recommendation
		lead.AIRecommendation = &rec
		analysis := verdict.Analysis
		lead.AIAnalysis = &analysis

		result.AnalyzedCount++
		if recommendation == domain.RecommendApprove {
			result.AutoApprovedCount++
			result.Approved = append(result.Approved, lead)
		}

		if s.bus != nil {
			s.bus.Publish(ctx, events.NewLeadQualified(lead.ID, verdict.Score, string(recommendation)))
		}
	}

	log.Info("qualification batch finished",
		"analyzed", result.AnalyzedCount,
		"auto_approved", result.AutoApprovedCount,
		"errors", len(result.Errors),
	)
	return result, nil
}

// applyThresholds forces the final recommendation from the score. Scores at
// or above the approve threshold approve, scores at or below the reject
// threshold reject, everything between lands in manual review. Scores are
// taken as reported, even outside [0, 1].
func (s *Service) applyThresholds(verdict *ScoreResult) domain.Recommendation {
	switch {
	case verdict.Score >= s.approveThreshold:
		return domain.RecommendApprove
	case verdict.Score <= s.rejectThreshold:
		return domain.RecommendReject
	default:
		return domain.RecommendReview
	}
}
