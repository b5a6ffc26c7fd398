// Package leads provides the lead pipeline bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"devscout_backend/internal/email"
	"devscout_backend/internal/events"
	"devscout_backend/internal/exports"
	"devscout_backend/internal/github"
	apphttp "devscout_backend/internal/http"
	"devscout_backend/internal/leads/acquisition"
	"devscout_backend/internal/leads/agent"
	"devscout_backend/internal/leads/domain"
	"devscout_backend/internal/leads/handler"
	"devscout_backend/internal/leads/outreach"
	"devscout_backend/internal/leads/qualification"
	"devscout_backend/internal/leads/repository"
	"devscout_backend/platform/config"
	"devscout_backend/platform/logger"
	"devscout_backend/platform/pacing"
	"devscout_backend/platform/validator"
)

const seenCacheTTL = 30 * 24 * time.Hour

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler       *handler.Handler
	repo          *repository.Repository
	acquisition   *acquisition.Service
	qualification *qualification.Service
	outreach      *outreach.Service
	exports       *exports.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
// redisClient may be nil when no Redis is configured.
func NewModule(ctx context.Context, pool *pgxpool.Pool, redisClient *redis.Client,
	eventBus events.Bus, val *validator.Validator, cfg *config.Config, log *logger.Logger) (*Module, error) {
	repo := repository.New(pool, log)

	source := github.New(cfg, log)
	eligibility := domain.NewEligibility(cfg)
	seen := acquisition.NewSeenCache(redisClient, seenCacheTTL, log)

	acqSvc := acquisition.New(source, repo, eligibility, seen,
		pacing.NewFixedDelay(cfg.GetItemPace()),
		pacing.NewFixedDelay(cfg.GetPagePace()),
		eventBus, log)

	sender, err := email.NewSender(cfg)
	if err != nil {
		return nil, err
	}

	outSvc := outreach.New(repo, sender, outreach.NewTokenSigner(cfg),
		pacing.NewFixedDelay(cfg.GetSendPace()), eventBus, cfg, log)

	// Qualification is optional; without an API key the pipeline still
	// acquires and the operator reviews leads by hand.
	var qualSvc *qualification.Service
	if cfg.IsScoringEnabled() {
		qualifier, err := agent.NewQualifier(cfg, log)
		if err != nil {
			return nil, err
		}
		qualSvc = qualification.New(qualifier, repo, cfg, eventBus, log)
	}

	expSvc, err := exports.New(ctx, cfg, repo, log)
	if err != nil {
		return nil, err
	}

	// Auto-approved leads go straight into the operator review queue.
	eventBus.Subscribe(events.LeadQualified{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadQualified)
		if !ok {
			return nil
		}
		if e.Recommendation != string(domain.RecommendApprove) {
			return nil
		}

		go func() {
			if err := outSvc.RequestApproval(context.Background(), e.LeadID); err != nil {
				log.Error("approval request failed", "error", err, "leadId", e.LeadID)
			}
		}()

		return nil
	}))

	h := handler.New(repo, acqSvc, qualSvc, outSvc, expSvc, val,
		cfg.GetAcquireStartPage(), cfg.GetAcquirePageCount())

	return &Module{
		handler:       h,
		repo:          repo,
		acquisition:   acqSvc,
		qualification: qualSvc,
		outreach:      outSvc,
		exports:       expSvc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Repository returns the lead repository for external use.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// AcquisitionService returns the acquisition pipeline for external use.
func (m *Module) AcquisitionService() *acquisition.Service {
	return m.acquisition
}

// QualificationService returns the scoring engine, or nil when scoring is
// not configured.
func (m *Module) QualificationService() *qualification.Service {
	return m.qualification
}

// OutreachService returns the outreach gate for external use.
func (m *Module) OutreachService() *outreach.Service {
	return m.outreach
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	leadsGroup := ctx.V1.Group("/leads")
	m.handler.RegisterRoutes(leadsGroup)
	m.handler.RegisterPublicRoutes(ctx.Public)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
