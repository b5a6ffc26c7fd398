// Package acquisition runs the lead intake pipeline: paginate the repository
// search, filter candidates, dedup, enrich with owner details, and store.
package acquisition

import (
	"context"
	"fmt"
	"time"

	"devscout_backend/internal/events"
	"devscout_backend/internal/github"
	"devscout_backend/internal/leads/domain"
	"devscout_backend/platform/apperr"
	"devscout_backend/platform/logger"
	"devscout_backend/platform/pacing"
)

// Source provides pages of repository candidates and owner profiles.
type Source interface {
	Search(ctx context.Context, page int) ([]github.RepoSummary, error)
	FetchOwnerDetail(ctx context.Context, username string) (*github.OwnerDetail, error)
}

// Store persists leads.
type Store interface {
	Exists(ctx context.Context, githubUsername, repoName string) (bool, error)
	Insert(ctx context.Context, lead *domain.Lead) error
}

// Result summarizes one pipeline run. On cancellation the counters reflect
// the work completed up to that point.
type Result struct {
	PagesFetched int      `json:"pages_fetched"`
	LeadsFound   int      `json:"leads_found"`
	LeadsAdded   int      `json:"leads_added"`
	Errors       []string `json:"errors"`
}

// Service orchestrates the acquisition pipeline.
type Service struct {
	source      Source
	store       Store
	eligibility *domain.Eligibility
	seen        *SeenCache
	itemPacer   pacing.Pacer
	pagePacer   pacing.Pacer
	bus         events.Bus
	log         *logger.Logger
	now         func() time.Time
}

// New creates the acquisition service. seen may be nil when no Redis cache
// is configured; dedup then relies on the store alone.
func New(source Source, store Store, eligibility *domain.Eligibility, seen *SeenCache,
	itemPacer, pagePacer pacing.Pacer, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		source:      source,
		store:       store,
		eligibility: eligibility,
		seen:        seen,
		itemPacer:   itemPacer,
		pagePacer:   pagePacer,
		bus:         bus,
		log:         log,
		now:         time.Now,
	}
}

// Run walks pageCount pages starting at startPage. An empty page ends the
// run early since the result set is exhausted. Item failures are recorded
// and skipped, and so are page fetch failures once at least one page came
// back; the run aborts only when the source fails before any page was
// fetched or the context is cancelled, returning the partial result.
// LeadsFound counts every repo the search returned, eligible or not.
func (s *Service) Run(ctx context.Context, startPage, pageCount int) (*Result, error) {
	if startPage < 1 {
		return nil, apperr.Validation("start page must be at least 1")
	}
	if pageCount < 1 {
		return nil, apperr.Validation("page count must be at least 1")
	}

	result := &Result{Errors: []string{}}
	log := s.log.WithContext(ctx)

	for page := startPage; page < startPage+pageCount; page++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if page > startPage {
			if err := s.pagePacer.Wait(ctx); err != nil {
				return result, err
			}
		}

		repos, err := s.source.Search(ctx, page)
		if err != nil {
			if result.PagesFetched == 0 {
				log.Error("search failed before any page was fetched", "page", page, "error", err)
				return result, err
			}
			result.Errors = append(result.Errors,
				fmt.Sprintf("error processing page %d: %v", page, err))
			log.PipelineItemError("acquisition", fmt.Sprintf("page %d", page), err)
			continue
		}
		result.PagesFetched++

		if len(repos) == 0 {
			log.Info("search exhausted", "page", page)
			break
		}

		for _, repo := range repos {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			result.LeadsFound++
			if !s.eligible(repo) {
				continue
			}

			added, err := s.processCandidate(ctx, repo)
			if err != nil {
				if ctx.Err() != nil {
					return result, ctx.Err()
				}
				result.Errors = append(result.Errors,
					fmt.Sprintf("error processing %s: %v", repo.FullName, err))
				log.PipelineItemError("acquisition", repo.FullName, err)
				continue
			}
			if added {
				result.LeadsAdded++
			}

			if err := s.itemPacer.Wait(ctx); err != nil {
				return result, err
			}
		}
	}

	log.Info("acquisition run finished",
		"pages", result.PagesFetched,
		"found", result.LeadsFound,
		"added", result.LeadsAdded,
		"errors", len(result.Errors),
	)
	return result, nil
}

func (s *Service) eligible(repo github.RepoSummary) bool {
	if !s.eligibility.IsValidCandidate(repo.Name, repo.Description, repo.Topics) {
		return false
	}
	return s.eligibility.IsActive(repo.PushedAt, s.now())
}

// processCandidate returns (false, nil) for dedup skips.
func (s *Service) processCandidate(ctx context.Context, repo github.RepoSummary) (bool, error) {
	if s.seen.Seen(ctx, repo.Owner, repo.Name) {
		return false, nil
	}

	exists, err := s.store.Exists(ctx, repo.Owner, repo.Name)
	if err != nil {
		return false, err
	}
	if exists {
		s.seen.Mark(ctx, repo.Owner, repo.Name)
		return false, nil
	}

	detail, err := s.source.FetchOwnerDetail(ctx, repo.Owner)
	if err != nil {
		return false, err
	}

	lead := &domain.Lead{
		GithubUsername: repo.Owner,
		RepoName:       repo.Name,
		RepoURL:        repo.HTMLURL,
		Description:    repo.Description,
		Stars:          repo.Stars,
		Forks:          repo.Forks,
		Language:       repo.Language,
		Topics:         repo.Topics,
		LastActivityAt: repo.PushedAt,
		Status:         domain.StatusNew,
	}
	if detail != nil {
		lead.Email = detail.Email
		lead.OwnerName = detail.Name
		lead.Blog = detail.Blog
	}
	if !lead.HasEmail() {
		script := dmScript(lead)
		lead.DMScript = &script
	}

	if err := s.store.Insert(ctx, lead); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			// raced with a concurrent run, count as dedup
			s.seen.Mark(ctx, repo.Owner, repo.Name)
			return false, nil
		}
		return false, err
	}

	s.seen.Mark(ctx, repo.Owner, repo.Name)
	if s.bus != nil {
		s.bus.Publish(ctx, events.NewLeadCreated(lead.ID, lead.GithubUsername, lead.RepoName))
	}
	return true, nil
}

// dmScript drafts a short direct message for owners without a public email.
func dmScript(lead *domain.Lead) string {
	name := lead.OwnerName
	if name == "" {
		name = lead.GithubUsername
	}
	return fmt.Sprintf(
		"Hi %s! I came across %s and really liked what you built. "+
			"We work with maintainers of automation integrations and I'd love to chat "+
			"about your work on %s. Open to a quick conversation?",
		name, lead.Key(), lead.RepoName,
	)
}
