// Package repository is the Postgres gateway for leads.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"devscout_backend/internal/leads/domain"
	"devscout_backend/platform/apperr"
	"devscout_backend/platform/logger"
)

// ErrNotFound is returned when a lead does not exist.
var ErrNotFound = errors.New("lead not found")

const uniqueViolation = "23505"

// Repository provides access to lead data in Postgres.
type Repository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// New creates a new lead repository.
func New(pool *pgxpool.Pool, log *logger.Logger) *Repository {
	return &Repository{pool: pool, log: log}
}

const leadColumns = `
	id, github_username, repo_name, repo_url, description, email,
	owner_name, blog, stars, forks, language, topics, last_activity_at,
	status, ai_score, ai_recommendation, ai_analysis,
	email_sent, email_sent_at, email_pending_approval, email_approved,
	dm_script, created_at, updated_at`

func scanLead(row pgx.Row) (*domain.Lead, error) {
	var lead domain.Lead
	var status string
	var recommendation *string
	err := row.Scan(
		&lead.ID, &lead.GithubUsername, &lead.RepoName, &lead.RepoURL,
		&lead.Description, &lead.Email, &lead.OwnerName, &lead.Blog,
		&lead.Stars, &lead.Forks, &lead.Language, &lead.Topics,
		&lead.LastActivityAt, &status, &lead.AIScore, &recommendation,
		&lead.AIAnalysis, &lead.EmailSent, &lead.EmailSentAt,
		&lead.EmailPendingApproval, &lead.EmailApproved, &lead.DMScript,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	lead.Status = domain.LeadStatus(status)
	if recommendation != nil {
		rec := domain.Recommendation(*recommendation)
		lead.AIRecommendation = &rec
	}
	return &lead, nil
}

// Exists reports whether a lead with the given natural key is already stored.
func (r *Repository) Exists(ctx context.Context, githubUsername, repoName string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM leads WHERE github_username = $1 AND repo_name = $2)`,
		githubUsername, repoName,
	).Scan(&exists)
	if err != nil {
		r.log.DatabaseError("lead exists check", err)
		return false, err
	}
	return exists, nil
}

// Insert stores a new lead. A duplicate (github_username, repo_name) pair
// yields an apperr conflict so the pipeline can count it as a dedup skip.
func (r *Repository) Insert(ctx context.Context, lead *domain.Lead) error {
	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	if lead.Status == "" {
		lead.Status = domain.StatusNew
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO leads (
			id, github_username, repo_name, repo_url, description, email,
			owner_name, blog, stars, forks, language, topics, last_activity_at,
			status, dm_script
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		lead.ID, lead.GithubUsername, lead.RepoName, lead.RepoURL,
		lead.Description, lead.Email, lead.OwnerName, lead.Blog,
		lead.Stars, lead.Forks, lead.Language, lead.Topics,
		lead.LastActivityAt, string(lead.Status), lead.DMScript,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperr.Conflict("lead already exists").WithOp("leads.Insert")
		}
		r.log.DatabaseError("lead insert", err)
		return err
	}
	return nil
}

// GetByID fetches a single lead.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.log.DatabaseError("lead get by id", err)
		return nil, err
	}
	return lead, nil
}

// UpdateQualification writes the scoring verdict. Re-scoring a lead simply
// overwrites the previous verdict.
func (r *Repository) UpdateQualification(ctx context.Context, id uuid.UUID, score float64, recommendation domain.Recommendation, analysis string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET ai_score = $2, ai_recommendation = $3, ai_analysis = $4, updated_at = now()
		WHERE id = $1`,
		id, score, string(recommendation), analysis,
	)
	if err != nil {
		r.log.DatabaseError("lead update qualification", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus moves a lead to a new funnel status. Any status can be set;
// callers own the transition rules.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.LeadStatus) error {
	if !domain.ValidStatus(status) {
		return apperr.Validation("unknown lead status: " + string(status))
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE leads SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		r.log.DatabaseError("lead update status", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateApproval persists the review flags.
func (r *Repository) UpdateApproval(ctx context.Context, id uuid.UUID, pending, approved bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET email_pending_approval = $2, email_approved = $3, updated_at = now()
		WHERE id = $1`,
		id, pending, approved,
	)
	if err != nil {
		r.log.DatabaseError("lead update approval", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkSent records a completed send and moves the lead to contacted.
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET email_sent = TRUE, email_sent_at = $2, status = $3, updated_at = now()
		WHERE id = $1`,
		id, sentAt, string(domain.StatusContacted),
	)
	if err != nil {
		r.log.DatabaseError("lead mark sent", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUnanalyzed returns leads that have not been scored yet, oldest first.
func (r *Repository) ListUnanalyzed(ctx context.Context, limit int) ([]*domain.Lead, error) {
	return r.list(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE ai_score IS NULL ORDER BY created_at ASC LIMIT $1`,
		limit)
}

// ListSendable returns leads the outreach gate would currently let through.
func (r *Repository) ListSendable(ctx context.Context, limit int) ([]*domain.Lead, error) {
	return r.list(ctx, `
		SELECT `+leadColumns+` FROM leads
		WHERE email_approved = TRUE AND email_sent = FALSE AND status = $1
		ORDER BY created_at ASC LIMIT $2`,
		string(domain.StatusNew), limit)
}

// ListContacted returns contacted leads that have an email on record, for
// matching inbound replies against.
func (r *Repository) ListContacted(ctx context.Context) ([]*domain.Lead, error) {
	return r.list(ctx, `
		SELECT `+leadColumns+` FROM leads
		WHERE status = $1 AND email <> ''
		ORDER BY email_sent_at DESC NULLS LAST`,
		string(domain.StatusContacted))
}

// ListAll returns every lead, newest first, optionally filtered by status.
func (r *Repository) ListAll(ctx context.Context, status domain.LeadStatus) ([]*domain.Lead, error) {
	if status == "" {
		return r.list(ctx,
			`SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC`)
	}
	if !domain.ValidStatus(status) {
		return nil, apperr.Validation("unknown lead status: " + string(status))
	}
	return r.list(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE status = $1 ORDER BY created_at DESC`,
		string(status))
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*domain.Lead, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.log.DatabaseError("lead list", err)
		return nil, err
	}
	defer rows.Close()

	var leads []*domain.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}
