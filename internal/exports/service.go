// Package exports writes lead book snapshots as CSV objects to MinIO.
package exports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"devscout_backend/internal/leads/domain"
	"devscout_backend/platform/config"
	"devscout_backend/platform/logger"
)

// Store lists the leads to export.
type Store interface {
	ListAll(ctx context.Context, status domain.LeadStatus) ([]*domain.Lead, error)
}

// Service writes CSV snapshots of the lead book.
type Service struct {
	client *minio.Client
	bucket string
	store  Store
	log    *logger.Logger
}

// New connects to MinIO and ensures the export bucket exists. Returns nil
// when MinIO is not configured; callers treat a nil service as disabled.
func New(ctx context.Context, cfg config.MinIOConfig, store Store, log *logger.Logger) (*Service, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, nil
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	bucket := cfg.GetMinioBucketExports()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio bucket create: %w", err)
		}
	}

	return &Service{client: client, bucket: bucket, store: store, log: log}, nil
}

// ExportLeads writes the full lead book as one CSV object and returns the
// object name.
func (s *Service) ExportLeads(ctx context.Context) (string, error) {
	leads, err := s.store.ListAll(ctx, "")
	if err != nil {
		return "", err
	}

	payload, err := renderCSV(leads)
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("leads-%s.csv", time.Now().UTC().Format("20060102-150405"))
	_, err = s.client.PutObject(ctx, s.bucket, objectName,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "text/csv"},
	)
	if err != nil {
		return "", fmt.Errorf("minio put: %w", err)
	}

	s.log.Info("lead export written", "object", objectName, "leads", len(leads))
	return objectName, nil
}

func renderCSV(leads []*domain.Lead) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"github_username", "repo_name", "repo_url", "email", "stars",
		"language", "topics", "status", "ai_score", "ai_recommendation",
		"email_approved", "email_sent", "created_at",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, lead := range leads {
		score := ""
		if lead.AIScore != nil {
			score = strconv.FormatFloat(*lead.AIScore, 'f', 2, 64)
		}
		recommendation := ""
		if lead.AIRecommendation != nil {
			recommendation = string(*lead.AIRecommendation)
		}
		record := []string{
			lead.GithubUsername,
			lead.RepoName,
			lead.RepoURL,
			lead.Email,
			strconv.Itoa(lead.Stars),
			lead.Language,
			strings.Join(lead.Topics, ";"),
			string(lead.Status),
			score,
			recommendation,
			strconv.FormatBool(lead.EmailApproved),
			strconv.FormatBool(lead.EmailSent),
			lead.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
