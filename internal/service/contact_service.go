package service

import (
	"context"
	"strings"

	"marketing_site/internal/metrics"
	"marketing_site/internal/models"
	"marketing_site/internal/repository"
)

type ContactService struct {
	repo repository.ContactRepo
}

func NewContactService(repo repository.ContactRepo) *ContactService {
	return &ContactService{repo: repo}
}

// Submit persists a validated submission. Blank optional fields are stored as NULL.
func (s *ContactService) Submit(ctx context.Context, in models.NewContactSubmission) (int64, error) {
	in.Company = nilIfBlank(in.Company)
	in.Service = nilIfBlank(in.Service)

	id, err := s.repo.Create(ctx, in)
	if err != nil {
		metrics.ContactSubmissionsTotal.WithLabelValues("error").Inc()
		return 0, err
	}
	metrics.ContactSubmissionsTotal.WithLabelValues("stored").Inc()
	return id, nil
}

func (s *ContactService) ListSubmissions(ctx context.Context) ([]models.ContactSubmission, error) {
	return s.repo.List(ctx)
}

func nilIfBlank(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return v
}
