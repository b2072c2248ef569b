package expert

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the experts, optionally narrowed to one category (case-insensitive).
// Blank categories are reported as DefaultCategory.
func (s *Service) List(ctx context.Context, category string) ([]Expert, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	category = strings.TrimSpace(category)
	out := make([]Expert, 0, len(all))
	for _, e := range all {
		e.Category = categoryOf(e.Category)
		if category != "" && !strings.EqualFold(e.Category, category) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Upsert inserts or refreshes an expert keyed by slug.
func (s *Service) Upsert(ctx context.Context, e Expert) (bool, error) {
	e.Slug = strings.TrimSpace(e.Slug)
	e.Name = strings.TrimSpace(e.Name)
	if e.Slug == "" || e.Name == "" {
		return false, fmt.Errorf("upsert expert %q: slug and name are required", e.Slug)
	}
	e.Category = categoryOf(e.Category)
	e.PhotoURL = strings.TrimSpace(e.PhotoURL)
	return s.repo.UpsertBySlug(ctx, &e)
}
