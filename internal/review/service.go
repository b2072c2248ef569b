package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"homeservices/internal/user"
)

// ErrUnknownAuthor means the posting account no longer exists.
var ErrUnknownAuthor = errors.New("review author not found")

type Service struct {
	repo    Repository
	authors AuthorLookup
}

func NewService(repo Repository, authors AuthorLookup) *Service {
	return &Service{repo: repo, authors: authors}
}

// Input is a posted review. Name and PhotoURL default to the author's profile.
type Input struct {
	Name     string `json:"name" validate:"omitempty,max=100"`
	PhotoURL string `json:"photo_url" validate:"omitempty,url,max=500"`
	Rating   int    `json:"rating" validate:"gte=1,lte=5"`
	Feedback string `json:"feedback" validate:"required,max=1000"`
}

// Page is one slice of the review feed.
type Page struct {
	Reviews    []Review
	NextCursor string
}

// List returns the newest reviews first, starting after cursor.
func (s *Service) List(ctx context.Context, cursor string, limit int) (Page, error) {
	after, err := DecodeCursor(cursor)
	if err != nil {
		return Page{}, err
	}
	limit = ClampLimit(limit)

	// one extra row tells whether another page exists
	reviews, err := s.repo.ListRecent(ctx, after, limit+1)
	if err != nil {
		return Page{}, err
	}
	page := Page{Reviews: reviews}
	if len(reviews) > limit {
		page.Reviews = reviews[:limit]
		last := page.Reviews[limit-1]
		page.NextCursor = EncodeCursor(Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	if page.Reviews == nil {
		page.Reviews = []Review{}
	}
	return page, nil
}

func (s *Service) Create(ctx context.Context, userID string, in Input) (Review, error) {
	r := &Review{
		UserID:   userID,
		Name:     strings.TrimSpace(in.Name),
		PhotoURL: strings.TrimSpace(in.PhotoURL),
		Rating:   in.Rating,
		Feedback: strings.TrimSpace(in.Feedback),
	}
	if r.Name == "" || r.PhotoURL == "" {
		author, err := s.authors.GetByID(ctx, userID)
		switch {
		case errors.Is(err, user.ErrNotFound):
			return Review{}, ErrUnknownAuthor
		case err != nil:
			return Review{}, fmt.Errorf("lookup author: %w", err)
		}
		if r.Name == "" {
			r.Name = author.DisplayName()
		}
		if r.PhotoURL == "" {
			r.PhotoURL = author.PhotoURL
		}
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return Review{}, err
	}
	return *r, nil
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	counts, err := s.repo.CountByRating(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(counts), nil
}
