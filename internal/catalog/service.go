package catalog

import (
	"context"
	"fmt"
	"strings"

	"homeservices/internal/pricing"
)

type Service struct {
	repo   Repository
	engine *pricing.Engine
}

func NewService(repo Repository, engine *pricing.Engine) *Service {
	return &Service{repo: repo, engine: engine}
}

// BrowseQuery is the raw storefront input: search box, category tab, billing toggle and
// optional price sort.
type BrowseQuery struct {
	Search   string
	Category string
	Period   pricing.Period
	Sort     SortOrder
}

// QuotedRecord is a record with its price for the requested period.
type QuotedRecord struct {
	ServiceRecord
	Quote pricing.Quote `json:"quote"`
}

type QuotedGroup struct {
	Category string         `json:"category"`
	Services []QuotedRecord `json:"services"`
}

// Browse is the grouped, priced storefront view.
type Browse struct {
	Period     pricing.Period `json:"period"`
	Categories []string       `json:"categories"`
	Groups     []QuotedGroup  `json:"groups"`
	Total      int            `json:"total"`
}

// Input is the admin payload for creating or replacing a listing.
type Input struct {
	Title    string      `json:"title" validate:"required,max=200"`
	Category string      `json:"category" validate:"required,max=100"`
	Price    float64     `json:"price" validate:"gte=1"`
	Discount float64     `json:"discount" validate:"gte=0,lte=100"`
	Unit     string      `json:"unit" validate:"omitempty,max=32"`
	Features FeatureList `json:"features" validate:"max=50,dive,max=200"`
}

func (in Input) apply(rec *ServiceRecord) {
	rec.Title = strings.TrimSpace(in.Title)
	rec.Category = strings.TrimSpace(in.Category)
	rec.Price = pricing.Sanitize(in.Price)
	rec.Discount = pricing.ClampDiscount(in.Discount)
	rec.Unit = strings.TrimSpace(in.Unit)
	rec.Features = in.Features
	if rec.Features == nil {
		rec.Features = FeatureList{}
	}
}

// Quote prices one record, honouring its own unit label when it has one.
func (s *Service) Quote(rec ServiceRecord, period pricing.Period) QuotedRecord {
	q := s.engine.Quote(rec.Price, rec.Discount, period)
	if rec.Unit != "" {
		q.Unit = rec.Unit
	}
	return QuotedRecord{ServiceRecord: rec, Quote: q}
}

// Browse loads the catalog snapshot and derives the storefront view from it.
// Categories are computed over the whole snapshot so the tabs do not shrink while
// searching.
func (s *Service) Browse(ctx context.Context, q BrowseQuery) (Browse, error) {
	records, err := s.repo.ListAll(ctx)
	if err != nil {
		return Browse{}, fmt.Errorf("load catalog: %w", err)
	}

	period := pricing.ParsePeriod(string(q.Period))
	matched := Filter(records, q.Search, q.Category)
	if q.Sort != SortNone {
		matched = SortByPrice(matched, q.Sort)
	}

	groups := GroupByCategory(matched)
	out := Browse{
		Period:     period,
		Categories: DistinctCategories(records),
		Groups:     make([]QuotedGroup, 0, len(groups)),
		Total:      len(matched),
	}
	for _, g := range groups {
		qg := QuotedGroup{Category: g.Category, Services: make([]QuotedRecord, 0, len(g.Records))}
		for _, rec := range g.Records {
			qg.Services = append(qg.Services, s.Quote(rec, period))
		}
		out.Groups = append(out.Groups, qg)
	}
	return out, nil
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	records, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return DistinctCategories(records), nil
}

func (s *Service) Get(ctx context.Context, id string, period pricing.Period) (QuotedRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return QuotedRecord{}, err
	}
	return s.Quote(rec, pricing.ParsePeriod(string(period))), nil
}

func (s *Service) Create(ctx context.Context, in Input) (ServiceRecord, error) {
	var rec ServiceRecord
	in.apply(&rec)
	if err := s.repo.Create(ctx, &rec); err != nil {
		return ServiceRecord{}, err
	}
	return rec, nil
}

// Update replaces the editable fields of an existing listing.
func (s *Service) Update(ctx context.Context, id string, in Input) (ServiceRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ServiceRecord{}, err
	}
	in.apply(&rec)
	if err := s.repo.Update(ctx, &rec); err != nil {
		return ServiceRecord{}, err
	}
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Upsert mirrors an upstream record into the store.
func (s *Service) Upsert(ctx context.Context, rec ServiceRecord) (bool, error) {
	if rec.ExternalID == "" {
		return false, fmt.Errorf("upsert %q: external id is required", rec.Title)
	}
	rec.Price = pricing.Sanitize(rec.Price)
	rec.Discount = pricing.ClampDiscount(rec.Discount)
	if rec.Features == nil {
		rec.Features = FeatureList{}
	}
	return s.repo.UpsertByExternalID(ctx, &rec)
}
