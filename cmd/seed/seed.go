package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"homeservices/internal/catalog"
	"homeservices/internal/expert"

	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Services []seedService `yaml:"services"`
	Experts  []seedExpert  `yaml:"experts"`
}

type seedExpert struct {
	Slug     string `yaml:"slug"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Photo    string `yaml:"photo"`
}

// seedData is a checked seed file ready to load.
type seedData struct {
	Services []catalog.ServiceRecord
	Experts  []expert.Expert
}

type seedService struct {
	ExternalID string       `yaml:"external_id"`
	Title      string       `yaml:"title"`
	Category   string       `yaml:"category"`
	Price      float64      `yaml:"price"`
	Discount   float64      `yaml:"discount"`
	Unit       string       `yaml:"unit"`
	Features   seedFeatures `yaml:"features"`
}

// seedFeatures accepts a YAML list or one comma separated string.
type seedFeatures []string

func (f *seedFeatures) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		out := make(seedFeatures, 0, len(list))
		for _, item := range list {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		*f = out
		return nil
	case yaml.ScalarNode:
		*f = seedFeatures(catalog.ParseFeatures(value.Value))
		return nil
	default:
		return fmt.Errorf("line %d: features must be a list or a string", value.Line)
	}
}

// loadSeedFile reads and checks a seed catalog.
func loadSeedFile(path string) (seedData, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return seedData{}, err
	}
	return parseSeed(b)
}

func parseSeed(b []byte) (seedData, error) {
	var f seedFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return seedData{}, fmt.Errorf("parse seed file: %w", err)
	}

	var errs []error
	seen := make(map[string]bool, len(f.Services))
	records := make([]catalog.ServiceRecord, 0, len(f.Services))
	for i, s := range f.Services {
		id := strings.TrimSpace(s.ExternalID)
		switch {
		case id == "":
			errs = append(errs, fmt.Errorf("services[%d]: external_id is required", i))
			continue
		case seen[id]:
			errs = append(errs, fmt.Errorf("services[%d]: duplicate external_id %q", i, id))
			continue
		case strings.TrimSpace(s.Title) == "":
			errs = append(errs, fmt.Errorf("services[%d]: title is required", i))
			continue
		case s.Price < 0 || s.Discount < 0 || s.Discount > 100:
			errs = append(errs, fmt.Errorf("services[%d]: price or discount out of range", i))
			continue
		}
		seen[id] = true

		features := catalog.FeatureList(s.Features)
		if features == nil {
			features = catalog.FeatureList{}
		}
		records = append(records, catalog.ServiceRecord{
			ExternalID: id,
			Title:      strings.TrimSpace(s.Title),
			Category:   strings.TrimSpace(s.Category),
			Price:      s.Price,
			Discount:   s.Discount,
			Unit:       strings.TrimSpace(s.Unit),
			Features:   features,
		})
	}

	slugs := make(map[string]bool, len(f.Experts))
	experts := make([]expert.Expert, 0, len(f.Experts))
	for i, e := range f.Experts {
		slug := strings.TrimSpace(e.Slug)
		switch {
		case slug == "":
			errs = append(errs, fmt.Errorf("experts[%d]: slug is required", i))
			continue
		case slugs[slug]:
			errs = append(errs, fmt.Errorf("experts[%d]: duplicate slug %q", i, slug))
			continue
		case strings.TrimSpace(e.Name) == "":
			errs = append(errs, fmt.Errorf("experts[%d]: name is required", i))
			continue
		}
		slugs[slug] = true
		experts = append(experts, expert.Expert{
			Slug:     slug,
			Name:     strings.TrimSpace(e.Name),
			Category: strings.TrimSpace(e.Category),
			PhotoURL: strings.TrimSpace(e.Photo),
		})
	}

	if err := errors.Join(errs...); err != nil {
		return seedData{}, err
	}
	return seedData{Services: records, Experts: experts}, nil
}
