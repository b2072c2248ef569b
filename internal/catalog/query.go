package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Filter keeps the records whose title contains searchTerm (case-insensitive) and whose
// category equals categoryFilter. An empty filter or AllCategories matches any category.
// Order is preserved and the result is never nil.
func Filter(records []ServiceRecord, searchTerm, categoryFilter string) []ServiceRecord {
	term := strings.ToLower(searchTerm)
	out := make([]ServiceRecord, 0, len(records))
	for _, r := range records {
		if !strings.Contains(strings.ToLower(r.Title), term) {
			continue
		}
		if categoryFilter != "" && categoryFilter != AllCategories && r.Category != categoryFilter {
			continue
		}
		out = append(out, r)
	}
	return out
}

func groupKey(category string) string {
	if strings.TrimSpace(category) == "" {
		return Uncategorized
	}
	return category
}

// GroupByCategory partitions records by category. Groups appear in the order their
// category is first seen and keep the input order of their records.
func GroupByCategory(records []ServiceRecord) []CategoryGroup {
	groups := []CategoryGroup{}
	index := make(map[string]int)
	for _, r := range records {
		key := groupKey(r.Category)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, CategoryGroup{Category: key})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

// DistinctCategories returns AllCategories followed by each non-blank category once, in
// first-seen order.
func DistinctCategories(records []ServiceRecord) []string {
	out := []string{AllCategories}
	seen := map[string]struct{}{AllCategories: {}}
	for _, r := range records {
		if strings.TrimSpace(r.Category) == "" {
			continue
		}
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	return out
}

type SortOrder string

const (
	SortNone      SortOrder = ""
	SortPriceAsc  SortOrder = "asc"
	SortPriceDesc SortOrder = "desc"
)

// ParseSortOrder accepts "asc"/"low" and "desc"/"high"; anything else means no sorting.
func ParseSortOrder(s string) SortOrder {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "low", "price_asc":
		return SortPriceAsc
	case "desc", "high", "price_desc":
		return SortPriceDesc
	default:
		return SortNone
	}
}

// SortByPrice returns a copy of records ordered by price. Ties keep their input order.
func SortByPrice(records []ServiceRecord, order SortOrder) []ServiceRecord {
	out := make([]ServiceRecord, len(records))
	copy(out, records)
	switch order {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out
}

// ParseFeatures splits a comma separated feature string, dropping blank entries.
func ParseFeatures(s string) []string {
	out := []string{}
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// FeatureList decodes from a JSON array or from one comma separated string. Non-string
// scalars are formatted as text; nulls, objects and nested arrays are dropped.
type FeatureList []string

func (f FeatureList) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(f))
}

func (f *FeatureList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*f = FeatureList{}
	case string:
		*f = ParseFeatures(v)
	case []any:
		out := make(FeatureList, 0, len(v))
		for _, item := range v {
			if text, ok := featureText(item); ok {
				out = append(out, text)
			}
		}
		*f = out
	case map[string]any:
		*f = FeatureList{}
	default:
		*f = ParseFeatures(fmt.Sprint(v))
	}
	return nil
}

func featureText(item any) (string, bool) {
	switch v := item.(type) {
	case nil, map[string]any, []any:
		return "", false
	case string:
		v = strings.TrimSpace(v)
		return v, v != ""
	default:
		return fmt.Sprint(v), true
	}
}

// Amount decodes a price-like JSON value. Numbers and numeric strings are accepted;
// anything else, including NaN and infinities, becomes 0.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = 0
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		var s string
		if json.Unmarshal(data, &s) != nil {
			return nil
		}
		n = json.Number(strings.TrimSpace(s))
	}
	v, err := strconv.ParseFloat(string(n), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*a = Amount(v)
	return nil
}
