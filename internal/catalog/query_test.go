package catalog

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(records []ServiceRecord) []string {
	out := []string{}
	for _, r := range records {
		out = append(out, r.Title)
	}
	return out
}

var sample = []ServiceRecord{
	{ID: "1", Title: "Deep Clean", Category: "Cleaning", Price: 1500},
	{ID: "2", Title: "Rewire", Category: "Electrical", Price: 4000},
	{ID: "3", Title: "Sofa Shampoo", Category: "Cleaning", Price: 900},
	{ID: "4", Title: "Wall Repaint", Category: "", Price: 4000},
	{ID: "5", Title: "Pipe Repair", Category: "Plumbing", Price: 700},
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		term     string
		category string
		want     []string
	}{
		{"identity", "", AllCategories, []string{"Deep Clean", "Rewire", "Sofa Shampoo", "Wall Repaint", "Pipe Repair"}},
		{"empty category means all", "", "", []string{"Deep Clean", "Rewire", "Sofa Shampoo", "Wall Repaint", "Pipe Repair"}},
		{"case-insensitive substring", "RE", AllCategories, []string{"Rewire", "Wall Repaint", "Pipe Repair"}},
		{"category exact match", "", "Cleaning", []string{"Deep Clean", "Sofa Shampoo"}},
		{"term and category", "sofa", "Cleaning", []string{"Sofa Shampoo"}},
		{"category is case-sensitive", "", "cleaning", []string{}},
		{"no match", "roof", AllCategories, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(sample, tt.term, tt.category)
			if diff := cmp.Diff(tt.want, titles(got)); diff != "" {
				t.Errorf("Filter() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilter_TwoRecordScenario(t *testing.T) {
	records := []ServiceRecord{
		{Title: "Deep Clean", Category: "Cleaning"},
		{Title: "Rewire", Category: "Electrical"},
	}
	got := Filter(records, "re", AllCategories)
	assert.Equal(t, []string{"Rewire"}, titles(got))
}

func TestFilter_EmptyInput(t *testing.T) {
	got := Filter(nil, "x", AllCategories)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGroupByCategory(t *testing.T) {
	records := []ServiceRecord{
		{ID: "r1", Title: "Deep Clean", Category: "Cleaning"},
		{ID: "r2", Title: "Kitchen Clean", Category: "Cleaning"},
		{ID: "r3", Title: "Handyman"},
	}

	want := []CategoryGroup{
		{Category: "Cleaning", Records: records[:2]},
		{Category: Uncategorized, Records: records[2:]},
	}
	if diff := cmp.Diff(want, GroupByCategory(records)); diff != "" {
		t.Errorf("GroupByCategory() mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupByCategory_Partition(t *testing.T) {
	groups := GroupByCategory(Filter(sample, "", AllCategories))

	total := 0
	seen := map[string]int{}
	for _, g := range groups {
		total += len(g.Records)
		for _, r := range g.Records {
			seen[r.ID]++
		}
	}
	assert.Equal(t, len(sample), total)
	for _, r := range sample {
		assert.Equal(t, 1, seen[r.ID], r.ID)
	}

	var order []string
	for _, g := range groups {
		order = append(order, g.Category)
	}
	assert.Equal(t, []string{"Cleaning", "Electrical", Uncategorized, "Plumbing"}, order)
}

func TestGroupByCategory_WhitespaceCategory(t *testing.T) {
	groups := GroupByCategory([]ServiceRecord{{Title: "x", Category: "  "}})
	require.Len(t, groups, 1)
	assert.Equal(t, Uncategorized, groups[0].Category)
}

func TestDistinctCategories(t *testing.T) {
	records := []ServiceRecord{{Category: "B"}, {Category: "A"}, {Category: "B"}, {Category: "C"}, {Category: ""}}
	assert.Equal(t, []string{"All", "B", "A", "C"}, DistinctCategories(records))

	assert.Equal(t, []string{"All"}, DistinctCategories(nil))
	assert.Equal(t, []string{"All"}, DistinctCategories([]ServiceRecord{{Category: "All"}}))
}

func TestDistinctCategories_BlankMatchesGrouping(t *testing.T) {
	records := []ServiceRecord{{Title: "x", Category: "  "}, {Title: "y", Category: "Cleaning"}, {Title: "z", Category: "\t"}}

	assert.Equal(t, []string{"All", "Cleaning"}, DistinctCategories(records))

	groups := GroupByCategory(records)
	require.Len(t, groups, 2)
	assert.Equal(t, Uncategorized, groups[0].Category)
	assert.Len(t, groups[0].Records, 2)
}

func TestQueryFunctions_Idempotent(t *testing.T) {
	assert.True(t, cmp.Equal(Filter(sample, "re", AllCategories), Filter(sample, "re", AllCategories)))
	assert.True(t, cmp.Equal(GroupByCategory(sample), GroupByCategory(sample)))
	assert.True(t, cmp.Equal(DistinctCategories(sample), DistinctCategories(sample)))
}

func TestSortByPrice(t *testing.T) {
	asc := SortByPrice(sample, SortPriceAsc)
	assert.Equal(t, []string{"Pipe Repair", "Sofa Shampoo", "Deep Clean", "Rewire", "Wall Repaint"}, titles(asc))

	desc := SortByPrice(sample, SortPriceDesc)
	assert.Equal(t, []string{"Rewire", "Wall Repaint", "Deep Clean", "Sofa Shampoo", "Pipe Repair"}, titles(desc))

	// input untouched
	assert.Equal(t, "Deep Clean", sample[0].Title)
	assert.Equal(t, titles(sample), titles(SortByPrice(sample, SortNone)))
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortPriceAsc, ParseSortOrder("low"))
	assert.Equal(t, SortPriceDesc, ParseSortOrder("DESC"))
	assert.Equal(t, SortNone, ParseSortOrder("newest"))
}

func TestParseFeatures(t *testing.T) {
	assert.Equal(t, []string{"Eco products", "2 cleaners", "Same day"}, ParseFeatures(" Eco products, 2 cleaners,,Same day ,"))
	assert.Equal(t, []string{}, ParseFeatures(""))
}

func TestFeatureList_JSON(t *testing.T) {
	var in struct {
		Features FeatureList `json:"features"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"features":["Tools included"," ","Warranty"]}`), &in))
	assert.Equal(t, FeatureList{"Tools included", "Warranty"}, in.Features)

	require.NoError(t, json.Unmarshal([]byte(`{"features":"Tools included, Warranty"}`), &in))
	assert.Equal(t, FeatureList{"Tools included", "Warranty"}, in.Features)

	require.NoError(t, json.Unmarshal([]byte(`{"features":null}`), &in))
	assert.Equal(t, FeatureList{}, in.Features)

	require.NoError(t, json.Unmarshal([]byte(`{"features":42}`), &in))
	assert.Equal(t, FeatureList{"42"}, in.Features)

	require.NoError(t, json.Unmarshal([]byte(`{"features":{"a":"b"}}`), &in))
	assert.Equal(t, FeatureList{}, in.Features)

	b, err := json.Marshal(ServiceRecord{})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"features":[]`)
}

func TestFeatureList_MixedItems(t *testing.T) {
	var in []struct {
		Title    string      `json:"title"`
		Features FeatureList `json:"features"`
	}
	data := `[{"title":"a","features":["Tools",2,true,null,{"x":1},["y"],1.5]},{"title":"b","features":["Warranty"]}]`

	require.NoError(t, json.Unmarshal([]byte(data), &in))
	require.Len(t, in, 2)
	assert.Equal(t, FeatureList{"Tools", "2", "true", "1.5"}, in[0].Features)
	assert.Equal(t, FeatureList{"Warranty"}, in[1].Features)
}

func TestAmount_Lenient(t *testing.T) {
	tests := map[string]float64{
		`1000`:      1000,
		`"1250.50"`: 1250.5,
		`" 12 "`:    12,
		`"abc"`:     0,
		`null`:      0,
		`{}`:        0,
		`"NaN"`:     0,
		`true`:      0,
	}
	for raw, want := range tests {
		var a Amount
		require.NoError(t, json.Unmarshal([]byte(raw), &a), raw)
		assert.Equal(t, want, float64(a), raw)
	}
}
