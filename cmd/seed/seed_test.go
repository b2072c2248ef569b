package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"homeservices/internal/catalog"
	"homeservices/internal/expert"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeed(t *testing.T) {
	got, err := parseSeed([]byte(`
services:
  - external_id: cleaning-basic
    title: " Basic Cleaning "
    category: Cleaning
    price: 1500
    features:
      - Dusting surfaces
      - "  "
  - external_id: lawn
    title: Lawn Care
    category: Gardening
    price: 900
    discount: 10
    unit: visit
    features: Mowing, Edging
  - external_id: bare
    title: Consultation
`))
	require.NoError(t, err)

	want := []catalog.ServiceRecord{
		{ExternalID: "cleaning-basic", Title: "Basic Cleaning", Category: "Cleaning", Price: 1500,
			Features: catalog.FeatureList{"Dusting surfaces"}},
		{ExternalID: "lawn", Title: "Lawn Care", Category: "Gardening", Price: 900, Discount: 10,
			Unit: "visit", Features: catalog.FeatureList{"Mowing", "Edging"}},
		{ExternalID: "bare", Title: "Consultation", Features: catalog.FeatureList{}},
	}
	if diff := cmp.Diff(want, got.Services, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("parseSeed() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSeed_Invalid(t *testing.T) {
	_, err := parseSeed([]byte(`
services:
  - title: No id
  - external_id: a
    title: A
  - external_id: a
    title: Again
  - external_id: b
    title: B
    discount: 120
  - external_id: c
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "services[0]: external_id is required")
	assert.Contains(t, err.Error(), `services[2]: duplicate external_id "a"`)
	assert.Contains(t, err.Error(), "services[3]: price or discount out of range")
	assert.Contains(t, err.Error(), "services[4]: title is required")

	_, err = parseSeed([]byte("services:\n  - external_id: x\n    title: X\n    features: {a: b}\n"))
	assert.Error(t, err)
}

func TestParseSeed_Experts(t *testing.T) {
	got, err := parseSeed([]byte(`
experts:
  - slug: ayesha
    name: " Ayesha Rahman "
    category: Cleaning
    photo: https://img.example/ayesha.jpg
  - slug: karim
    name: Karim Uddin
`))
	require.NoError(t, err)
	assert.Empty(t, got.Services)

	want := []expert.Expert{
		{Slug: "ayesha", Name: "Ayesha Rahman", Category: "Cleaning", PhotoURL: "https://img.example/ayesha.jpg"},
		{Slug: "karim", Name: "Karim Uddin"},
	}
	if diff := cmp.Diff(want, got.Experts); diff != "" {
		t.Errorf("parseSeed() experts mismatch (-want +got):\n%s", diff)
	}

	_, err = parseSeed([]byte(`
experts:
  - name: No Slug
  - slug: a
    name: A
  - slug: a
    name: Again
  - slug: b
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "experts[0]: slug is required")
	assert.Contains(t, err.Error(), `experts[2]: duplicate slug "a"`)
	assert.Contains(t, err.Error(), "experts[3]: name is required")
}

func TestRepoSeedFile(t *testing.T) {
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok)
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "db", "seed", "services.yaml")

	data, err := loadSeedFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data.Services)
	for _, r := range data.Services {
		assert.NotEmpty(t, r.Features, r.ExternalID)
	}
	assert.NotEmpty(t, data.Experts)
}

func TestDryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "services.yaml")
	require.NoError(t, os.WriteFile(path, []byte("services:\n  - external_id: x\n    title: X\n"), 0o644))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--file", path, "--dry-run"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "1 services, 0 experts OK")
}
