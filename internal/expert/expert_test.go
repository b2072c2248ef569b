package expert

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var roster = []Expert{
	{ID: "e1", Slug: "ayesha", Name: "Ayesha Rahman", Category: "Cleaning"},
	{ID: "e2", Slug: "karim", Name: "Karim Uddin", Category: "  "},
	{ID: "e3", Slug: "nusrat", Name: "Nusrat Jahan", Category: "Plumbing"},
}

func names(experts []Expert) []string {
	out := []string{}
	for _, e := range experts {
		out = append(out, e.Name)
	}
	return out
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	svc := NewService(repo)
	ctx := context.Background()

	repo.EXPECT().ListAll(ctx).Return(roster, nil).Times(3)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ayesha Rahman", "Karim Uddin", "Nusrat Jahan"}, names(all))
	assert.Equal(t, DefaultCategory, all[1].Category)
	// caller's slice untouched
	assert.Equal(t, "  ", roster[1].Category)

	plumbing, err := svc.List(ctx, " plumbing ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Nusrat Jahan"}, names(plumbing))

	general, err := svc.List(ctx, "General")
	require.NoError(t, err)
	assert.Equal(t, []string{"Karim Uddin"}, names(general))

	repo.EXPECT().ListAll(ctx).Return(nil, errors.New("db down"))
	_, err = svc.List(ctx, "")
	assert.Error(t, err)
}

func TestService_Upsert(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	svc := NewService(repo)
	ctx := context.Background()

	repo.EXPECT().UpsertBySlug(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e *Expert) (bool, error) {
		assert.Equal(t, "ayesha", e.Slug)
		assert.Equal(t, "Ayesha Rahman", e.Name)
		assert.Equal(t, DefaultCategory, e.Category)
		return true, nil
	})
	created, err := svc.Upsert(ctx, Expert{Slug: " ayesha ", Name: " Ayesha Rahman "})
	require.NoError(t, err)
	assert.True(t, created)

	_, err = svc.Upsert(ctx, Expert{Slug: "nameless"})
	assert.Error(t, err)
	_, err = svc.Upsert(ctx, Expert{Name: "No Slug"})
	assert.Error(t, err)
}

func TestHTTPHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	h := NewHTTPHandler(NewService(repo))

	repo.EXPECT().ListAll(gomock.Any()).Return(roster, nil)
	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/v1/experts?category=cleaning", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Ayesha Rahman"`)
	assert.NotContains(t, w.Body.String(), "Nusrat")
	assert.Contains(t, w.Body.String(), `"count":1`)

	repo.EXPECT().ListAll(gomock.Any()).Return([]Expert{}, nil)
	w = httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/v1/experts", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)

	repo.EXPECT().ListAll(gomock.Any()).Return(nil, errors.New("db down"))
	w = httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/v1/experts", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
