package city

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theweekendworld-engg/trip-gennie/internal/types"
)

type fakeRepository struct {
	cities      []*types.City
	listCalls   int
	createCalls int
}

func (f *fakeRepository) FindByNameOrSlug(ctx context.Context, name string) (*types.City, error) {
	for _, c := range f.cities {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) GetBySlug(ctx context.Context, slug string) (*types.City, error) {
	for _, c := range f.cities {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, types.ErrNotFound
}

func (f *fakeRepository) GetAllActive(ctx context.Context) ([]types.City, error) {
	f.listCalls++
	var out []types.City
	for _, c := range f.cities {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeRepository) Create(ctx context.Context, name, slug, state string, lat, lng float64) (*types.City, error) {
	f.createCalls++
	for _, c := range f.cities {
		if c.Slug == slug {
			return nil, types.ErrConflict
		}
	}
	c := &types.City{ID: uuid.New(), Name: name, Slug: slug, State: state,
		Latitude: lat, Longitude: lng, IsActive: true}
	f.cities = append(f.cities, c)
	return c, nil
}

func newTestService(repo Repository) *ServiceImpl {
	return NewCityService(repo, slog.New(slog.DiscardHandler))
}

func TestGetAllCities_CachesSecondCall(t *testing.T) {
	repo := &fakeRepository{cities: []*types.City{{Name: "Pune", Slug: "pune"}}}
	svc := newTestService(repo)

	first, err := svc.GetAllCities(context.Background())
	require.NoError(t, err)
	second, err := svc.GetAllCities(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.listCalls)
}

func TestCreateCity_InvalidatesListCache(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo)

	_, err := svc.GetAllCities(context.Background())
	require.NoError(t, err)

	_, err = svc.CreateCity(context.Background(), types.CreateCityParams{
		Name: "Nashik", Latitude: 19.99, Longitude: 73.78,
	})
	require.NoError(t, err)

	cities, err := svc.GetAllCities(context.Background())
	require.NoError(t, err)
	assert.Len(t, cities, 1)
	assert.Equal(t, 2, repo.listCalls)
}

func TestCreateCity_DefaultsStateAndSlug(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo)

	c, err := svc.CreateCity(context.Background(), types.CreateCityParams{Name: "New Delhi"})

	require.NoError(t, err)
	assert.Equal(t, "new-delhi", c.Slug)
	assert.Equal(t, "Unknown", c.State)
}

func TestCreateCity_RequiresName(t *testing.T) {
	svc := newTestService(&fakeRepository{})

	_, err := svc.CreateCity(context.Background(), types.CreateCityParams{})

	assert.ErrorIs(t, err, types.ErrBadRequest)
}

func TestCreateCity_DuplicatePropagatesConflict(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo)

	_, err := svc.CreateCity(context.Background(), types.CreateCityParams{Name: "Pune"})
	require.NoError(t, err)

	_, err = svc.CreateCity(context.Background(), types.CreateCityParams{Name: "Pune"})
	assert.ErrorIs(t, err, types.ErrConflict)
}

func TestGetCityBySlug_NotFound(t *testing.T) {
	svc := newTestService(&fakeRepository{})

	_, err := svc.GetCityBySlug(context.Background(), "atlantis")

	assert.ErrorIs(t, err, types.ErrNotFound)
}
