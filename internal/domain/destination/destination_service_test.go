package destination

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theweekendworld-engg/trip-gennie/internal/types"
)

type fakeRepository struct {
	findBySlug   func(ctx context.Context, slug string) (*types.Destination, error)
	getBySlug    func(ctx context.Context, slug string) (*types.Destination, error)
	getAllActive func(ctx context.Context) ([]types.Destination, error)
	create       func(ctx context.Context, params types.CreateDestinationParams) (*types.Destination, error)
	searchTrips  func(ctx context.Context, filters types.TripSearchFilters) ([]types.TripResult, int, error)
	getPhotos    func(ctx context.Context, destinationID uuid.UUID) ([]types.DestinationPhoto, error)
	getLinks     func(ctx context.Context, destinationID uuid.UUID) ([]types.CityDestinationLink, error)
}

func (f *fakeRepository) FindBySlug(ctx context.Context, slug string) (*types.Destination, error) {
	return f.findBySlug(ctx, slug)
}

func (f *fakeRepository) GetBySlug(ctx context.Context, slug string) (*types.Destination, error) {
	return f.getBySlug(ctx, slug)
}

func (f *fakeRepository) GetAllActive(ctx context.Context) ([]types.Destination, error) {
	return f.getAllActive(ctx)
}

func (f *fakeRepository) Create(ctx context.Context, params types.CreateDestinationParams) (*types.Destination, error) {
	return f.create(ctx, params)
}

func (f *fakeRepository) UpdateLiveInfo(ctx context.Context, id uuid.UUID, weather *types.WeatherInfo, aqi *types.AirQuality, best *types.BestVisitTime) error {
	return nil
}

func (f *fakeRepository) SavePhoto(ctx context.Context, photo types.DestinationPhoto) error {
	return nil
}

func (f *fakeRepository) GetPhotos(ctx context.Context, destinationID uuid.UUID) ([]types.DestinationPhoto, error) {
	if f.getPhotos == nil {
		return nil, nil
	}
	return f.getPhotos(ctx, destinationID)
}

func (f *fakeRepository) HasLink(ctx context.Context, cityID, destinationID uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeRepository) UpsertLink(ctx context.Context, params types.UpsertLinkParams) error {
	return nil
}

func (f *fakeRepository) GetLinks(ctx context.Context, destinationID uuid.UUID) ([]types.CityDestinationLink, error) {
	if f.getLinks == nil {
		return nil, nil
	}
	return f.getLinks(ctx, destinationID)
}

func (f *fakeRepository) SearchTrips(ctx context.Context, filters types.TripSearchFilters) ([]types.TripResult, int, error) {
	return f.searchTrips(ctx, filters)
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestSearchTrips_RequiresCityID(t *testing.T) {
	svc := NewDestinationService(&fakeRepository{}, testLogger())

	_, err := svc.SearchTrips(context.Background(), types.TripSearchFilters{})

	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrBadRequest)
}

func TestSearchTrips_RejectsUnknownTransportMode(t *testing.T) {
	svc := NewDestinationService(&fakeRepository{}, testLogger())

	_, err := svc.SearchTrips(context.Background(), types.TripSearchFilters{
		CityID:         uuid.New(),
		TransportModes: []string{"teleport"},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrBadRequest)
}

func TestSearchTrips_AppliesPaginationDefaults(t *testing.T) {
	var got types.TripSearchFilters
	repo := &fakeRepository{
		searchTrips: func(ctx context.Context, filters types.TripSearchFilters) ([]types.TripResult, int, error) {
			got = filters
			return []types.TripResult{{Name: "Lonavala"}}, 1, nil
		},
	}
	svc := NewDestinationService(repo, testLogger())

	page, err := svc.SearchTrips(context.Background(), types.TripSearchFilters{
		CityID:   uuid.New(),
		PageSize: 500,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 20, got.PageSize)
	assert.Equal(t, 1, page.Total)
	assert.Len(t, page.Results, 1)
}

func TestGetDestinationDetail_CombinesPhotosAndLinks(t *testing.T) {
	destID := uuid.New()
	repo := &fakeRepository{
		getBySlug: func(ctx context.Context, slug string) (*types.Destination, error) {
			assert.Equal(t, "lonavala", slug)
			return &types.Destination{ID: destID, Name: "Lonavala", Slug: "lonavala"}, nil
		},
		getPhotos: func(ctx context.Context, id uuid.UUID) ([]types.DestinationPhoto, error) {
			return []types.DestinationPhoto{{DestinationID: id, IsPrimary: true}}, nil
		},
		getLinks: func(ctx context.Context, id uuid.UUID) ([]types.CityDestinationLink, error) {
			return []types.CityDestinationLink{{DestinationID: id, TransportMode: types.ModeDriving}}, nil
		},
	}
	svc := NewDestinationService(repo, testLogger())

	detail, err := svc.GetDestinationDetail(context.Background(), "lonavala")

	require.NoError(t, err)
	assert.Equal(t, "Lonavala", detail.Name)
	assert.Len(t, detail.Photos, 1)
	assert.Len(t, detail.Links, 1)
}

func TestGetDestinationDetail_PropagatesNotFound(t *testing.T) {
	repo := &fakeRepository{
		getBySlug: func(ctx context.Context, slug string) (*types.Destination, error) {
			return nil, types.ErrNotFound
		},
	}
	svc := NewDestinationService(repo, testLogger())

	_, err := svc.GetDestinationDetail(context.Background(), "missing")

	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestCreateDestination_DerivesSlug(t *testing.T) {
	repo := &fakeRepository{
		create: func(ctx context.Context, params types.CreateDestinationParams) (*types.Destination, error) {
			return &types.Destination{Name: params.Name, Slug: params.Slug, Category: params.Category}, nil
		},
	}
	svc := NewDestinationService(repo, testLogger())

	dest, err := svc.CreateDestination(context.Background(), types.CreateDestinationParams{
		Name:     "  Tiger's Point  ",
		Category: types.CategoryHillStation,
	})

	require.NoError(t, err)
	assert.Equal(t, "tiger-s-point", dest.Slug)
}

func TestCreateDestination_RequiresNameAndCategory(t *testing.T) {
	svc := NewDestinationService(&fakeRepository{}, testLogger())

	_, err := svc.CreateDestination(context.Background(), types.CreateDestinationParams{Category: "beach"})
	assert.ErrorIs(t, err, types.ErrBadRequest)

	_, err = svc.CreateDestination(context.Background(), types.CreateDestinationParams{Name: "Alibaug"})
	assert.ErrorIs(t, err, types.ErrBadRequest)
}

func TestNearbyDestinations_FiltersAndSortsByDistance(t *testing.T) {
	// Straight-line from Pune: Lonavala ~55 km, Mahabaleshwar ~70 km, Jaipur ~950 km.
	repo := &fakeRepository{
		getAllActive: func(ctx context.Context) ([]types.Destination, error) {
			return []types.Destination{
				{Name: "Mahabaleshwar", Latitude: 17.9307, Longitude: 73.6477},
				{Name: "Lonavala", Latitude: 18.7546, Longitude: 73.4062},
				{Name: "Jaipur", Latitude: 26.9124, Longitude: 75.7873},
			}, nil
		},
	}
	svc := NewDestinationService(repo, testLogger())

	results, err := svc.NearbyDestinations(context.Background(), 18.5204, 73.8567, 150, 10)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Lonavala", results[0].Name)
	assert.Equal(t, "Mahabaleshwar", results[1].Name)
	assert.Less(t, results[0].DistanceKm, results[1].DistanceKm)
}

func TestNearbyDestinations_RejectsBadCoordinates(t *testing.T) {
	svc := NewDestinationService(&fakeRepository{}, testLogger())

	_, err := svc.NearbyDestinations(context.Background(), 91, 0, 50, 10)

	assert.ErrorIs(t, err, types.ErrBadRequest)
}

func TestNearbyDestinations_AppliesLimit(t *testing.T) {
	repo := &fakeRepository{
		getAllActive: func(ctx context.Context) ([]types.Destination, error) {
			return []types.Destination{
				{Name: "A", Latitude: 18.52, Longitude: 73.86},
				{Name: "B", Latitude: 18.53, Longitude: 73.87},
				{Name: "C", Latitude: 18.54, Longitude: 73.88},
			}, nil
		},
	}
	svc := NewDestinationService(repo, testLogger())

	results, err := svc.NearbyDestinations(context.Background(), 18.5204, 73.8567, 50, 2)

	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestGetAllDestinations_WrapsRepositoryError(t *testing.T) {
	repo := &fakeRepository{
		getAllActive: func(ctx context.Context) ([]types.Destination, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := NewDestinationService(repo, testLogger())

	_, err := svc.GetAllDestinations(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to retrieve destinations")
}
