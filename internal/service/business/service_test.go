package business

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	businessCache "github.com/m04kA/SMC-ReservationService/internal/infra/cache/business"
	businessRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/business"
	"github.com/m04kA/SMC-ReservationService/internal/service/business/models"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

type fakeRepo struct {
	cfg      *domain.BusinessConfig
	saved    *domain.BusinessConfig
	blocked  []domain.BlockedDate
	specials []domain.SpecialSchedule
	getCalls int
	saveErr  error
	onGet    func()
}

func (f *fakeRepo) GetConfig(_ context.Context, id int64) (*domain.BusinessConfig, error) {
	f.getCalls++
	if f.onGet != nil {
		f.onGet()
	}
	if f.cfg == nil || f.cfg.ID != id {
		return nil, businessRepo.ErrBusinessNotFound
	}
	cp := *f.cfg
	cp.Special = append([]domain.SpecialSchedule(nil), f.specials...)
	return &cp, nil
}

func (f *fakeRepo) CreateBusiness(_ context.Context, cfg *domain.BusinessConfig) (*domain.BusinessConfig, error) {
	cfg.ID = 7
	f.cfg = cfg
	return cfg, nil
}

func (f *fakeRepo) SaveConfig(_ context.Context, cfg *domain.BusinessConfig) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = cfg
	return nil
}

func (f *fakeRepo) ListServices(_ context.Context, _ int64, _ bool) ([]domain.Service, error) {
	return f.cfg.Services, nil
}

func (f *fakeRepo) ListBlockedDates(_ context.Context, _ int64) ([]domain.BlockedDate, error) {
	return f.blocked, nil
}

func (f *fakeRepo) AddBlockedDate(_ context.Context, b domain.BlockedDate) error {
	f.blocked = append(f.blocked, b)
	return nil
}

func (f *fakeRepo) RemoveBlockedDate(_ context.Context, _ int64, date time.Time) error {
	for i, b := range f.blocked {
		if domain.DateKey(b.Date) == domain.DateKey(date) {
			f.blocked = append(f.blocked[:i], f.blocked[i+1:]...)
			return nil
		}
	}
	return businessRepo.ErrBlockedDateNotFound
}

func (f *fakeRepo) ListSpecialSchedules(_ context.Context, _ int64) ([]domain.SpecialSchedule, error) {
	return f.specials, nil
}

func (f *fakeRepo) AddSpecialSchedule(_ context.Context, s *domain.SpecialSchedule) (*domain.SpecialSchedule, error) {
	s.ID = int64(len(f.specials) + 1)
	f.specials = append(f.specials, *s)
	return s, nil
}

func (f *fakeRepo) RemoveSpecialSchedule(_ context.Context, _ int64, id int64) error {
	for i, s := range f.specials {
		if s.ID == id {
			f.specials = append(f.specials[:i], f.specials[i+1:]...)
			return nil
		}
	}
	return businessRepo.ErrSpecialScheduleNotFound
}

type fakeCache struct {
	items       map[int64]*domain.BusinessConfig
	generations map[int64]int64
	invalidated []int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[int64]*domain.BusinessConfig{}, generations: map[int64]int64{}}
}

func (c *fakeCache) Get(_ context.Context, id int64) (*domain.BusinessConfig, error) {
	cfg, ok := c.items[id]
	if !ok {
		return nil, businessCache.ErrCacheMiss
	}
	return cfg, nil
}

func (c *fakeCache) Generation(_ context.Context, id int64) (int64, error) {
	return c.generations[id], nil
}

func (c *fakeCache) Fill(_ context.Context, cfg *domain.BusinessConfig, generation int64) error {
	if c.generations[cfg.ID] != generation {
		return businessCache.ErrStaleSnapshot
	}
	c.items[cfg.ID] = cfg
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, id int64) error {
	c.generations[id]++
	delete(c.items, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newBaseConfig() *domain.BusinessConfig {
	return &domain.BusinessConfig{
		ID:       1,
		Name:     "Barbería Centro",
		Timezone: "UTC",
		Services: []domain.Service{
			{ID: 10, BusinessID: 1, Name: "Corte", DurationMinutes: 30, Active: true},
			{ID: 11, BusinessID: 1, Name: "Barba", DurationMinutes: 20, Active: false},
		},
		Weekly: domain.WeeklySchedule{
			time.Monday: {{Start: 9 * 60, End: 13 * 60}},
		},
		MaxReservationsPerSlot: 1,
		DefaultServiceDuration: 30,
		SlotGranularityMinutes: 30,
		ConfirmationWindow:     48 * time.Hour,
	}
}

func newTestService(repo *fakeRepo, cache ConfigCache) *Service {
	return NewService(repo, cache, passthroughTx{}, validator.New(), logger.NewNop())
}

func TestService_GetSnapshot_UsesCache(t *testing.T) {
	repo := &fakeRepo{cfg: newBaseConfig()}
	cache := newFakeCache()
	svc := newTestService(repo, cache)

	first, err := svc.GetSnapshot(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Barbería Centro", first.Name)

	_, err = svc.GetSnapshot(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getCalls)
}

func TestService_GetSnapshot_InvalidatedDuringLoad(t *testing.T) {
	repo := &fakeRepo{cfg: newBaseConfig()}
	cache := newFakeCache()
	svc := newTestService(repo, cache)

	// UpdateConfig коммитится и инвалидирует кэш, пока читается старая конфигурация
	repo.onGet = func() {
		repo.onGet = nil
		require.NoError(t, cache.Invalidate(context.Background(), 1))
	}

	_, err := svc.GetSnapshot(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, cache.items)

	// следующий промах заполняет кэш свежей конфигурацией
	_, err = svc.GetSnapshot(context.Background(), 1)
	require.NoError(t, err)
	assert.Contains(t, cache.items, int64(1))
	assert.Equal(t, 2, repo.getCalls)
}

func TestService_GetSnapshot_NoCache(t *testing.T) {
	repo := &fakeRepo{cfg: newBaseConfig()}
	svc := newTestService(repo, nil)

	_, err := svc.GetSnapshot(context.Background(), 1)
	require.NoError(t, err)
	_, err = svc.GetSnapshot(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.getCalls)

	_, err = svc.GetSnapshot(context.Background(), 99)
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestService_ListServices_OnlyActive(t *testing.T) {
	svc := newTestService(&fakeRepo{cfg: newBaseConfig()}, nil)

	resp, err := svc.ListServices(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, resp.Services, 1)
	assert.Equal(t, "Corte", resp.Services[0].Name)
}

func TestService_UpdateConfig(t *testing.T) {
	t.Run("merges fields and invalidates cache", func(t *testing.T) {
		repo := &fakeRepo{cfg: newBaseConfig()}
		cache := newFakeCache()
		svc := newTestService(repo, cache)

		_, err := svc.GetSnapshot(context.Background(), 1)
		require.NoError(t, err)

		resp, err := svc.UpdateConfig(context.Background(), 1, &models.ConfigRequest{
			MaxReservationsPerSlot: ptr.Ptr(3),
			AdminEmail:             ptr.Ptr(" Admin@Example.com "),
			Weekly: map[int][]models.TimeRange{
				2: {{Start: "15:00", End: "19:00"}, {Start: "09:00", End: "13:00"}},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, 3, resp.MaxReservationsPerSlot)
		assert.Equal(t, "Barbería Centro", resp.Name)
		require.NotNil(t, resp.AdminEmail)
		assert.Equal(t, "admin@example.com", *resp.AdminEmail)
		assert.Equal(t, []models.TimeRange{{Start: "09:00", End: "13:00"}, {Start: "15:00", End: "19:00"}}, resp.Weekly[2])
		assert.NotContains(t, resp.Weekly, 1)

		require.NotNil(t, repo.saved)
		assert.Equal(t, []int64{1}, cache.invalidated)
	})

	t.Run("overlapping ranges rejected", func(t *testing.T) {
		repo := &fakeRepo{cfg: newBaseConfig()}
		svc := newTestService(repo, nil)

		_, err := svc.UpdateConfig(context.Background(), 1, &models.ConfigRequest{
			Weekly: map[int][]models.TimeRange{
				1: {{Start: "09:00", End: "12:00"}, {Start: "11:00", End: "14:00"}},
			},
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Nil(t, repo.saved)
	})

	t.Run("invalid weekday rejected", func(t *testing.T) {
		svc := newTestService(&fakeRepo{cfg: newBaseConfig()}, nil)

		_, err := svc.UpdateConfig(context.Background(), 1, &models.ConfigRequest{
			Weekly: map[int][]models.TimeRange{7: {{Start: "09:00", End: "12:00"}}},
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("validation tags", func(t *testing.T) {
		svc := newTestService(&fakeRepo{cfg: newBaseConfig()}, nil)

		_, err := svc.UpdateConfig(context.Background(), 1, &models.ConfigRequest{
			MaxReservationsPerSlot: ptr.Ptr(0),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown business", func(t *testing.T) {
		svc := newTestService(&fakeRepo{cfg: newBaseConfig()}, nil)

		_, err := svc.UpdateConfig(context.Background(), 5, &models.ConfigRequest{Name: ptr.Ptr("X")})
		assert.ErrorIs(t, err, ErrBusinessNotFound)
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := &fakeRepo{cfg: newBaseConfig(), saveErr: errors.New("connection reset")}
		svc := newTestService(repo, nil)

		_, err := svc.UpdateConfig(context.Background(), 1, &models.ConfigRequest{Name: ptr.Ptr("Nuevo")})
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestService_CreateBusiness(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, nil)

	resp, err := svc.CreateBusiness(context.Background(), &models.ConfigRequest{
		Name: ptr.Ptr("Spa Luna"),
		Services: &[]models.Service{
			{Name: "Masaje", DurationMinutes: 60},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, domain.DefaultTimezone, resp.Timezone)
	assert.Equal(t, domain.DefaultMaxReservationsPerSlot, resp.MaxReservationsPerSlot)
	require.Len(t, resp.Services, 1)
	assert.True(t, resp.Services[0].Active)

	_, err = svc.CreateBusiness(context.Background(), &models.ConfigRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_BlockedDates(t *testing.T) {
	repo := &fakeRepo{cfg: newBaseConfig()}
	cache := newFakeCache()
	svc := newTestService(repo, cache)
	ctx := context.Background()

	require.NoError(t, svc.AddBlockedDate(ctx, 1, &models.BlockedDateRequest{Date: "2025-12-25", Reason: ptr.Ptr("Navidad")}))

	list, err := svc.ListBlockedDates(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2025-12-25", list[0].Date)

	err = svc.AddBlockedDate(ctx, 1, &models.BlockedDateRequest{Date: "25/12/2025"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	date, _ := domain.ParseDate("2025-12-25", time.UTC)
	require.NoError(t, svc.RemoveBlockedDate(ctx, 1, date))
	assert.ErrorIs(t, svc.RemoveBlockedDate(ctx, 1, date), ErrBlockedDateNotFound)

	assert.Equal(t, []int64{1, 1}, cache.invalidated)
}

func TestService_SpecialSchedules(t *testing.T) {
	repo := &fakeRepo{cfg: newBaseConfig()}
	svc := newTestService(repo, nil)
	ctx := context.Background()

	created, err := svc.AddSpecialSchedule(ctx, 1, &models.SpecialScheduleRequest{Date: "2025-03-10", Start: "10:00", End: "14:00"})
	require.NoError(t, err)
	assert.Equal(t, "10:00", created.Start)
	assert.True(t, created.Active)

	_, err = svc.AddSpecialSchedule(ctx, 1, &models.SpecialScheduleRequest{Date: "2025-03-10", Start: "15:00", End: "18:00"})
	assert.ErrorIs(t, err, ErrDuplicateSpecialSchedule)

	_, err = svc.AddSpecialSchedule(ctx, 1, &models.SpecialScheduleRequest{
		Date: "2025-03-10", Start: "15:00", End: "18:00", Active: ptr.Ptr(false),
	})
	require.NoError(t, err)

	_, err = svc.AddSpecialSchedule(ctx, 1, &models.SpecialScheduleRequest{Date: "2025-03-11", Start: "18:00", End: "10:00"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	list, err := svc.ListSpecialSchedules(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, svc.RemoveSpecialSchedule(ctx, 1, created.ID))
	assert.ErrorIs(t, svc.RemoveSpecialSchedule(ctx, 1, created.ID), ErrSpecialScheduleNotFound)
}
