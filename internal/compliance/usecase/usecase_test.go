package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	batchrepo "github.com/fekuna/cottontrace-service/internal/batch/repository"
	"github.com/fekuna/cottontrace-service/internal/compliance"
	"github.com/fekuna/cottontrace-service/internal/compliance/dto"
	"github.com/fekuna/cottontrace-service/internal/compliance/repository"
	"github.com/fekuna/cottontrace-service/internal/export"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
	"github.com/fekuna/cottontrace-service/internal/store"
	"github.com/fekuna/cottontrace-service/pkg/cache"
	"github.com/fekuna/cottontrace-service/pkg/logger"
	"github.com/fekuna/cottontrace-service/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

type capturePublisher struct {
	mu     sync.Mutex
	keys   []string
	events []dto.StatusChangedEvent
	err    error
}

func (p *capturePublisher) PublishJSON(_ context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.events = append(p.events, v.(dto.StatusChangedEvent))
	return p.err
}

func newUseCase(t *testing.T, pub compliance.Publisher) (compliance.UseCase, *cache.MemoryCache) {
	t.Helper()
	batches := batchrepo.NewMockRepository(5, 25, 0)
	batches.Now = func() time.Time { return fixedNow }
	repo := repository.NewDerivedRepository(batches, 5)
	repo.Now = batches.Now

	log := logger.NewNop()
	st := store.New("compliance", store.LoaderFunc[model.ComplianceBatch](repo.FindAll), log, store.WithClone(model.ComplianceBatch.Clone))
	c := cache.NewMemoryCache(64, time.Minute)
	uc := NewComplianceUseCase(st, c, time.Minute, pub, export.FileSink{Dir: t.TempDir()}, log)
	uc.(*complianceUseCase).now = func() time.Time { return fixedNow.AddDate(1, 0, 0) }
	return uc, c
}

func TestListComplianceBatches_DefaultSort(t *testing.T) {
	uc, _ := newUseCase(t, nil)
	res, err := uc.ListComplianceBatches(context.Background(), &dto.ListComplianceInput{
		Params: query.ListParams[dto.SortField]{Sort: dto.DefaultSort, Page: 1, PageSize: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 25, res.Total)
	require.Len(t, res.Items, 10)
	for i := 1; i < len(res.Items); i++ {
		assert.False(t, res.Items[i].ProcessingDate.After(res.Items[i-1].ProcessingDate))
	}
	for _, c := range res.Items {
		require.NotEmpty(t, c.StatusHistory)
		assert.Equal(t, c.StatusHistory[0].Status, c.ActionStatus)
	}
}

func TestFilteredComplianceBatches_OriginMatchesLocationOrCountry(t *testing.T) {
	uc, _ := newUseCase(t, nil)
	ctx := context.Background()
	all, err := uc.FilteredComplianceBatches(ctx, nil, dto.DefaultSort)
	require.NoError(t, err)

	byCountry, err := uc.FilteredComplianceBatches(ctx, &dto.ComplianceFilters{Origin: "usa"}, dto.DefaultSort)
	require.NoError(t, err)
	want := 0
	for _, c := range all {
		if c.Origin.Country == "USA" {
			want++
		}
	}
	assert.Len(t, byCountry, want)

	loc := all[0].Origin.Location
	byLocation, err := uc.FilteredComplianceBatches(ctx, &dto.ComplianceFilters{Origin: loc}, dto.DefaultSort)
	require.NoError(t, err)
	for _, c := range byLocation {
		assert.Equal(t, loc, c.Origin.Location)
	}
}

func TestSummarizeCompliance(t *testing.T) {
	uc, _ := newUseCase(t, nil)
	s, err := uc.SummarizeCompliance(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 25, s.Total)
	assert.Equal(t, 25, query.CountOf(s.ActionStatus, "approved")+query.CountOf(s.ActionStatus, "hold"))
	assert.Len(t, s.CertificationStatus, 3)

	held, err := uc.SummarizeCompliance(context.Background(), &dto.ComplianceFilters{ActionStatus: "approved"})
	require.NoError(t, err)
	assert.Zero(t, held.PendingIssues, "approved records carry no pending issues")
}

func TestUpdateStatus_PrependsHistoryAndPublishes(t *testing.T) {
	pub := &capturePublisher{}
	uc, c := newUseCase(t, pub)
	ctx := context.WithValue(context.Background(), middleware.ActorKey, "Sarah Johnson")

	_, err := uc.ListComplianceBatches(ctx, &dto.ListComplianceInput{Params: query.ListParams[dto.SortField]{Sort: dto.DefaultSort, Page: 1}})
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	all, err := uc.FilteredComplianceBatches(ctx, nil, dto.DefaultSort)
	require.NoError(t, err)
	before := all[0]

	updated, err := uc.UpdateStatus(ctx, &dto.UpdateStatusInput{ID: before.ID, Status: model.ActionApproved, Note: "Docs received"})
	require.NoError(t, err)

	require.Len(t, updated.StatusHistory, len(before.StatusHistory)+1)
	head := updated.StatusHistory[0]
	assert.Equal(t, model.ActionApproved, head.Status)
	assert.Equal(t, "Sarah Johnson", head.UpdatedBy)
	assert.Equal(t, "Docs received", head.Note)
	assert.NotEmpty(t, head.ID)
	assert.Equal(t, before.StatusHistory, updated.StatusHistory[1:])
	assert.Equal(t, model.ActionApproved, updated.ActionStatus)
	assert.Nil(t, updated.PendingIssues)
	assert.Zero(t, c.Len())

	require.Len(t, pub.events, 1)
	assert.Equal(t, before.BatchID, pub.keys[0])
	assert.Equal(t, compliance.EventStatusChanged, pub.events[0].EventType)
	assert.Equal(t, head.ID, pub.events[0].EventID)

	stored, err := uc.GetComplianceBatch(ctx, before.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.StatusHistory, stored.StatusHistory)
}

func TestUpdateStatus_DefaultsToSystemActor(t *testing.T) {
	uc, _ := newUseCase(t, &capturePublisher{err: errors.New("kafka down")})
	all, err := uc.FilteredComplianceBatches(context.Background(), nil, dto.DefaultSort)
	require.NoError(t, err)

	updated, err := uc.UpdateStatus(context.Background(), &dto.UpdateStatusInput{ID: all[0].ID, Status: model.ActionHold})
	require.NoError(t, err, "publish failures do not roll back the change")
	assert.Equal(t, "System", updated.UpdatedBy)
}

func TestUpdateStatus_Rejections(t *testing.T) {
	uc, _ := newUseCase(t, nil)
	_, err := uc.UpdateStatus(context.Background(), &dto.UpdateStatusInput{ID: "comp-x", Status: "rejected"})
	assert.ErrorIs(t, err, model.ErrInvalidStatus)

	_, err = uc.UpdateStatus(context.Background(), &dto.UpdateStatusInput{ID: "comp-x", Status: model.ActionHold})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestExportCompliance_JSON(t *testing.T) {
	uc, _ := newUseCase(t, nil)
	res, err := uc.ExportCompliance(context.Background(), &dto.ExportComplianceInput{
		Filters: dto.ComplianceFilters{ActionStatus: "hold"},
		Sort:    dto.DefaultSort,
		Format:  model.FormatJSON,
	})
	require.NoError(t, err)
	assert.Contains(t, res.Location, "compliance-batches-")
	assert.Contains(t, res.Location, ".json")
}
