package fibretrace

import (
	"context"
	"sync"
	"time"

	"github.com/fekuna/cottontrace-service/internal/mockdata"
	"github.com/fekuna/cottontrace-service/internal/model"
)

// MockClient answers with canned payloads. Writes wait for Delay first.
type MockClient struct {
	Delay time.Duration
	Now   func() time.Time

	mu    sync.Mutex
	fails map[string]string
}

var _ Client = (*MockClient)(nil)

func NewMockClient(delay time.Duration) *MockClient {
	return &MockClient{Delay: delay, Now: time.Now, fails: map[string]string{}}
}

// FailBatch makes every call for batchID fail with message.
func (m *MockClient) FailBatch(batchID, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fails[batchID] = message
}

func (m *MockClient) failure(batchID string) (Response, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg, ok := m.fails[batchID]; ok {
		return Response{Success: false, Status: 502, Message: msg}, true
	}
	return Response{}, false
}

func (m *MockClient) batchData(batchID string) BatchData {
	now := m.Now().UTC()
	return BatchData{
		BatchID:     batchID,
		FarmName:    "Sample Farm",
		HarvestDate: now,
		Location: model.GeoLocation{
			Latitude:  34.0522,
			Longitude: -118.2437,
			Region:    "California",
			Country:   "USA",
		},
		Quantity: 5000,
		Quality: model.QualityMetrics{
			Grade:        "A",
			FiberLength:  1.2,
			Strength:     28.5,
			Micronaire:   4.2,
			Color:        "White",
			TrashContent: 0.8,
		},
		LastUpdated: now,
	}
}

func (m *MockClient) GetBatchData(_ context.Context, batchID string) Response {
	if r, bad := m.failure(batchID); bad {
		return r
	}
	return ok(m.batchData(batchID))
}

func (m *MockClient) GetIsotopeData(_ context.Context, batchID string) Response {
	if r, bad := m.failure(batchID); bad {
		return r
	}
	return ok(IsotopeAnalysis{
		ID:                      "ISO-" + batchID,
		IsotopicValues:          IsotopicValues{DeltaC13: -25.4, DeltaN15: 5.2, DeltaO18: 15.7, DeltaH2: -105.3},
		RegionalMatchConfidence: 92,
		SampleCollectionDate:    m.Now().UTC(),
		TestingFacility: Facility{
			Name:            "FibreTrace Analytics Lab",
			Location:        "San Francisco, CA",
			CertificationID: "FT-LAB-001",
		},
		VerificationStatus: model.VerificationVerified,
		VerificationNotes:  "All isotope values match the expected range for the declared origin.",
	})
}

func (m *MockClient) ack(ctx context.Context, batchID, message string) Response {
	if err := mockdata.Wait(ctx, m.Delay); err != nil {
		return failed("%v", err)
	}
	if r, bad := m.failure(batchID); bad {
		return r
	}
	return ok(Ack{Message: message, BatchID: batchID, Timestamp: m.Now().UTC()})
}

func (m *MockClient) PushBatchData(ctx context.Context, batch model.Batch) Response {
	return m.ack(ctx, batch.ID, "Batch data successfully pushed to FibreTrace")
}

func (m *MockClient) UpdateBatchData(ctx context.Context, batchID string, _ model.Batch) Response {
	return m.ack(ctx, batchID, "Batch data successfully updated in FibreTrace")
}

func (m *MockClient) PushIsotopeData(ctx context.Context, batchID string, _ model.IsotopeRecord) Response {
	return m.ack(ctx, batchID, "Isotope data successfully pushed to FibreTrace")
}

func (m *MockClient) VerifyBatch(_ context.Context, batchID string) Response {
	if r, bad := m.failure(batchID); bad {
		return r
	}
	return ok(Verification{
		BatchID:            batchID,
		Verified:           true,
		Timestamp:          m.Now().UTC(),
		VerificationMethod: "Isotope Analysis",
		Confidence:         95,
	})
}

func (m *MockClient) GetAllBatches(_ context.Context, params ListParams) Response {
	page, limit := params.Page, params.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	return ok(BatchList{
		Batches: []BatchData{
			m.batchData("BATCH-001"),
			m.batchData("BATCH-002"),
			m.batchData("BATCH-003"),
		},
		Pagination: Pagination{Total: 3, Page: page, Limit: limit},
	})
}
