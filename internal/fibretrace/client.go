// Package fibretrace is the boundary to the FibreTrace partner API. Calls
// never return Go errors: failures come back as a Response with Success
// false so they can be scoped to the batch that triggered them.
package fibretrace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/cottontrace-service/internal/model"
)

// Response is the envelope for every call.
type Response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Status  int             `json:"status,omitempty"`
}

func ok(v any) Response {
	data, err := json.Marshal(v)
	if err != nil {
		return Response{Success: false, Message: err.Error()}
	}
	return Response{Success: true, Data: data}
}

func failed(format string, args ...any) Response {
	return Response{Success: false, Message: fmt.Sprintf(format, args...)}
}

var ErrUnsuccessful = errors.New("fibretrace call unsuccessful")

// Decode unmarshals the payload of a successful response.
func Decode[T any](r Response) (T, error) {
	var out T
	if !r.Success {
		return out, fmt.Errorf("%w: %s", ErrUnsuccessful, r.Message)
	}
	if err := json.Unmarshal(r.Data, &out); err != nil {
		return out, fmt.Errorf("decode fibretrace payload: %w", err)
	}
	return out, nil
}

type Client interface {
	GetBatchData(ctx context.Context, batchID string) Response
	GetIsotopeData(ctx context.Context, batchID string) Response
	PushBatchData(ctx context.Context, batch model.Batch) Response
	UpdateBatchData(ctx context.Context, batchID string, batch model.Batch) Response
	PushIsotopeData(ctx context.Context, batchID string, record model.IsotopeRecord) Response
	VerifyBatch(ctx context.Context, batchID string) Response
	GetAllBatches(ctx context.Context, params ListParams) Response
}

type ListParams struct {
	Page     int        `json:"page,omitempty"`
	Limit    int        `json:"limit,omitempty"`
	Region   string     `json:"region,omitempty"`
	DateFrom *time.Time `json:"dateFrom,omitempty"`
	DateTo   *time.Time `json:"dateTo,omitempty"`
}

type BatchData struct {
	BatchID     string               `json:"batchId"`
	FarmName    string               `json:"farmName"`
	HarvestDate time.Time            `json:"harvestDate"`
	Location    model.GeoLocation    `json:"location"`
	Quantity    float64              `json:"quantity"`
	Quality     model.QualityMetrics `json:"quality"`
	LastUpdated time.Time            `json:"lastUpdated"`
}

type IsotopicValues struct {
	DeltaC13 float64 `json:"deltaC13"`
	DeltaN15 float64 `json:"deltaN15"`
	DeltaO18 float64 `json:"deltaO18"`
	DeltaH2  float64 `json:"deltaH2"`
}

type Facility struct {
	Name            string `json:"name"`
	Location        string `json:"location"`
	CertificationID string `json:"certificationId"`
}

type IsotopeAnalysis struct {
	ID                      string                   `json:"id"`
	IsotopicValues          IsotopicValues           `json:"isotopicValues"`
	RegionalMatchConfidence int                      `json:"regionalMatchConfidence"`
	SampleCollectionDate    time.Time                `json:"sampleCollectionDate"`
	TestingFacility         Facility                 `json:"testingFacility"`
	VerificationStatus      model.VerificationStatus `json:"verificationStatus"`
	VerificationNotes       string                   `json:"verificationNotes"`
}

type Verification struct {
	BatchID            string    `json:"batchId"`
	Verified           bool      `json:"verified"`
	Timestamp          time.Time `json:"timestamp"`
	VerificationMethod string    `json:"verificationMethod"`
	Confidence         int       `json:"confidence"`
}

// Ack is returned by the push and update calls.
type Ack struct {
	Message   string    `json:"message"`
	BatchID   string    `json:"batchId"`
	Timestamp time.Time `json:"timestamp"`
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type BatchList struct {
	Batches    []BatchData `json:"batches"`
	Pagination Pagination  `json:"pagination"`
}
