package dto

import (
	"time"

	"github.com/fekuna/cottontrace-service/internal/model"
)

type Supplier struct {
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
	Batches int     `json:"batches"`
}

type Metrics struct {
	TotalBatches               int           `json:"totalBatches"`
	CompliantBatches           int           `json:"compliantBatches"`
	PendingVerification        int           `json:"pendingVerification"`
	NonCompliantBatches        int           `json:"nonCompliantBatches"`
	AverageSustainabilityScore float64       `json:"averageSustainabilityScore"`
	TopSuppliers               []Supplier    `json:"topSuppliers"`
	CustodyEvents              int           `json:"custodyEvents"`
	OpenRequests               int           `json:"openRequests"`
	RecentBatches              []model.Batch `json:"recentBatches"`
	RecentAlerts               []Alert       `json:"recentAlerts"`
}

type AlertType string

const (
	AlertCompliance    AlertType = "compliance"
	AlertQuality       AlertType = "quality"
	AlertCustody       AlertType = "custody"
	AlertCertification AlertType = "certification"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type Alert struct {
	ID        string    `json:"id"`
	Type      AlertType `json:"type"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	BatchID   string    `json:"batchId,omitempty"`
	Resolved  bool      `json:"resolved"`
}
