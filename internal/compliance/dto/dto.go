package dto

import (
	"fmt"
	"time"

	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
)

type SortField string

const (
	SortBatchID             SortField = "batchId"
	SortOrigin              SortField = "origin"
	SortProcessingDate      SortField = "processingDate"
	SortSustainabilityScore SortField = "sustainabilityScore"
	SortCertificationStatus SortField = "certificationStatus"
	SortQualityParameters   SortField = "qualityParameters"
	SortActionStatus        SortField = "actionStatus"
	SortLastUpdated         SortField = "lastUpdated"
)

var SortFields = []SortField{
	SortBatchID, SortOrigin, SortProcessingDate, SortSustainabilityScore,
	SortCertificationStatus, SortQualityParameters, SortActionStatus, SortLastUpdated,
}

// DefaultSort is most recently processed first.
var DefaultSort = query.SortState[SortField]{Field: SortProcessingDate, Direction: query.Desc}

func ParseSortField(s string) (SortField, error) {
	if s == "" {
		return DefaultSort.Field, nil
	}
	for _, f := range SortFields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown compliance sort field %q", s)
}

func (f SortField) Key(c model.ComplianceBatch) query.Key {
	switch f {
	case SortBatchID:
		return query.StringKey(c.BatchID)
	case SortOrigin:
		return query.StringKey(c.Origin.Location)
	case SortProcessingDate:
		return query.TimeKey(c.ProcessingDate)
	case SortSustainabilityScore:
		return query.NumberKey(c.SustainabilityScore)
	case SortCertificationStatus:
		return query.StringKey(string(c.CertificationStatus))
	case SortQualityParameters:
		return query.StringKey(c.QualityParameters.Grade)
	case SortActionStatus:
		return query.StringKey(string(c.ActionStatus))
	case SortLastUpdated:
		return query.TimeKey(c.LastUpdated)
	}
	return query.StringKey(c.ID)
}

type ComplianceFilters struct {
	Search                 string     `json:"search,omitempty"`
	Origin                 string     `json:"origin,omitempty"`
	CertificationStatus    string     `json:"certificationStatus,omitempty"`
	ActionStatus           string     `json:"actionStatus,omitempty"`
	MinSustainabilityScore *int       `json:"minSustainabilityScore,omitempty"`
	ProcessingDateStart    *time.Time `json:"processingDateStart,omitempty"`
	ProcessingDateEnd      *time.Time `json:"processingDateEnd,omitempty"`
}

type ComplianceSummary struct {
	Total                      int                   `json:"total"`
	ActionStatus               []query.CategoryCount `json:"actionStatus"`
	CertificationStatus        []query.CategoryCount `json:"certificationStatus"`
	AverageSustainabilityScore float64               `json:"averageSustainabilityScore"`
	PendingIssues              int                   `json:"pendingIssues"`
}

type ListComplianceInput struct {
	Filters ComplianceFilters
	Params  query.ListParams[SortField]
}

type UpdateStatusInput struct {
	ID     string
	Status model.ActionStatus
	Note   string
}

type ExportComplianceInput struct {
	Filters ComplianceFilters
	Sort    query.SortState[SortField]
	Format  model.ReportFormat
}

type ExportResult struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// StatusChangedEvent is published after a status change commits.
type StatusChangedEvent struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	Payload   StatusChangedBody `json:"payload"`
	Timestamp time.Time         `json:"timestamp"`
}

type StatusChangedBody struct {
	ComplianceID string             `json:"compliance_id"`
	BatchID      string             `json:"batch_id"`
	Status       model.ActionStatus `json:"status"`
	UpdatedBy    string             `json:"updated_by"`
	Note         string             `json:"notes,omitempty"`
}
