package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

type ReportType string

const (
	ReportCompliance     ReportType = "compliance"
	ReportSustainability ReportType = "sustainability"
	ReportTraceability   ReportType = "traceability"
	ReportCustom         ReportType = "custom"
)

var ReportTypes = []ReportType{ReportCompliance, ReportSustainability, ReportTraceability, ReportCustom}

func (t ReportType) Valid() bool {
	return slices.Contains(ReportTypes, t)
}

type ReportFormat string

const (
	FormatJSON ReportFormat = "json"
	FormatCSV  ReportFormat = "csv"
)

var ErrInvalidFormat = errors.New("unsupported format")

// ParseReportFormat accepts json or csv in any case. Empty means json.
func ParseReportFormat(s string) (ReportFormat, error) {
	switch f := ReportFormat(strings.ToLower(s)); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("%w %q", ErrInvalidFormat, s)
}

type ReportStatus string

const (
	ReportGenerating ReportStatus = "generating"
	ReportCompleted  ReportStatus = "completed"
	ReportFailed     ReportStatus = "failed"
)

// ReportFilter is the persisted form of a batch filter attached to a report.
type ReportFilter struct {
	FarmerID               string     `json:"farmerId,omitempty"`
	Region                 string     `json:"region,omitempty"`
	HarvestDateStart       *time.Time `json:"harvestDateStart,omitempty"`
	HarvestDateEnd         *time.Time `json:"harvestDateEnd,omitempty"`
	Certifications         []string   `json:"certifications,omitempty"`
	ComplianceStatus       string     `json:"complianceStatus,omitempty"`
	SustainabilityScoreMin *int       `json:"sustainabilityScoreMin,omitempty"`
	QualityGrade           string     `json:"qualityGrade,omitempty"`
}

type Report struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	CreatedAt time.Time    `json:"createdAt"`
	CreatedBy string       `json:"createdBy"`
	Type      ReportType   `json:"type"`
	Filters   ReportFilter `json:"filters"`
	Format    ReportFormat `json:"format"`
	URL       string       `json:"url,omitempty"`
	Status    ReportStatus `json:"status"`
	Message   string       `json:"message,omitempty"`
}

func (r Report) Key() string { return r.ID }
