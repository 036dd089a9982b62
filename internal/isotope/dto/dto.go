package dto

import (
	"fmt"
	"time"

	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
)

type SortField string

const (
	SortBatchID            SortField = "batchId"
	SortFarmName           SortField = "farmName"
	SortRegion             SortField = "region"
	SortTestDate           SortField = "testDate"
	SortConfidenceScore    SortField = "confidenceScore"
	SortVerificationStatus SortField = "verificationStatus"
)

var SortFields = []SortField{SortBatchID, SortFarmName, SortRegion, SortTestDate, SortConfidenceScore, SortVerificationStatus}

var DefaultSort = query.SortState[SortField]{Field: SortTestDate, Direction: query.Desc}

func ParseSortField(s string) (SortField, error) {
	if s == "" {
		return DefaultSort.Field, nil
	}
	for _, f := range SortFields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown isotope sort field %q", s)
}

func (f SortField) Key(r model.IsotopeRecord) query.Key {
	switch f {
	case SortBatchID:
		return query.StringKey(r.BatchID)
	case SortFarmName:
		return query.StringKey(r.FarmName)
	case SortRegion:
		return query.StringKey(r.Location.Region)
	case SortTestDate:
		return query.TimeKey(r.TestDate)
	case SortConfidenceScore:
		return query.NumberKey(r.ConfidenceScore)
	case SortVerificationStatus:
		return query.StringKey(string(r.VerificationStatus))
	}
	return query.StringKey(r.ID)
}

type IsotopeFilters struct {
	Search             string     `json:"search,omitempty"`
	Region             string     `json:"region,omitempty"`
	VerificationStatus string     `json:"verificationStatus,omitempty"`
	DateStart          *time.Time `json:"dateStart,omitempty"`
	DateEnd            *time.Time `json:"dateEnd,omitempty"`
	ConfidenceMin      *int       `json:"confidenceMin,omitempty"`
}

// IsotopeMeans averages each ratio across the matched records.
type IsotopeMeans struct {
	Carbon   float64 `json:"carbon"`
	Nitrogen float64 `json:"nitrogen"`
	Oxygen   float64 `json:"oxygen"`
	Hydrogen float64 `json:"hydrogen"`
}

type IsotopeSummary struct {
	Total              int                   `json:"total"`
	VerificationStatus []query.CategoryCount `json:"verificationStatus"`
	AverageConfidence  float64               `json:"averageConfidence"`
	Means              IsotopeMeans          `json:"means"`
	ConfidenceByRegion []query.GroupStat     `json:"confidenceByRegion"`
	OutOfReference     int                   `json:"outOfReference"`
}

// TrendPoint is one month of the isotope trend chart.
type TrendPoint struct {
	Month string       `json:"month"`
	Label string       `json:"label"`
	Count int          `json:"count"`
	Means IsotopeMeans `json:"means"`
}

type ListIsotopesInput struct {
	Filters IsotopeFilters
	Params  query.ListParams[SortField]
}

type IsotopeDetail struct {
	Record model.IsotopeRecord `json:"record"`
	Match  model.IsotopeMatch  `json:"match"`
}

type ExportIsotopesInput struct {
	Filters IsotopeFilters
	Sort    query.SortState[SortField]
	Format  model.ReportFormat
}

type ExportResult struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}
