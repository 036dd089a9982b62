package dto

import (
	"fmt"
	"time"

	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
)

type SortField string

const (
	SortID                  SortField = "id"
	SortFarmName            SortField = "farmName"
	SortHarvestDate         SortField = "harvestDate"
	SortLocation            SortField = "location"
	SortQuantity            SortField = "quantity"
	SortQuality             SortField = "quality"
	SortComplianceStatus    SortField = "complianceStatus"
	SortSustainabilityScore SortField = "sustainabilityScore"
)

var SortFields = []SortField{
	SortID, SortFarmName, SortHarvestDate, SortLocation,
	SortQuantity, SortQuality, SortComplianceStatus, SortSustainabilityScore,
}

// DefaultSort is newest harvest first.
var DefaultSort = query.SortState[SortField]{Field: SortHarvestDate, Direction: query.Desc}

// ParseSortField accepts the column names above. Empty means the default.
func ParseSortField(s string) (SortField, error) {
	if s == "" {
		return DefaultSort.Field, nil
	}
	for _, f := range SortFields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown batch sort field %q", s)
}

// Key resolves location to region, quality to grade and
// complianceStatus to the forced labor verification status.
func (f SortField) Key(b model.Batch) query.Key {
	switch f {
	case SortID:
		return query.StringKey(b.ID)
	case SortFarmName:
		return query.StringKey(b.FarmName)
	case SortHarvestDate:
		return query.TimeKey(b.HarvestDate)
	case SortLocation:
		return query.StringKey(b.Location.Region)
	case SortQuantity:
		return query.NumberKey(b.Quantity)
	case SortQuality:
		return query.StringKey(b.Quality.Grade)
	case SortComplianceStatus:
		return query.StringKey(string(b.ComplianceStatus.ForcedLaborVerification.Status))
	case SortSustainabilityScore:
		return query.NumberKey(b.SustainabilityScore)
	}
	return query.StringKey(b.ID)
}

// BatchFilters holds the optional batch criteria. Zero values are absent.
type BatchFilters struct {
	Search                 string     `json:"search,omitempty"`
	FarmerID               string     `json:"farmerId,omitempty"`
	Region                 string     `json:"region,omitempty"`
	HarvestDateStart       *time.Time `json:"harvestDateStart,omitempty"`
	HarvestDateEnd         *time.Time `json:"harvestDateEnd,omitempty"`
	Certifications         []string   `json:"certifications,omitempty"`
	ComplianceStatus       string     `json:"complianceStatus,omitempty"`
	SustainabilityScoreMin *int       `json:"sustainabilityScoreMin,omitempty"`
	QualityGrade           string     `json:"qualityGrade,omitempty"`
}

// FromReportFilter converts the filter saved on a report.
func FromReportFilter(f model.ReportFilter) BatchFilters {
	return BatchFilters{
		FarmerID:               f.FarmerID,
		Region:                 f.Region,
		HarvestDateStart:       f.HarvestDateStart,
		HarvestDateEnd:         f.HarvestDateEnd,
		Certifications:         f.Certifications,
		ComplianceStatus:       f.ComplianceStatus,
		SustainabilityScoreMin: f.SustainabilityScoreMin,
		QualityGrade:           f.QualityGrade,
	}
}

type BatchSummary struct {
	Total                      int                   `json:"total"`
	ForcedLabor                []query.CategoryCount `json:"forcedLabor"`
	Certifications             []query.CategoryCount `json:"certifications"`
	AverageSustainabilityScore float64               `json:"averageSustainabilityScore"`
	ByRegion                   []query.GroupStat     `json:"byRegion"`
	CustodyEvents              int                   `json:"custodyEvents"`
}
