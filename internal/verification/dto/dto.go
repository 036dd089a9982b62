package dto

import (
	"fmt"

	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
)

type SortField string

const (
	SortID             SortField = "id"
	SortSubmissionDate SortField = "submissionDate"
	SortCompanyName    SortField = "companyName"
	SortStatus         SortField = "status"
	SortPriority       SortField = "priority"
	SortTimeInQueue    SortField = "timeInQueue"
)

var SortFields = []SortField{SortID, SortSubmissionDate, SortCompanyName, SortStatus, SortPriority, SortTimeInQueue}

// DefaultSort puts the longest waiting request first.
var DefaultSort = query.SortState[SortField]{Field: SortTimeInQueue, Direction: query.Desc}

func ParseSortField(s string) (SortField, error) {
	if s == "" {
		return DefaultSort.Field, nil
	}
	for _, f := range SortFields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown verification sort field %q", s)
}

func (f SortField) Key(v model.VerificationRequest) query.Key {
	switch f {
	case SortID:
		return query.StringKey(v.ID)
	case SortSubmissionDate:
		return query.TimeKey(v.SubmissionDate)
	case SortCompanyName:
		return query.StringKey(v.CompanyName)
	case SortStatus:
		return query.StringKey(string(v.Status))
	case SortPriority:
		return query.StringKey(string(v.Priority))
	case SortTimeInQueue:
		return query.NumberKey(v.TimeInQueue)
	}
	return query.StringKey(v.ID)
}

type VerificationFilters struct {
	Search   string `json:"search,omitempty"`
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
}

type QueueSummary struct {
	Total              int                   `json:"total"`
	ByStatus           []query.CategoryCount `json:"byStatus"`
	ByPriority         []query.CategoryCount `json:"byPriority"`
	AverageTimeInQueue float64               `json:"averageTimeInQueue"`
	ByAuditor          []query.GroupStat     `json:"byAuditor"`
}

type ListVerificationInput struct {
	Filters VerificationFilters
	Params  query.ListParams[SortField]
}

type ExportVerificationInput struct {
	Filters VerificationFilters
	Sort    query.SortState[SortField]
	Format  model.ReportFormat
}

type ExportResult struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}
