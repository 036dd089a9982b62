package dto

import (
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
)

type ListBatchesInput struct {
	Filters BatchFilters
	Params  query.ListParams[SortField]
}

type ExportBatchesInput struct {
	Filters BatchFilters
	Sort    query.SortState[SortField]
	Format  model.ReportFormat
}

type ExportResult struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

type RecordCustodyInput struct {
	BatchID string
	Event   model.CustodyEvent
}
