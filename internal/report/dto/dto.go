package dto

import "github.com/fekuna/cottontrace-service/internal/model"

type ReportFilters struct {
	Type   string `json:"type,omitempty"`
	Status string `json:"status,omitempty"`
}

type GenerateReportInput struct {
	Name    string
	Type    model.ReportType
	Format  model.ReportFormat
	Filters model.ReportFilter
}
