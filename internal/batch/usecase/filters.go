package usecase

import (
	"time"

	"github.com/fekuna/cottontrace-service/internal/batch/dto"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
)

func predicates(f *dto.BatchFilters) query.Predicates[model.Batch] {
	var ps query.Predicates[model.Batch]
	if f == nil {
		return ps
	}
	ps.Add(f.Search != "", query.ContainsFold(f.Search, func(b model.Batch) []string {
		return []string{b.ID, b.FarmName, b.Location.Region, b.Location.Country}
	}))
	ps.Add(f.FarmerID != "", query.Equal(f.FarmerID, func(b model.Batch) string { return b.FarmerID }))
	ps.Add(f.Region != "", query.EqualFold(f.Region, func(b model.Batch) string { return b.Location.Region }))
	ps.Add(f.HarvestDateStart != nil || f.HarvestDateEnd != nil,
		query.Within(f.HarvestDateStart, f.HarvestDateEnd, func(b model.Batch) time.Time { return b.HarvestDate }))
	ps.Add(len(f.Certifications) > 0, query.AnyIn(f.Certifications, certificationTypes))
	ps.Add(f.ComplianceStatus != "", query.EqualFold(f.ComplianceStatus, forcedLaborStatus))
	if f.SustainabilityScoreMin != nil {
		ps.Add(true, query.AtLeast(*f.SustainabilityScoreMin, func(b model.Batch) int { return b.SustainabilityScore }))
	}
	ps.Add(f.QualityGrade != "", query.EqualFold(f.QualityGrade, func(b model.Batch) string { return b.Quality.Grade }))
	return ps
}

func certificationTypes(b model.Batch) []string {
	out := make([]string, len(b.Certifications))
	for i, c := range b.Certifications {
		out[i] = string(c.Type)
	}
	return out
}

func forcedLaborStatus(b model.Batch) string {
	return string(b.ComplianceStatus.ForcedLaborVerification.Status)
}
