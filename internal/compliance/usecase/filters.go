package usecase

import (
	"strings"
	"time"

	"github.com/fekuna/cottontrace-service/internal/compliance/dto"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
)

func predicates(f *dto.ComplianceFilters) query.Predicates[model.ComplianceBatch] {
	var ps query.Predicates[model.ComplianceBatch]
	if f == nil {
		return ps
	}
	ps.Add(f.Search != "", query.ContainsFold(f.Search, func(c model.ComplianceBatch) []string {
		return []string{c.BatchID, c.Origin.Location, c.Origin.Country, c.ComplianceNotes}
	}))
	ps.Add(f.Origin != "", func(c model.ComplianceBatch) bool {
		return strings.EqualFold(c.Origin.Location, f.Origin) || strings.EqualFold(c.Origin.Country, f.Origin)
	})
	ps.Add(f.CertificationStatus != "", query.EqualFold(f.CertificationStatus, func(c model.ComplianceBatch) string {
		return string(c.CertificationStatus)
	}))
	ps.Add(f.ActionStatus != "", query.EqualFold(f.ActionStatus, func(c model.ComplianceBatch) string {
		return string(c.ActionStatus)
	}))
	if f.MinSustainabilityScore != nil {
		ps.Add(true, query.AtLeast(*f.MinSustainabilityScore, func(c model.ComplianceBatch) int { return c.SustainabilityScore }))
	}
	ps.Add(f.ProcessingDateStart != nil || f.ProcessingDateEnd != nil,
		query.Within(f.ProcessingDateStart, f.ProcessingDateEnd, func(c model.ComplianceBatch) time.Time { return c.ProcessingDate }))
	return ps
}
