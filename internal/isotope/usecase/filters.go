package usecase

import (
	"time"

	"github.com/fekuna/cottontrace-service/internal/isotope/dto"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
)

func predicates(f *dto.IsotopeFilters) query.Predicates[model.IsotopeRecord] {
	var ps query.Predicates[model.IsotopeRecord]
	if f == nil {
		return ps
	}
	ps.Add(f.Search != "", query.ContainsFold(f.Search, func(r model.IsotopeRecord) []string {
		return []string{r.BatchID, r.FarmName, r.Location.Region}
	}))
	ps.Add(f.Region != "", query.EqualFold(f.Region, func(r model.IsotopeRecord) string { return r.Location.Region }))
	ps.Add(f.VerificationStatus != "", query.EqualFold(f.VerificationStatus, func(r model.IsotopeRecord) string {
		return string(r.VerificationStatus)
	}))
	ps.Add(f.DateStart != nil || f.DateEnd != nil,
		query.Within(f.DateStart, f.DateEnd, func(r model.IsotopeRecord) time.Time { return r.TestDate }))
	if f.ConfidenceMin != nil {
		ps.Add(true, query.AtLeast(*f.ConfidenceMin, func(r model.IsotopeRecord) int { return r.ConfidenceScore }))
	}
	return ps
}
