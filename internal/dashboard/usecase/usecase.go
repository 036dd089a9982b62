package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/cottontrace-service/internal/batch"
	batchdto "github.com/fekuna/cottontrace-service/internal/batch/dto"
	"github.com/fekuna/cottontrace-service/internal/compliance"
	compliancedto "github.com/fekuna/cottontrace-service/internal/compliance/dto"
	"github.com/fekuna/cottontrace-service/internal/dashboard"
	"github.com/fekuna/cottontrace-service/internal/dashboard/dto"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
	"github.com/fekuna/cottontrace-service/internal/verification"
	"github.com/fekuna/cottontrace-service/pkg/logger"
	"go.uber.org/zap"
)

const (
	topSuppliers   = 5
	recentBatches  = 5
	recentAlerts   = 5
	expiryLookhead = 90 * 24 * time.Hour
)

type dashboardUseCase struct {
	batches      batch.UseCase
	compliance   compliance.UseCase
	verification verification.UseCase
	logger       logger.ZapLogger
	now          func() time.Time
}

func NewDashboardUseCase(b batch.UseCase, c compliance.UseCase, v verification.UseCase, log logger.ZapLogger) dashboard.UseCase {
	return &dashboardUseCase{
		batches:      b,
		compliance:   c,
		verification: v,
		logger:       log,
		now:          time.Now,
	}
}

func (uc *dashboardUseCase) Metrics(ctx context.Context) (*dto.Metrics, error) {
	batches, err := uc.batches.FilteredBatches(ctx, nil, batchdto.DefaultSort)
	if err != nil {
		return nil, err
	}
	queue, err := uc.verification.SummarizeQueue(ctx, nil)
	if err != nil {
		return nil, err
	}
	alerts, err := uc.Alerts(ctx, recentAlerts)
	if err != nil {
		return nil, err
	}

	labor := query.CountBy(batches, func(b model.Batch) string {
		return string(b.ComplianceStatus.ForcedLaborVerification.Status)
	}, query.Strings(model.VerificationStatuses))

	custody := 0
	for _, b := range batches {
		custody += len(b.CustodyChain)
	}

	return &dto.Metrics{
		TotalBatches:               len(batches),
		CompliantBatches:           query.CountOf(labor, string(model.VerificationVerified)),
		PendingVerification:        query.CountOf(labor, string(model.VerificationPending)),
		NonCompliantBatches:        query.CountOf(labor, string(model.VerificationFailed)),
		AverageSustainabilityScore: query.MeanOf(batches, func(b model.Batch) float64 { return float64(b.SustainabilityScore) }),
		TopSuppliers:               suppliers(batches, topSuppliers),
		CustodyEvents:              custody,
		OpenRequests:               query.CountOf(queue.ByStatus, string(model.RequestPending)) + query.CountOf(queue.ByStatus, string(model.RequestInReview)),
		RecentBatches:              batches[:min(recentBatches, len(batches))],
		RecentAlerts:               alerts,
	}, nil
}

// suppliers ranks farms by mean sustainability score. Ties keep the
// order in which farms first appear.
func suppliers(batches []model.Batch, n int) []dto.Supplier {
	groups := query.GroupBy(batches, func(b model.Batch) string { return b.FarmName },
		func(b model.Batch) float64 { return float64(b.SustainabilityScore) })
	groups = query.Sort(groups, func(g query.GroupStat) query.Key { return query.NumberKey(g.Average) }, query.Desc)

	out := make([]dto.Supplier, 0, min(n, len(groups)))
	for _, g := range groups[:min(n, len(groups))] {
		out = append(out, dto.Supplier{Name: g.Key, Score: g.Average, Batches: g.Count})
	}
	return out
}

func (uc *dashboardUseCase) Alerts(ctx context.Context, limit int) ([]dto.Alert, error) {
	batches, err := uc.batches.FilteredBatches(ctx, nil, batchdto.DefaultSort)
	if err != nil {
		return nil, err
	}
	held, err := uc.compliance.FilteredComplianceBatches(ctx,
		&compliancedto.ComplianceFilters{ActionStatus: string(model.ActionHold)}, compliancedto.DefaultSort)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	var alerts []dto.Alert
	for _, b := range batches {
		alerts = append(alerts, batchAlerts(b, now)...)
	}
	for _, c := range held {
		if len(c.PendingIssues) == 0 {
			continue
		}
		alerts = append(alerts, dto.Alert{
			Type:      dto.AlertCompliance,
			Severity:  dto.SeverityMedium,
			Message:   fmt.Sprintf("Harvest %s on hold with %d pending issues", c.BatchID, len(c.PendingIssues)),
			Timestamp: c.LastUpdated,
			BatchID:   c.BatchID,
		})
	}

	alerts = query.Sort(alerts, func(a dto.Alert) query.Key { return query.TimeKey(a.Timestamp) }, query.Desc)
	for i := range alerts {
		alerts[i].ID = fmt.Sprintf("ALERT-%03d", i+1)
	}
	if limit > 0 && len(alerts) > limit {
		alerts = alerts[:limit]
	}
	uc.logger.Debug("derived dashboard alerts", zap.Int("count", len(alerts)))
	return alerts, nil
}

func batchAlerts(b model.Batch, now time.Time) []dto.Alert {
	var out []dto.Alert
	labor := b.ComplianceStatus.ForcedLaborVerification
	if labor.Status == model.VerificationFailed {
		ts := b.HarvestDate
		if labor.VerificationDate != nil {
			ts = *labor.VerificationDate
		}
		out = append(out, dto.Alert{
			Type:      dto.AlertCompliance,
			Severity:  dto.SeverityHigh,
			Message:   fmt.Sprintf("Harvest %s failed forced labor verification", b.ID),
			Timestamp: ts,
			BatchID:   b.ID,
		})
	}
	if strings.HasPrefix(b.Quality.Grade, "C") {
		out = append(out, dto.Alert{
			Type:      dto.AlertQuality,
			Severity:  dto.SeverityMedium,
			Message:   fmt.Sprintf("Harvest %s below quality threshold at grade %s", b.ID, b.Quality.Grade),
			Timestamp: b.GinData.ExitDate,
			BatchID:   b.ID,
		})
	}
	if len(b.CustodyChain) == 0 {
		out = append(out, dto.Alert{
			Type:      dto.AlertCustody,
			Severity:  dto.SeverityLow,
			Message:   fmt.Sprintf("Harvest %s has no recorded custody transfer", b.ID),
			Timestamp: b.HarvestDate,
			BatchID:   b.ID,
		})
	}
	for _, c := range b.Certifications {
		switch {
		case c.Status == model.CertificationRevoked:
		case c.EffectiveStatus(now) == model.CertificationExpired:
			out = append(out, dto.Alert{
				Type:      dto.AlertCertification,
				Severity:  dto.SeverityMedium,
				Message:   fmt.Sprintf("Certification %s expired", c.ID),
				Timestamp: c.ExpiryDate,
				BatchID:   b.ID,
			})
		case c.ExpiryDate.Sub(now) <= expiryLookhead:
			out = append(out, dto.Alert{
				Type:      dto.AlertCertification,
				Severity:  dto.SeverityLow,
				Message:   fmt.Sprintf("Certification %s approaching expiration", c.ID),
				Timestamp: c.ExpiryDate.Add(-expiryLookhead),
				BatchID:   b.ID,
			})
		}
	}
	return out
}
