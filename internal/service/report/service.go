package report

import (
	"context"
	"time"

	"github.com/parishops/parish-api/internal/model"
	"github.com/parishops/parish-api/internal/repository"
	apperrors "github.com/parishops/parish-api/pkg/errors"
)

// Service assembles the end-of-day accounting report from appointment
// payments and counter sales.
type Service struct {
	repo         repository.ReportRepository
	paymentRepo  repository.PaymentRepository
	purchaseRepo repository.PurchaseRepository
}

func NewService(repo repository.ReportRepository, paymentRepo repository.PaymentRepository, purchaseRepo repository.PurchaseRepository) *Service {
	return &Service{
		repo:         repo,
		paymentRepo:  paymentRepo,
		purchaseRepo: purchaseRepo,
	}
}

// Daily totals the money collected on one calendar day, with every
// receipt listed in issue order.
func (s *Service) Daily(ctx context.Context, date time.Time, generatedBy string) (*model.DailyReport, error) {
	lines, err := s.repo.DailyLines(ctx, date)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	payments, err := s.paymentRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	purchases, err := s.purchaseRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	offeringTotal, err := s.repo.OfferingTotalForDate(ctx, date)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	report := &model.DailyReport{
		Date:              date,
		OfferingTotal:     offeringTotal,
		Lines:             lines,
		GeneratedAt:       time.Now(),
		GeneratedByUserID: generatedBy,
	}
	for _, p := range payments {
		report.PaymentTotal += p.AmountDue
		report.PaymentCount++
	}
	for _, p := range purchases {
		report.PurchaseTotal += p.Total
		report.PurchaseCount++
	}
	report.GrossTotal = report.PaymentTotal + report.PurchaseTotal

	return report, nil
}
