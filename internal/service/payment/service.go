package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/parishops/parish-api/internal/email"
	"github.com/parishops/parish-api/internal/model"
	"github.com/parishops/parish-api/internal/repository"
	apperrors "github.com/parishops/parish-api/pkg/errors"
	"github.com/parishops/parish-api/pkg/logger"
)

// Service collects payments for appointments. Cash only: the amount due
// is the service fee plus any offerings, change is computed from the
// tendered amount, and every payment gets a sequential receipt number.
type Service struct {
	repo        repository.PaymentRepository
	aptRepo     repository.AppointmentRepository
	catalogRepo repository.ServiceRepository
	mailer      email.Service
	logger      *logger.Logger
}

func NewService(repo repository.PaymentRepository, aptRepo repository.AppointmentRepository, catalogRepo repository.ServiceRepository, mailer email.Service, logger *logger.Logger) *Service {
	return &Service{
		repo:        repo,
		aptRepo:     aptRepo,
		catalogRepo: catalogRepo,
		mailer:      mailer,
		logger:      logger,
	}
}

// Record collects payment for an appointment. The tendered amount must
// cover the service fee plus offerings in full; partial payments are
// rejected with the exact shortfall.
func (s *Service) Record(ctx context.Context, req *model.RecordPaymentRequest, collectedBy uuid.UUID) (*model.Payment, error) {
	apt, err := s.aptRepo.Get(ctx, req.AppointmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !apt.Status.OccupiesTime() {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot collect payment for a %s appointment", apt.Status))
	}

	if existing, err := s.repo.GetByAppointment(ctx, apt.ID); err == nil && existing != nil {
		return nil, apperrors.Conflict(fmt.Sprintf("appointment already paid under receipt %s", existing.ReceiptNumber))
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}

	svc, err := s.catalogRepo.Get(ctx, apt.ServiceID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("service", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	amountDue := svc.Price + model.OfferingTotal(req.Offerings)
	if req.AmountTendered < amountDue {
		return nil, apperrors.Conflict(fmt.Sprintf(
			"insufficient payment: %.2f tendered, %.2f required (short %.2f)",
			req.AmountTendered, amountDue, amountDue-req.AmountTendered))
	}

	method := req.Method
	if method == "" {
		method = model.PaymentMethodCash
	}

	payment := &model.Payment{
		AppointmentID:  apt.ID,
		AmountDue:      amountDue,
		AmountTendered: req.AmountTendered,
		ChangeGiven:    req.AmountTendered - amountDue,
		Method:         method,
		CollectedBy:    collectedBy,
	}
	for _, o := range req.Offerings {
		payment.Offerings = append(payment.Offerings, model.OfferingItem{
			Description: o.Description,
			Amount:      o.Amount,
		})
	}

	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, apperrors.Internal(err)
	}

	if req.EmailReceipt && apt.ContactEmail != "" {
		// Receipt delivery never fails the payment.
		if err := s.mailer.SendReceipt(apt.ContactEmail, payment, apt); err != nil {
			s.logger.Error(err, "receipt email failed", "receipt", payment.ReceiptNumber)
		}
	}

	return payment, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	payment, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("payment", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return payment, nil
}

func (s *Service) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*model.Payment, error) {
	payment, err := s.repo.GetByAppointment(ctx, appointmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("payment", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return payment, nil
}
