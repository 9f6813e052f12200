package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/parishops/parish-api/internal/model"
	"github.com/parishops/parish-api/internal/repository"
	"github.com/parishops/parish-api/internal/scheduling"
	apperrors "github.com/parishops/parish-api/pkg/errors"
)

// Service orchestrates appointment booking: it maps catalog rows into
// scheduling rules, runs the availability and conflict checks, and
// persists bookings only after every check passes.
type Service struct {
	repo        repository.AppointmentRepository
	catalogRepo repository.ServiceRepository
	reqRepo     repository.RequirementRepository
	enum        *scheduling.Enumerator
	multiDay    *scheduling.MultiDayChecker
	validator   *scheduling.Validator
	now         func() time.Time
}

func NewService(repo repository.AppointmentRepository, catalogRepo repository.ServiceRepository, reqRepo repository.RequirementRepository, cfg scheduling.Config, now func() time.Time) *Service {
	enum := scheduling.NewEnumerator(cfg)
	return &Service{
		repo:        repo,
		catalogRepo: catalogRepo,
		reqRepo:     reqRepo,
		enum:        enum,
		multiDay:    scheduling.NewMultiDayChecker(enum, repo),
		validator:   scheduling.NewValidator(enum, repo, now),
		now:         resolveNow(now),
	}
}

func resolveNow(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}

// GetAvailableTimeSlots lists the open start times for a service on a
// date. The slot grid is recomputed from the store on every call.
func (s *Service) GetAvailableTimeSlots(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]scheduling.Slot, error) {
	svc, err := s.activeService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ActiveIntervals(ctx, date)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	slots, err := s.enum.AvailableSlots(svc.Rule(), date, existing)
	if err != nil {
		var dayErr *scheduling.DayNotAllowedError
		if errors.As(err, &dayErr) {
			return nil, apperrors.Conflict(dayErr.Error())
		}
		return nil, apperrors.Internal(err)
	}
	return slots, nil
}

// CheckConsecutiveDaysAvailability reports per-day availability for a
// multi-day service span. A days value of zero uses the service's own
// span length.
func (s *Service) CheckConsecutiveDaysAvailability(ctx context.Context, serviceID uuid.UUID, startDate time.Time, days int) (*scheduling.ConsecutiveDayReport, error) {
	svc, err := s.activeService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	if days <= 0 {
		days = svc.ConsecutiveDays
	}
	if days <= 0 {
		return nil, apperrors.BadRequest(fmt.Sprintf("%s is not a multi-day service", svc.Name), nil)
	}

	report := s.multiDay.CheckConsecutiveDays(ctx, svc.Rule(), startDate, days)
	return &report, nil
}

// ValidateServiceTime checks a single date and start time against the
// conflict rules without persisting anything. A non-nil excludeID leaves
// that appointment out of the comparison, which makes the same check
// usable for reschedules.
func (s *Service) ValidateServiceTime(ctx context.Context, serviceID uuid.UUID, date time.Time, startMinute int, excludeID uuid.UUID) error {
	svc, err := s.activeService(ctx, serviceID)
	if err != nil {
		return err
	}
	rule := svc.Rule()

	if !rule.WeekdayAllowed(date.Weekday()) {
		return apperrors.Conflict((&scheduling.DayNotAllowedError{Service: rule.Name, Day: date.Weekday()}).Error())
	}

	var existing []scheduling.BookedInterval
	if excludeID == uuid.Nil {
		existing, err = s.repo.ActiveIntervals(ctx, date)
	} else {
		existing, err = s.repo.ActiveIntervalsExcluding(ctx, date, excludeID)
	}
	if err != nil {
		return apperrors.Internal(err)
	}

	candidate := scheduling.Interval{Start: startMinute, End: startMinute + rule.DurationMinutes}
	res := scheduling.CheckConflict(candidate, existing, scheduling.ConflictOptions{
		BufferMinutes:   s.enum.BufferMinutes(),
		AllowConcurrent: rule.AllowConcurrent,
		ServiceName:     rule.Name,
	})
	if res.HasConflict {
		return apperrors.Conflict(fmt.Sprintf(
			"the selected time conflicts with an existing %s booking; next available time is %s",
			res.ConflictingService, res.NextAvailableStart))
	}
	return nil
}

// Create validates and books an appointment. The full validation chain
// runs first; nothing is written on any failure.
func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	svc, err := s.activeService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	date, startMinute, err := parseDateTime(req.AppointmentDate, req.AppointmentTime)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}

	booking := scheduling.BookingRequest{
		Date:           date,
		StartMinute:    startMinute,
		AmountTendered: req.AmountTendered,
		OfferingTotal:  model.OfferingTotal(req.Offerings),
	}
	if err := s.validator.ValidateBooking(ctx, booking, svc.Rule()); err != nil {
		var vErr *scheduling.ValidationError
		if errors.As(err, &vErr) {
			return nil, apperrors.Conflict(vErr.Reason)
		}
		return nil, apperrors.Internal(err)
	}

	apt := &model.Appointment{
		ServiceID:       svc.ID,
		ServiceType:     svc.Name,
		ServiceDuration: svc.DurationMinutes,
		AppointmentDate: date,
		AppointmentTime: startMinute,
		ParishionerName: req.ParishionerName,
		ContactEmail:    req.ContactEmail,
		ContactPhone:    req.ContactPhone,
		Status:          model.AppointmentStatusPending,
		Notes:           req.Notes,
	}
	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, apperrors.Internal(err)
	}
	return apt, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return apt, nil
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return appointments, nil
}

// Update applies edits to a pending or confirmed appointment. A changed
// date or time is revalidated against every other booking before the
// write.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !apt.Status.OccupiesTime() {
		return nil, apperrors.Conflict(fmt.Sprintf("a %s appointment cannot be edited", apt.Status))
	}

	date := apt.AppointmentDate
	startMinute := apt.AppointmentTime
	rescheduled := false

	if req.AppointmentDate != nil {
		d, err := time.Parse("2006-01-02", *req.AppointmentDate)
		if err != nil {
			return nil, apperrors.BadRequest("appointment_date must be YYYY-MM-DD", err)
		}
		date = d
		rescheduled = true
	}
	if req.AppointmentTime != nil {
		m, err := scheduling.ParseClock(*req.AppointmentTime)
		if err != nil {
			return nil, apperrors.BadRequest("appointment_time must be HH:MM", err)
		}
		startMinute = m
		rescheduled = true
	}

	if rescheduled {
		if !date.After(startOfDay(s.now())) {
			return nil, apperrors.Conflict("bookings must be made at least one day in advance")
		}
		if err := s.ValidateServiceTime(ctx, apt.ServiceID, date, startMinute, apt.ID); err != nil {
			return nil, err
		}
		apt.AppointmentDate = date
		apt.AppointmentTime = startMinute
	}

	if req.Notes != nil {
		apt.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, apperrors.Internal(err)
	}
	return apt, nil
}

func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if apt.Status != model.AppointmentStatusPending {
		return nil, apperrors.Conflict(fmt.Sprintf("only pending appointments can be confirmed, this one is %s", apt.Status))
	}

	apt.Status = model.AppointmentStatusConfirmed
	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, apperrors.Internal(err)
	}
	return apt, nil
}

// Cancel releases the appointment's time and archives the record. The
// freed interval becomes bookable on the next slot query.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string) (*model.Appointment, error) {
	apt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !apt.Status.OccupiesTime() {
		return nil, apperrors.Conflict(fmt.Sprintf("a %s appointment cannot be cancelled", apt.Status))
	}

	apt.Status = model.AppointmentStatusCancelled
	apt.CancelReason = &reason
	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := s.repo.Archive(ctx, apt); err != nil {
		return nil, apperrors.Internal(err)
	}
	return apt, nil
}

func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if apt.Status != model.AppointmentStatusConfirmed {
		return nil, apperrors.Conflict(fmt.Sprintf("only confirmed appointments can be completed, this one is %s", apt.Status))
	}

	apt.Status = model.AppointmentStatusCompleted
	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := s.repo.Archive(ctx, apt); err != nil {
		return nil, apperrors.Internal(err)
	}
	return apt, nil
}

// AddRequirement attaches a document prerequisite to a live appointment.
func (s *Service) AddRequirement(ctx context.Context, req *model.CreateRequirementRequest) (*model.Requirement, error) {
	apt, err := s.Get(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if !apt.Status.OccupiesTime() {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot add requirements to a %s appointment", apt.Status))
	}

	requirement := &model.Requirement{
		AppointmentID: apt.ID,
		Name:          req.Name,
		Notes:         req.Notes,
	}
	if err := s.reqRepo.Create(ctx, requirement); err != nil {
		return nil, apperrors.Internal(err)
	}
	return requirement, nil
}

func (s *Service) ListRequirements(ctx context.Context, appointmentID uuid.UUID) ([]*model.Requirement, error) {
	if _, err := s.Get(ctx, appointmentID); err != nil {
		return nil, err
	}
	requirements, err := s.reqRepo.ListByAppointment(ctx, appointmentID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return requirements, nil
}

// MarkRequirementReceived records that a prerequisite document arrived.
func (s *Service) MarkRequirementReceived(ctx context.Context, appointmentID, requirementID uuid.UUID, received bool, notes string) (*model.Requirement, error) {
	requirements, err := s.ListRequirements(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	for _, r := range requirements {
		if r.ID == requirementID {
			r.Received = received
			if notes != "" {
				r.Notes = notes
			}
			if err := s.reqRepo.Update(ctx, r); err != nil {
				return nil, apperrors.Internal(err)
			}
			return r, nil
		}
	}
	return nil, apperrors.NotFound("requirement", nil)
}

func (s *Service) activeService(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	svc, err := s.catalogRepo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("service", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if svc.Status != model.ServiceStatusActive {
		return nil, apperrors.Conflict(fmt.Sprintf("%s is no longer offered", svc.Name))
	}
	return svc, nil
}

func parseDateTime(dateStr, timeStr string) (time.Time, int, error) {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("appointment_date must be YYYY-MM-DD")
	}
	startMinute, err := scheduling.ParseClock(timeStr)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("appointment_time must be HH:MM")
	}
	return date, startMinute, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
