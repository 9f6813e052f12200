package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parishops/parish-api/internal/model"
	"github.com/parishops/parish-api/internal/repository"
	"github.com/parishops/parish-api/internal/scheduling"
	apperrors "github.com/parishops/parish-api/pkg/errors"
)

// fixedNow keeps the advance-booking check deterministic: Friday.
var fixedNow = time.Date(2026, 9, 4, 10, 0, 0, 0, time.UTC)

// sunday is the first Sunday after fixedNow.
var sunday = time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
	archived     []*model.Appointment
	failDates    map[string]bool
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{
		appointments: make(map[uuid.UUID]*model.Appointment),
		failDates:    make(map[string]bool),
	}
}

func (f *fakeAppointmentRepo) Create(_ context.Context, apt *model.Appointment) error {
	apt.ID = uuid.New()
	f.appointments[apt.ID] = apt
	return nil
}

func (f *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := f.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return apt, nil
}

func (f *fakeAppointmentRepo) Update(_ context.Context, apt *model.Appointment) error {
	if _, ok := f.appointments[apt.ID]; !ok {
		return repository.ErrNotFound
	}
	f.appointments[apt.ID] = apt
	return nil
}

func (f *fakeAppointmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.appointments, id)
	return nil
}

func (f *fakeAppointmentRepo) List(_ context.Context, _ *model.AppointmentFilters) ([]*model.Appointment, error) {
	out := make([]*model.Appointment, 0, len(f.appointments))
	for _, apt := range f.appointments {
		out = append(out, apt)
	}
	return out, nil
}

func (f *fakeAppointmentRepo) ActiveIntervals(_ context.Context, date time.Time) ([]scheduling.BookedInterval, error) {
	if f.failDates[date.Format("2006-01-02")] {
		return nil, errors.New("store unavailable")
	}
	var out []scheduling.BookedInterval
	for _, apt := range f.appointments {
		if apt.AppointmentDate.Equal(date) && apt.Status.OccupiesTime() {
			out = append(out, scheduling.BookedInterval{
				Date:        apt.AppointmentDate,
				Start:       apt.AppointmentTime,
				Duration:    apt.ServiceDuration,
				ServiceName: apt.ServiceType,
			})
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) ActiveIntervalsExcluding(ctx context.Context, date time.Time, excludeID uuid.UUID) ([]scheduling.BookedInterval, error) {
	all, err := f.ActiveIntervals(ctx, date)
	if err != nil {
		return nil, err
	}
	excluded, ok := f.appointments[excludeID]
	if !ok {
		return all, nil
	}
	var out []scheduling.BookedInterval
	for _, iv := range all {
		if iv.Start == excluded.AppointmentTime && iv.ServiceName == excluded.ServiceType {
			continue
		}
		out = append(out, iv)
	}
	return out, nil
}

func (f *fakeAppointmentRepo) Archive(_ context.Context, apt *model.Appointment) error {
	f.archived = append(f.archived, apt)
	return nil
}

type fakeServiceRepo struct {
	services map[uuid.UUID]*model.Service
}

func newFakeServiceRepo(services ...*model.Service) *fakeServiceRepo {
	f := &fakeServiceRepo{services: make(map[uuid.UUID]*model.Service)}
	for _, svc := range services {
		f.services[svc.ID] = svc
	}
	return f
}

func (f *fakeServiceRepo) Create(_ context.Context, svc *model.Service) error {
	svc.ID = uuid.New()
	f.services[svc.ID] = svc
	return nil
}

func (f *fakeServiceRepo) Get(_ context.Context, id uuid.UUID) (*model.Service, error) {
	svc, ok := f.services[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return svc, nil
}

func (f *fakeServiceRepo) GetByName(_ context.Context, name string) (*model.Service, error) {
	for _, svc := range f.services {
		if svc.Name == name {
			return svc, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeServiceRepo) List(_ context.Context, _ string) ([]*model.Service, error) {
	out := make([]*model.Service, 0, len(f.services))
	for _, svc := range f.services {
		out = append(out, svc)
	}
	return out, nil
}

func (f *fakeServiceRepo) Update(_ context.Context, svc *model.Service) error {
	f.services[svc.ID] = svc
	return nil
}

func (f *fakeServiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.services, id)
	return nil
}

type fakeRequirementRepo struct {
	requirements map[uuid.UUID]*model.Requirement
}

func newFakeRequirementRepo() *fakeRequirementRepo {
	return &fakeRequirementRepo{requirements: make(map[uuid.UUID]*model.Requirement)}
}

func (f *fakeRequirementRepo) Create(_ context.Context, req *model.Requirement) error {
	req.ID = uuid.New()
	f.requirements[req.ID] = req
	return nil
}

func (f *fakeRequirementRepo) ListByAppointment(_ context.Context, appointmentID uuid.UUID) ([]*model.Requirement, error) {
	var out []*model.Requirement
	for _, r := range f.requirements {
		if r.AppointmentID == appointmentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequirementRepo) Update(_ context.Context, req *model.Requirement) error {
	f.requirements[req.ID] = req
	return nil
}

func (f *fakeRequirementRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.requirements, id)
	return nil
}

func weddingService() *model.Service {
	return &model.Service{
		Base:            model.Base{ID: uuid.New()},
		Name:            "Wedding",
		Price:           1500,
		DurationMinutes: 120,
		AllowedDays:     []int64{0, 6},
		Status:          model.ServiceStatusActive,
	}
}

func baptismService() *model.Service {
	return &model.Service{
		Base:            model.Base{ID: uuid.New()},
		Name:            "Baptism",
		Price:           500,
		DurationMinutes: 60,
		AllowedDays:     []int64{0},
		AllowConcurrent: true,
		Status:          model.ServiceStatusActive,
	}
}

func newTestService(aptRepo *fakeAppointmentRepo, svcRepo *fakeServiceRepo) *Service {
	return NewService(aptRepo, svcRepo, newFakeRequirementRepo(), scheduling.DefaultConfig(), func() time.Time { return fixedNow })
}

func TestGetAvailableTimeSlotsEmptyDay(t *testing.T) {
	wedding := weddingService()
	svc := newTestService(newFakeAppointmentRepo(), newFakeServiceRepo(wedding))

	slots, err := svc.GetAvailableTimeSlots(context.Background(), wedding.ID, sunday)
	require.NoError(t, err)

	// 08:00 through 15:00 inclusive for a two-hour service.
	assert.Len(t, slots, 15)
	assert.Equal(t, "8:00 AM", slots[0].Label)
}

func TestGetAvailableTimeSlotsWrongDay(t *testing.T) {
	wedding := weddingService()
	svc := newTestService(newFakeAppointmentRepo(), newFakeServiceRepo(wedding))

	monday := sunday.AddDate(0, 0, 1)
	_, err := svc.GetAvailableTimeSlots(context.Background(), wedding.ID, monday)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	assert.Contains(t, appErr.Message, "Monday")
}

func TestGetAvailableTimeSlotsUnknownService(t *testing.T) {
	svc := newTestService(newFakeAppointmentRepo(), newFakeServiceRepo())

	_, err := svc.GetAvailableTimeSlots(context.Background(), uuid.New(), sunday)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestCreateBooksAndSnapshotsService(t *testing.T) {
	wedding := weddingService()
	aptRepo := newFakeAppointmentRepo()
	svc := newTestService(aptRepo, newFakeServiceRepo(wedding))

	apt, err := svc.Create(context.Background(), &model.CreateAppointmentRequest{
		ServiceID:       wedding.ID,
		AppointmentDate: sunday.Format("2006-01-02"),
		AppointmentTime: "10:00",
		ParishionerName: "Maria Santos",
		AmountTendered:  1500,
	})
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusPending, apt.Status)
	assert.Equal(t, "Wedding", apt.ServiceType)
	assert.Equal(t, 120, apt.ServiceDuration)
	assert.Equal(t, 600, apt.AppointmentTime)
	assert.Len(t, aptRepo.appointments, 1)
}

func TestCreateRejectsConflictWithNextAvailable(t *testing.T) {
	wedding := weddingService()
	aptRepo := newFakeAppointmentRepo()
	svc := newTestService(aptRepo, newFakeServiceRepo(wedding))

	_, err := svc.Create(context.Background(), &model.CreateAppointmentRequest{
		ServiceID:       wedding.ID,
		AppointmentDate: sunday.Format("2006-01-02"),
		AppointmentTime: "08:00",
		ParishionerName: "Maria Santos",
		AmountTendered:  1500,
	})
	require.NoError(t, err)

	// 10:30 starts inside the buffer after the 08:00-10:00 wedding.
	_, err = svc.Create(context.Background(), &model.CreateAppointmentRequest{
		ServiceID:       wedding.ID,
		AppointmentDate: sunday.Format("2006-01-02"),
		AppointmentTime: "10:30",
		ParishionerName: "Jose Cruz",
		AmountTendered:  1500,
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	assert.Contains(t, appErr.Message, "11:00 AM")
	assert.Len(t, aptRepo.appointments, 1)
}

func TestCreateRejectsInsufficientPayment(t *testing.T) {
	wedding := weddingService()
	aptRepo := newFakeAppointmentRepo()
	svc := newTestService(aptRepo, newFakeServiceRepo(wedding))

	_, err := svc.Create(context.Background(), &model.CreateAppointmentRequest{
		ServiceID:       wedding.ID,
		AppointmentDate: sunday.Format("2006-01-02"),
		AppointmentTime: "10:00",
		ParishionerName: "Maria Santos",
		AmountTendered:  1499.99,
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	assert.Contains(t, appErr.Message, "short 0.01")
	assert.Empty(t, aptRepo.appointments)
}

func TestCreateRejectsSameDayBooking(t *testing.T) {
	wedding := weddingService()
	svc := newTestService(newFakeAppointmentRepo(), newFakeServiceRepo(wedding))

	_, err := svc.Create(context.Background(), &model.CreateAppointmentRequest{
		ServiceID:       wedding.ID,
		AppointmentDate: fixedNow.Format("2006-01-02"),
		AppointmentTime: "10:00",
		ParishionerName: "Maria Santos",
		AmountTendered:  1500,
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Message, "one day in advance")
}

func TestCreateRejectsInactiveService(t *testing.T) {
	wedding := weddingService()
	wedding.Status = model.ServiceStatusInactive
	svc := newTestService(newFakeAppointmentRepo(), newFakeServiceRepo(wedding))

	_, err := svc.Create(context.Background(), &model.CreateAppointmentRequest{
		ServiceID:       wedding.ID,
		AppointmentDate: sunday.Format("2006-01-02"),
		AppointmentTime: "10:00",
		ParishionerName: "Maria Santos",
		AmountTendered:  1500,
	})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestConcurrentServiceSharesStartTime(t *testing.T) {
	baptism := baptismService()
	aptRepo := newFakeAppointmentRepo()
	svc := newTestService(aptRepo, newFakeServiceRepo(baptism))

	_, err := svc.Create(context.Background(), &model.CreateAppointmentRequest{
		ServiceID:       baptism.ID,
		AppointmentDate: sunday.Format("2006-01-02"),
		AppointmentTime: "09:00",
		ParishionerName: "Family A",
		AmountTendered:  500,
	})
	require.NoError(t, err)

	// A second baptism at the same start stacks instead of conflicting.
	_, err = svc.Create(context.Background(), &model.CreateAppointmentRequest{
		ServiceID:       baptism.ID,
		AppointmentDate: sunday.Format("2006-01-02"),
		AppointmentTime: "09:00",
		ParishionerName: "Family B",
		AmountTendered:  500,
	})
	require.NoError(t, err)
	assert.Len(t, aptRepo.appointments, 2)

	// Slot enumeration collapses to the shared start only.
	slots, err := svc.GetAvailableTimeSlots(context.Background(), baptism.ID, sunday)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, 540, slots[0].Start)
	assert.True(t, slots[0].Concurrent)
}

func TestValidateServiceTimeExcludesRescheduledAppointment(t *testing.T) {
	wedding := weddingService()
	aptRepo := newFakeAppointmentRepo()
	svc := newTestService(aptRepo, newFakeServiceRepo(wedding))

	apt, err := svc.Create(context.Background(), &model.CreateAppointmentRequest{
		ServiceID:       wedding.ID,
		AppointmentDate: sunday.Format("2006-01-02"),
		AppointmentTime: "10:00",
		ParishionerName: "Maria Santos",
		AmountTendered:  1500,
	})
	require.NoError(t, err)

	// Against itself the time conflicts; excluding itself it is free.
	err = svc.ValidateServiceTime(context.Background(), wedding.ID, sunday, 600, uuid.Nil)
	require.Error(t, err)

	err = svc.ValidateServiceTime(context.Background(), wedding.ID, sunday, 600, apt.ID)
	assert.NoError(t, err)
}

func TestCancelArchivesAndFreesSlot(t *testing.T) {
	wedding := weddingService()
	aptRepo := newFakeAppointmentRepo()
	svc := newTestService(aptRepo, newFakeServiceRepo(wedding))

	apt, err := svc.Create(context.Background(), &model.CreateAppointmentRequest{
		ServiceID:       wedding.ID,
		AppointmentDate: sunday.Format("2006-01-02"),
		AppointmentTime: "10:00",
		ParishionerName: "Maria Santos",
		AmountTendered:  1500,
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), apt.ID, "family emergency")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, "family emergency", *cancelled.CancelReason)
	assert.Len(t, aptRepo.archived, 1)

	// The freed time validates clean for a new booking.
	err = svc.ValidateServiceTime(context.Background(), wedding.ID, sunday, 600, uuid.Nil)
	assert.NoError(t, err)
}

func TestCompleteRequiresConfirmed(t *testing.T) {
	wedding := weddingService()
	aptRepo := newFakeAppointmentRepo()
	svc := newTestService(aptRepo, newFakeServiceRepo(wedding))

	apt, err := svc.Create(context.Background(), &model.CreateAppointmentRequest{
		ServiceID:       wedding.ID,
		AppointmentDate: sunday.Format("2006-01-02"),
		AppointmentTime: "10:00",
		ParishionerName: "Maria Santos",
		AmountTendered:  1500,
	})
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), apt.ID)
	require.Error(t, err)

	_, err = svc.Confirm(context.Background(), apt.ID)
	require.NoError(t, err)

	completed, err := svc.Complete(context.Background(), apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, completed.Status)
	assert.Len(t, aptRepo.archived, 1)
}

func TestConsecutiveDaysReportSurvivesFetchFailure(t *testing.T) {
	novena := &model.Service{
		Base:                 model.Base{ID: uuid.New()},
		Name:                 "Novena",
		Price:                900,
		DurationMinutes:      60,
		RequiresMultipleDays: true,
		ConsecutiveDays:      9,
		Status:               model.ServiceStatusActive,
	}
	aptRepo := newFakeAppointmentRepo()
	aptRepo.failDates[sunday.AddDate(0, 0, 2).Format("2006-01-02")] = true
	svc := newTestService(aptRepo, newFakeServiceRepo(novena))

	report, err := svc.CheckConsecutiveDaysAvailability(context.Background(), novena.ID, sunday, 0)
	require.NoError(t, err)

	require.Len(t, report.Days, 9)
	assert.False(t, report.AllDaysAvailable)
	assert.True(t, report.Days[2].FetchFailed)
	assert.False(t, report.Days[2].HasAvailability)
	assert.True(t, report.Days[3].HasAvailability)
}

func TestRequirementsLifecycle(t *testing.T) {
	wedding := weddingService()
	aptRepo := newFakeAppointmentRepo()
	reqRepo := newFakeRequirementRepo()
	svc := NewService(aptRepo, newFakeServiceRepo(wedding), reqRepo, scheduling.DefaultConfig(), func() time.Time { return fixedNow })

	apt, err := svc.Create(context.Background(), &model.CreateAppointmentRequest{
		ServiceID:       wedding.ID,
		AppointmentDate: sunday.Format("2006-01-02"),
		AppointmentTime: "10:00",
		ParishionerName: "Maria Santos",
		AmountTendered:  1500,
	})
	require.NoError(t, err)

	requirement, err := svc.AddRequirement(context.Background(), &model.CreateRequirementRequest{
		AppointmentID: apt.ID,
		Name:          "Baptismal certificate",
	})
	require.NoError(t, err)
	assert.False(t, requirement.Received)

	updated, err := svc.MarkRequirementReceived(context.Background(), apt.ID, requirement.ID, true, "original submitted")
	require.NoError(t, err)
	assert.True(t, updated.Received)

	listed, err := svc.ListRequirements(context.Background(), apt.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].Received)
}
