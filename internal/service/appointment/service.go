package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/model"
	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/repository"
	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/service/finance"
	apperrors "github.com/IagoLeal1/GestaoLibelle-sub000/pkg/errors"
	"github.com/IagoLeal1/GestaoLibelle-sub000/pkg/logger"
	"github.com/IagoLeal1/GestaoLibelle-sub000/pkg/metrics"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

type Service struct {
	repo          repository.AppointmentRepository
	patients      repository.PatientRepository
	professionals repository.ProfessionalRepository
	finance       *finance.Service
	outbox        repository.OutboxRepository
	logger        *logger.Logger
	metrics       *metrics.Metrics
	loc           *time.Location
}

func NewService(
	repo repository.AppointmentRepository,
	patients repository.PatientRepository,
	professionals repository.ProfessionalRepository,
	financeSvc *finance.Service,
	outbox repository.OutboxRepository,
	logger *logger.Logger,
	metrics *metrics.Metrics,
	loc *time.Location,
) *Service {
	return &Service{
		repo:          repo,
		patients:      patients,
		professionals: professionals,
		finance:       financeSvc,
		outbox:        outbox,
		logger:        logger,
		metrics:       metrics,
		loc:           loc,
	}
}

// composeTime builds an absolute timestamp from the separate date and
// "HH:mm" form fields, interpreted in the clinic's timezone.
func (s *Service) composeTime(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout+" "+clockLayout, date+" "+clock, s.loc)
	if err != nil {
		return time.Time{}, apperrors.BadRequest("invalid date or time", err)
	}
	return t, nil
}

// dayBounds returns the inclusive [00:00:00, 23:59:59] window of the
// calendar date in the clinic's timezone.
func (s *Service) dayBounds(date time.Time) (time.Time, time.Time) {
	d := date.In(s.loc)
	from := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.loc)
	to := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, s.loc)
	return from, to
}

func (s *Service) GetByDate(ctx context.Context, date time.Time) ([]*model.Appointment, error) {
	from, to := s.dayBounds(date)
	appointments, err := s.repo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointments by date: %w", err)
	}
	return appointments, nil
}

func (s *Service) GetByProfessionalAndDate(ctx context.Context, professionalID uuid.UUID, date time.Time) ([]*model.Appointment, error) {
	from, to := s.dayBounds(date)
	appointments, err := s.repo.ListByProfessionalBetween(ctx, professionalID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointments by professional and date: %w", err)
	}
	return appointments, nil
}

// GetForReport returns one professional's appointments across an
// inclusive date range, ordered by start.
func (s *Service) GetForReport(ctx context.Context, professionalID uuid.UUID, startDate, endDate time.Time) ([]*model.Appointment, error) {
	from, _ := s.dayBounds(startDate)
	_, to := s.dayBounds(endDate)
	if to.Before(from) {
		return nil, apperrors.BadRequest("end date before start date", nil)
	}

	appointments, err := s.repo.ListByProfessionalBetween(ctx, professionalID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointments for report: %w", err)
	}
	return appointments, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}
	return appointment, nil
}

// resolveParticipants looks up the referenced patient and professional
// and returns their display names, which are denormalized onto the
// appointment at write time and never refreshed afterwards.
func (s *Service) resolveParticipants(ctx context.Context, patientID, professionalID uuid.UUID) (string, string, error) {
	patient, err := s.patients.Get(ctx, patientID)
	if err != nil {
		return "", "", apperrors.NotFound("patient", err)
	}

	professional, err := s.professionals.Get(ctx, professionalID)
	if err != nil {
		return "", "", apperrors.NotFound("professional", err)
	}

	return patient.FullName, professional.FullName, nil
}

func (s *Service) buildFromRequest(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	start, err := s.composeTime(req.Date, req.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := s.composeTime(req.Date, req.EndTime)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, apperrors.BadRequest("end time must be after start time", nil)
	}

	patientName, professionalName, err := s.resolveParticipants(ctx, req.PatientID, req.ProfessionalID)
	if err != nil {
		return nil, err
	}

	return &model.Appointment{
		ID:               uuid.New(),
		PatientID:        req.PatientID,
		PatientName:      patientName,
		ProfessionalID:   req.ProfessionalID,
		ProfessionalName: professionalName,
		StartTime:        start,
		EndTime:          end,
		Status:           model.AppointmentStatusScheduled,
		SecondaryStatus:  model.NormalizeSecondaryStatus(req.SecondaryStatus),
		TherapyType:      req.TherapyType,
		Room:             req.Room,
		Insurance:        req.Insurance,
		Fee:              req.Fee,
		Notes:            req.Notes,
	}, nil
}

func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	appointment, err := s.buildFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.metrics.AppointmentsCreated.WithLabelValues("single").Inc()
	s.recordEvent(ctx, model.EventAppointmentCreated, appointment)
	return appointment, nil
}

// CreateBlock creates one appointment per week for the requested number
// of consecutive weeks, all sharing a freshly minted block id. The
// writes go through a single transaction: either the whole block exists
// afterwards or none of it does.
func (s *Service) CreateBlock(ctx context.Context, req *model.CreateBlockRequest) ([]*model.Appointment, error) {
	if req.Sessions <= 0 {
		return nil, apperrors.BadRequest("sessions must be positive", nil)
	}

	first, err := s.buildFromRequest(ctx, &req.CreateAppointmentRequest)
	if err != nil {
		return nil, err
	}

	blockID := uuid.New()
	duration := first.EndTime.Sub(first.StartTime)

	appointments := make([]*model.Appointment, 0, req.Sessions)
	for i := 0; i < req.Sessions; i++ {
		session := *first
		session.ID = uuid.New()
		session.StartTime = first.StartTime.AddDate(0, 0, 7*i)
		session.EndTime = session.StartTime.Add(duration)
		session.BlockID = &blockID
		session.LastInBlock = i == req.Sessions-1
		appointments = append(appointments, &session)
	}

	if err := s.repo.CreateBatch(ctx, appointments); err != nil {
		return nil, fmt.Errorf("failed to create appointment block: %w", err)
	}

	s.metrics.AppointmentsCreated.WithLabelValues("block").Add(float64(req.Sessions))
	s.recordEvent(ctx, model.EventBlockCreated, map[string]interface{}{
		"block_id": blockID,
		"sessions": req.Sessions,
		"first":    appointments[0],
	})
	return appointments, nil
}

// Update applies a partial update. When any of the date or clock fields
// is present the timestamps are recomposed the same way Create does,
// with missing pieces taken from the stored record; the raw strings are
// never persisted.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("appointment", err)
	}

	if req.Date != nil || req.StartTime != nil || req.EndTime != nil {
		current := appointment.StartTime.In(s.loc)
		date := current.Format(dateLayout)
		startClock := current.Format(clockLayout)
		endClock := appointment.EndTime.In(s.loc).Format(clockLayout)

		if req.Date != nil {
			date = *req.Date
		}
		if req.StartTime != nil {
			startClock = *req.StartTime
		}
		if req.EndTime != nil {
			endClock = *req.EndTime
		}

		start, err := s.composeTime(date, startClock)
		if err != nil {
			return nil, err
		}
		end, err := s.composeTime(date, endClock)
		if err != nil {
			return nil, err
		}
		if !end.After(start) {
			return nil, apperrors.BadRequest("end time must be after start time", nil)
		}

		appointment.StartTime = start
		appointment.EndTime = end
	}

	if req.Status != nil {
		// Irregular transitions are allowed so staff can correct data
		// entry mistakes; they are only logged.
		if appointment.Status != *req.Status && !model.CanTransition(appointment.Status, *req.Status) {
			s.logger.Warn("irregular status transition",
				"appointment_id", id.String(),
				"from", string(appointment.Status),
				"to", string(*req.Status))
		}
		appointment.Status = *req.Status
	}
	if req.SecondaryStatus != nil {
		appointment.SecondaryStatus = model.NormalizeSecondaryStatus(*req.SecondaryStatus)
	}
	if req.TherapyType != nil {
		appointment.TherapyType = *req.TherapyType
	}
	if req.Room != nil {
		appointment.Room = *req.Room
	}
	if req.Insurance != nil {
		appointment.Insurance = *req.Insurance
	}
	if req.Fee != nil {
		appointment.Fee = *req.Fee
	}
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	s.recordEvent(ctx, model.EventAppointmentUpdated, appointment)
	return appointment, nil
}

// Delete removes one appointment. Linked transactions are reconciled
// first; if that fails the appointment stays, so billing records never
// orphan silently.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.finance.DeleteByAppointmentID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	s.metrics.AppointmentsDeleted.Inc()
	s.recordEvent(ctx, model.EventAppointmentDeleted, map[string]interface{}{"id": id})
	return nil
}

// DeleteFutureInBlock removes the given appointment and every later
// sibling in its block, reconciling linked transactions for all of them.
func (s *Service) DeleteFutureInBlock(ctx context.Context, id uuid.UUID) error {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return apperrors.NotFound("appointment", err)
	}

	if appointment.BlockID == nil {
		return s.Delete(ctx, id)
	}

	siblings, err := s.repo.ListByBlockFrom(ctx, *appointment.BlockID, appointment.StartTime)
	if err != nil {
		return fmt.Errorf("failed to list block appointments: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(siblings))
	for _, sibling := range siblings {
		ids = append(ids, sibling.ID)
	}

	if err := s.finance.DeleteByAppointmentIDs(ctx, ids); err != nil {
		return err
	}

	if err := s.repo.DeleteBatch(ctx, ids); err != nil {
		return fmt.Errorf("failed to delete block appointments: %w", err)
	}

	s.metrics.AppointmentsDeleted.Add(float64(len(ids)))
	s.recordEvent(ctx, model.EventAppointmentDeleted, map[string]interface{}{
		"block_id": appointment.BlockID,
		"ids":      ids,
	})
	return nil
}

// GetOccupiedRooms returns the de-duplicated room ids in use by
// scheduled appointments overlapping [start, end). Advisory: callers
// warn on the result, they do not block the booking.
func (s *Service) GetOccupiedRooms(ctx context.Context, start, end time.Time) ([]string, error) {
	if !end.After(start) {
		return nil, apperrors.BadRequest("end time must be after start time", nil)
	}

	rooms, err := s.repo.OccupiedRooms(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get occupied rooms: %w", err)
	}
	return rooms, nil
}

func (s *Service) recordEvent(ctx context.Context, eventType string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error(err, "failed to marshal outbox payload", "event_type", eventType)
		return
	}

	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   body,
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to record outbox event", "event_type", eventType)
	}
}
