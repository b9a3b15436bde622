// Package occupancy resolves the per-room, per-slot schedule view and
// flags same-room double bookings. Nothing here persists: the map is
// recomputed from the current appointment set on every read.
package occupancy

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/model"
	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/repository"
	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/schedule"
	"github.com/IagoLeal1/GestaoLibelle-sub000/pkg/logger"
	"github.com/IagoLeal1/GestaoLibelle-sub000/pkg/metrics"
)

const (
	roomCacheKey = "rooms"
	roomCacheTTL = 30 * time.Second
)

type Service struct {
	rooms        repository.RoomRepository
	appointments repository.AppointmentRepository
	cache        *cache.Cache
	logger       *logger.Logger
	metrics      *metrics.Metrics
	loc          *time.Location
	now          func() time.Time
}

func NewService(
	rooms repository.RoomRepository,
	appointments repository.AppointmentRepository,
	logger *logger.Logger,
	metrics *metrics.Metrics,
	loc *time.Location,
) *Service {
	return &Service{
		rooms:        rooms,
		appointments: appointments,
		cache:        cache.New(roomCacheTTL, 2*roomCacheTTL),
		logger:       logger,
		metrics:      metrics,
		loc:          loc,
		now:          time.Now,
	}
}

// listRooms reads the room catalog through a short-lived cache; the
// catalog changes rarely but the occupancy map is recomputed constantly.
func (s *Service) listRooms(ctx context.Context) ([]*model.Room, error) {
	if cached, ok := s.cache.Get(roomCacheKey); ok {
		return cached.([]*model.Room), nil
	}

	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	s.cache.Set(roomCacheKey, rooms, cache.DefaultExpiration)
	return rooms, nil
}

// OccupancyMap computes the slot-by-slot occupancy of every room for
// the given calendar date.
func (s *Service) OccupancyMap(ctx context.Context, date time.Time) ([]*model.RoomOccupancy, error) {
	timer := prometheus.NewTimer(s.metrics.OccupancyResolutions)
	defer timer.ObserveDuration()

	rooms, err := s.listRooms(ctx)
	if err != nil {
		return nil, err
	}

	day := date.In(s.loc)
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc)
	to := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, s.loc)

	appointments, err := s.appointments.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments for occupancy: %w", err)
	}

	// Cancelled appointments never occupy a room.
	byRoom := make(map[string][]*model.Appointment)
	for _, appointment := range appointments {
		if appointment.Status == model.AppointmentStatusCancelled || appointment.Room == "" {
			continue
		}
		byRoom[appointment.Room] = append(byRoom[appointment.Room], appointment)
	}

	slots := schedule.DailySlots(day, s.loc)
	now := s.now().In(s.loc)
	viewingToday := sameDay(now, day)

	result := make([]*model.RoomOccupancy, 0, len(rooms))
	for _, room := range rooms {
		result = append(result, s.resolveRoom(room, byRoom[room.ID], slots, now, viewingToday))
	}
	return result, nil
}

func (s *Service) resolveRoom(room *model.Room, appointments []*model.Appointment, slots []schedule.Slot, now time.Time, viewingToday bool) *model.RoomOccupancy {
	occupancy := &model.RoomOccupancy{
		Room:   room,
		Status: model.OccupancyStatusFree,
		Slots:  make([]model.SlotOccupancy, 0, len(slots)),
	}

	// "Currently occupied" is a live badge: it only means anything when
	// the viewed date is today.
	if viewingToday {
		for _, appointment := range appointments {
			if now.After(appointment.StartTime) && now.Before(appointment.EndTime) {
				occupancy.CurrentlyOccupied = true
				break
			}
		}
	}

	anyOccupied := false
	for _, slot := range slots {
		resolved := resolveSlot(slot, appointments)
		if resolved.Status == model.SlotStatusOccupied {
			anyOccupied = true
		}
		occupancy.Slots = append(occupancy.Slots, resolved)
	}

	if anyOccupied {
		occupancy.Status = model.OccupancyStatusOccupied
	}

	// Maintenance overrides both free and occupied.
	if room.Status == model.RoomStatusMaintenance {
		occupancy.Status = model.OccupancyStatusMaintenance
	}

	return occupancy
}

// resolveSlot selects the appointments overlapping the slot and flags a
// conflict when more than one distinct patient does. The double-sided
// test is deliberate: it catches appointments both shorter and longer
// than a slot.
func resolveSlot(slot schedule.Slot, appointments []*model.Appointment) model.SlotOccupancy {
	resolved := model.SlotOccupancy{
		Start:  slot.Start,
		End:    slot.End,
		Status: model.SlotStatusFree,
	}

	patients := make(map[string]struct{})
	for _, appointment := range appointments {
		inSlot := (!slot.Start.Before(appointment.StartTime) && slot.Start.Before(appointment.EndTime)) ||
			(!appointment.StartTime.Before(slot.Start) && appointment.StartTime.Before(slot.End))
		if !inSlot {
			continue
		}

		resolved.Status = model.SlotStatusOccupied
		patients[appointment.PatientID.String()] = struct{}{}
		resolved.Occupants = append(resolved.Occupants, model.SlotOccupant{
			AppointmentID:    appointment.ID.String(),
			PatientID:        appointment.PatientID.String(),
			PatientName:      appointment.PatientName,
			ProfessionalName: appointment.ProfessionalName,
			TherapyType:      appointment.TherapyType,
		})
	}

	// Same patient across adjoining sessions is not a conflict; two
	// distinct patients in the same room at overlapping times is.
	resolved.Conflict = len(patients) > 1
	return resolved
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
