package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/model"
	appointmentsvc "github.com/IagoLeal1/GestaoLibelle-sub000/internal/service/appointment"
	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/service/finance"
	"github.com/IagoLeal1/GestaoLibelle-sub000/pkg/logger"
	"github.com/IagoLeal1/GestaoLibelle-sub000/pkg/metrics"
	"github.com/IagoLeal1/GestaoLibelle-sub000/pkg/validator"
)

var testMetrics = metrics.NewMetrics("test", "appointment_handler")

type memAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
	occupied     []string
}

func (m *memAppointmentRepo) Create(_ context.Context, a *model.Appointment) error {
	m.appointments[a.ID] = a
	return nil
}

func (m *memAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	a, ok := m.appointments[id]
	if !ok {
		return nil, fmt.Errorf("appointment not found")
	}
	return a, nil
}

func (m *memAppointmentRepo) Update(_ context.Context, a *model.Appointment) error {
	m.appointments[a.ID] = a
	return nil
}

func (m *memAppointmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.appointments[id]; !ok {
		return fmt.Errorf("appointment not found")
	}
	delete(m.appointments, id)
	return nil
}

func (m *memAppointmentRepo) DeleteBatch(_ context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(m.appointments, id)
	}
	return nil
}

func (m *memAppointmentRepo) ListBetween(_ context.Context, from, to time.Time) ([]*model.Appointment, error) {
	var result []*model.Appointment
	for _, a := range m.appointments {
		if !a.StartTime.Before(from) && !a.StartTime.After(to) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *memAppointmentRepo) ListByProfessionalBetween(_ context.Context, id uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	var result []*model.Appointment
	for _, a := range m.appointments {
		if a.ProfessionalID == id && !a.StartTime.Before(from) && !a.StartTime.After(to) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *memAppointmentRepo) ListByBlockFrom(_ context.Context, blockID uuid.UUID, from time.Time) ([]*model.Appointment, error) {
	var result []*model.Appointment
	for _, a := range m.appointments {
		if a.BlockID != nil && *a.BlockID == blockID && !a.StartTime.Before(from) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *memAppointmentRepo) ListRenewable(_ context.Context) ([]*model.Appointment, error) {
	var result []*model.Appointment
	for _, a := range m.appointments {
		if a.LastInBlock && a.Status == model.AppointmentStatusScheduled {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *memAppointmentRepo) CreateBatch(_ context.Context, appointments []*model.Appointment) error {
	for _, a := range appointments {
		m.appointments[a.ID] = a
	}
	return nil
}

func (m *memAppointmentRepo) RenewBlock(_ context.Context, previousLastID uuid.UUID, appointments []*model.Appointment) error {
	previous, ok := m.appointments[previousLastID]
	if !ok {
		return fmt.Errorf("appointment not found")
	}
	for _, a := range appointments {
		m.appointments[a.ID] = a
	}
	previous.LastInBlock = false
	return nil
}

func (m *memAppointmentRepo) SetLastInBlock(_ context.Context, id uuid.UUID, last bool) error {
	a, ok := m.appointments[id]
	if !ok {
		return fmt.Errorf("appointment not found")
	}
	a.LastInBlock = last
	return nil
}

func (m *memAppointmentRepo) OccupiedRooms(_ context.Context, _, _ time.Time) ([]string, error) {
	return m.occupied, nil
}

type memPatientRepo struct{ patient *model.Patient }

func (m *memPatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	if m.patient == nil || m.patient.ID != id {
		return nil, fmt.Errorf("patient not found")
	}
	return m.patient, nil
}

type memProfessionalRepo struct{ professional *model.Professional }

func (m *memProfessionalRepo) Get(_ context.Context, id uuid.UUID) (*model.Professional, error) {
	if m.professional == nil || m.professional.ID != id {
		return nil, fmt.Errorf("professional not found")
	}
	return m.professional, nil
}

type memTransactionRepo struct{}

func (memTransactionRepo) DeleteByAppointmentID(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}
func (memTransactionRepo) DeleteByAppointmentIDs(_ context.Context, ids []uuid.UUID) (int64, error) {
	return int64(len(ids)), nil
}

type memOutboxRepo struct{}

func (memOutboxRepo) Create(context.Context, *model.OutboxEvent) error { return nil }
func (memOutboxRepo) GetPendingEvents(context.Context, int) ([]*model.OutboxEvent, error) {
	return nil, nil
}
func (memOutboxRepo) UpdateStatus(context.Context, uuid.UUID, model.OutboxStatus, *string) error {
	return nil
}

type testServer struct {
	router    *gin.Engine
	repo      *memAppointmentRepo
	patientID uuid.UUID
	profID    uuid.UUID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validator.Register())

	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	repo := &memAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
	patientID := uuid.New()
	profID := uuid.New()
	appLogger := logger.NewLogger(nil)

	svc := appointmentsvc.NewService(
		repo,
		&memPatientRepo{patient: &model.Patient{ID: patientID, FullName: "Maria Souza"}},
		&memProfessionalRepo{professional: &model.Professional{ID: profID, FullName: "Dra. Ana Lima"}},
		finance.NewService(memTransactionRepo{}, appLogger, testMetrics),
		memOutboxRepo{},
		appLogger,
		testMetrics,
		loc,
	)

	router := gin.New()
	group := router.Group("/api/v1")
	NewHandler(svc, loc).RegisterRoutes(group)

	return &testServer{router: router, repo: repo, patientID: patientID, profID: profID}
}

func (s *testServer) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) createBody() gin.H {
	return gin.H{
		"patient_id":      s.patientID,
		"professional_id": s.profID,
		"date":            "2024-01-15",
		"start_time":      "09:00",
		"end_time":        "09:50",
		"therapy_type":    "fonoaudiologia",
		"room":            "101",
	}
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestCreateAppointmentEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, http.MethodPost, "/api/v1/appointments", s.createBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	envelope := decodeEnvelope(t, w)
	var created model.Appointment
	require.NoError(t, json.Unmarshal(envelope["data"], &created))
	assert.Equal(t, "Maria Souza", created.PatientName)
	assert.Equal(t, model.AppointmentStatusScheduled, created.Status)
}

func TestCreateAppointmentValidation(t *testing.T) {
	s := newTestServer(t)

	body := s.createBody()
	body["start_time"] = "9am" // not HH:mm

	w := s.request(t, http.MethodPost, "/api/v1/appointments", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAppointmentUnknownPatient(t *testing.T) {
	s := newTestServer(t)

	body := s.createBody()
	body["patient_id"] = uuid.New()

	w := s.request(t, http.MethodPost, "/api/v1/appointments", body)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateBlockEndpoint(t *testing.T) {
	s := newTestServer(t)

	body := s.createBody()
	body["sessions"] = 4

	w := s.request(t, http.MethodPost, "/api/v1/appointments/block", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	envelope := decodeEnvelope(t, w)
	var created []*model.Appointment
	require.NoError(t, json.Unmarshal(envelope["data"], &created))
	assert.Len(t, created, 4)
	assert.Len(t, s.repo.appointments, 4)
}

func TestListAppointmentsByDate(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, http.MethodPost, "/api/v1/appointments", s.createBody())
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.request(t, http.MethodGet, "/api/v1/appointments?date=2024-01-15", nil)
	require.Equal(t, http.StatusOK, w.Code)

	envelope := decodeEnvelope(t, w)
	var listed []*model.Appointment
	require.NoError(t, json.Unmarshal(envelope["data"], &listed))
	assert.Len(t, listed, 1)

	// A different day comes back empty, not an error.
	w = s.request(t, http.MethodGet, "/api/v1/appointments?date=2024-01-16", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListAppointmentsInvalidDate(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, http.MethodGet, "/api/v1/appointments?date=15-01-2024", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOccupiedRoomsEmptyIsJSONArray(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, http.MethodGet,
		"/api/v1/appointments/occupied-rooms?start=2024-01-15T09:00:00-03:00&end=2024-01-15T09:50:00-03:00", nil)
	require.Equal(t, http.StatusOK, w.Code)

	envelope := decodeEnvelope(t, w)
	assert.JSONEq(t, `[]`, string(envelope["data"]), "no occupied rooms marshals as an empty array")
}

func TestDeleteFutureQueryFlag(t *testing.T) {
	s := newTestServer(t)

	body := s.createBody()
	body["sessions"] = 3

	w := s.request(t, http.MethodPost, "/api/v1/appointments/block", body)
	require.Equal(t, http.StatusCreated, w.Code)

	envelope := decodeEnvelope(t, w)
	var created []*model.Appointment
	require.NoError(t, json.Unmarshal(envelope["data"], &created))

	w = s.request(t, http.MethodDelete,
		"/api/v1/appointments/"+created[1].ID.String()+"?future=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, s.repo.appointments, 1)
}

func TestRenewEndpointRejectsNonCandidate(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, http.MethodPost, "/api/v1/appointments", s.createBody())
	require.Equal(t, http.StatusCreated, w.Code)

	envelope := decodeEnvelope(t, w)
	var created model.Appointment
	require.NoError(t, json.Unmarshal(envelope["data"], &created))

	w = s.request(t, http.MethodPost,
		"/api/v1/appointments/"+created.ID.String()+"/renew", gin.H{"sessions": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateAppointmentRejectsUnknownStatus(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, http.MethodPost, "/api/v1/appointments", s.createBody())
	require.Equal(t, http.StatusCreated, w.Code)

	envelope := decodeEnvelope(t, w)
	var created model.Appointment
	require.NoError(t, json.Unmarshal(envelope["data"], &created))

	w = s.request(t, http.MethodPut,
		"/api/v1/appointments/"+created.ID.String(), gin.H{"status": "arquivado"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.request(t, http.MethodPut,
		"/api/v1/appointments/"+created.ID.String(), gin.H{"status": "finalizado"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetAppointmentNotFound(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, http.MethodGet, "/api/v1/appointments/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
