package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/model"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "postgres"), mock
}

func appointmentRows(appointments ...*model.Appointment) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "patient_id", "patient_name", "professional_id", "professional_name",
		"start_time", "end_time", "status", "secondary_status", "therapy_type",
		"room", "insurance", "fee", "notes", "block_id", "last_in_block",
		"created_at", "updated_at",
	})
	for _, a := range appointments {
		rows.AddRow(
			a.ID, a.PatientID, a.PatientName, a.ProfessionalID, a.ProfessionalName,
			a.StartTime, a.EndTime, a.Status, a.SecondaryStatus, a.TherapyType,
			a.Room, a.Insurance, a.Fee, a.Notes, a.BlockID, a.LastInBlock,
			a.CreatedAt, a.UpdatedAt,
		)
	}
	return rows
}

func sampleAppointment() *model.Appointment {
	return &model.Appointment{
		ID:               uuid.New(),
		PatientID:        uuid.New(),
		PatientName:      "Maria Souza",
		ProfessionalID:   uuid.New(),
		ProfessionalName: "Dra. Ana Lima",
		StartTime:        time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
		EndTime:          time.Date(2024, 3, 10, 9, 50, 0, 0, time.UTC),
		Status:           model.AppointmentStatusScheduled,
		TherapyType:      "fonoaudiologia",
		Room:             "101",
		Insurance:        "particular",
		Fee:              180,
	}
}

func TestListBetweenPassesInclusiveBounds(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	from := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC)

	mock.ExpectQuery(`WHERE start_time >= \$1 AND start_time <= \$2`).
		WithArgs(from, to).
		WillReturnRows(appointmentRows(sampleAppointment()))

	appointments, err := repo.ListBetween(context.Background(), from, to)
	require.NoError(t, err)
	assert.Len(t, appointments, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRenewableFiltersFlagAndStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	mock.ExpectQuery(`WHERE last_in_block = true AND status = \$1`).
		WithArgs(model.AppointmentStatusScheduled).
		WillReturnRows(appointmentRows())

	appointments, err := repo.ListRenewable(context.Background())
	require.NoError(t, err)
	assert.Empty(t, appointments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Occupied-room lookups use strict comparisons: the query receives the
// window's end bound against start_time and the start bound against
// end_time, so intervals that only touch at an endpoint never match.
func TestOccupiedRoomsStrictOverlapArgs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	start := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 10, 9, 50, 0, 0, time.UTC)

	mock.ExpectQuery(`start_time < \$2\s+AND end_time > \$3`).
		WithArgs(model.AppointmentStatusScheduled, end, start).
		WillReturnRows(sqlmock.NewRows([]string{"room"}).AddRow("101").AddRow("205"))

	rooms, err := repo.OccupiedRooms(context.Background(), start, end)
	require.NoError(t, err)
	assert.Equal(t, []string{"101", "205"}, rooms)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBatchCommitsAllInserts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	first := sampleAppointment()
	second := sampleAppointment()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO appointments`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO appointments`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.CreateBatch(context.Background(), []*model.Appointment{first, second})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBatchRollsBackOnFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	first := sampleAppointment()
	second := sampleAppointment()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO appointments`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO appointments`).WillReturnError(fmt.Errorf("unique violation"))
	mock.ExpectRollback()

	err := repo.CreateBatch(context.Background(), []*model.Appointment{first, second})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRenewBlockInsertsAndClearsFlagInOneTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	previousLastID := uuid.New()
	session := sampleAppointment()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO appointments`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE appointments SET last_in_block = false`).
		WithArgs(sqlmock.AnyArg(), previousLastID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.RenewBlock(context.Background(), previousLastID, []*model.Appointment{session})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRenewBlockRollsBackWhenPreviousLastMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	session := sampleAppointment()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO appointments`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE appointments SET last_in_block = false`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.RenewBlock(context.Background(), uuid.New(), []*model.Appointment{session})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "appointment not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReportsMissingAppointment(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	id := uuid.New()
	mock.ExpectExec(`DELETE FROM appointments WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "appointment not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBatchRunsInTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	ids := []uuid.UUID{uuid.New(), uuid.New()}

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM appointments WHERE id IN`).
		WithArgs(ids[0], ids[1]).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteBatch(context.Background(), ids))
	assert.NoError(t, mock.ExpectationsWereMet())
}
