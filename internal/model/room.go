package model

import "time"

type RoomStatus string

const (
	RoomStatusActive      RoomStatus = "ativa"
	RoomStatusMaintenance RoomStatus = "manutencao"
)

// Room is consumed read-only by the occupancy resolver; its own CRUD
// lives elsewhere.
type Room struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Floor     string     `db:"floor" json:"floor"`
	Type      string     `db:"type" json:"type"`
	Status    RoomStatus `db:"status" json:"status"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

type SlotStatus string

const (
	SlotStatusFree     SlotStatus = "livre"
	SlotStatusOccupied SlotStatus = "ocupada"
)

type OccupancyStatus string

const (
	OccupancyStatusFree        OccupancyStatus = "livre"
	OccupancyStatusOccupied    OccupancyStatus = "ocupada"
	OccupancyStatusMaintenance OccupancyStatus = "manutencao"
)

// SlotOccupant carries the display details the schedule grid shows for
// one appointment inside a slot.
type SlotOccupant struct {
	AppointmentID    string `json:"appointment_id"`
	PatientID        string `json:"patient_id"`
	PatientName      string `json:"patient_name"`
	ProfessionalName string `json:"professional_name"`
	TherapyType      string `json:"therapy_type"`
}

type SlotOccupancy struct {
	Start     time.Time      `json:"start"`
	End       time.Time      `json:"end"`
	Status    SlotStatus     `json:"status"`
	Conflict  bool           `json:"conflict"`
	Occupants []SlotOccupant `json:"occupants,omitempty"`
}

// RoomOccupancy is the resolver's per-room output: a coarse status for
// the dashboard badge plus the full slot schedule for the grid.
type RoomOccupancy struct {
	Room              *Room           `json:"room"`
	Status            OccupancyStatus `json:"status"`
	CurrentlyOccupied bool            `json:"currently_occupied"`
	Slots             []SlotOccupancy `json:"slots"`
}
