package models

import (
	"time"

	"github.com/lib/pq"
)

// Classroom types.
const (
	RoomLecture     = "lecture"
	RoomLaboratory  = "laboratory"
	RoomComputerLab = "computer_lab"
	RoomConference  = "conference"
	RoomOther       = "other"
)

// Classroom availability statuses.
const (
	RoomAvailable   = "available"
	RoomMaintenance = "maintenance"
	RoomRetired     = "retired"
)

// Classroom represents a bookable teaching room. Read-only during generation.
type Classroom struct {
	ID         string         `db:"id" json:"id"`
	RoomNumber string         `db:"room_number" json:"room_number"`
	Building   string         `db:"building" json:"building"`
	Capacity   int            `db:"capacity" json:"capacity"`
	Type       string         `db:"type" json:"type"`
	Facilities pq.StringArray `db:"facilities" json:"facilities"`
	Status     string         `db:"status" json:"status"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// HasFacilities reports whether the room carries every requested facility tag.
func (c Classroom) HasFacilities(required []string) bool {
	if len(required) == 0 {
		return true
	}
	tags := make(map[string]struct{}, len(c.Facilities))
	for _, f := range c.Facilities {
		tags[f] = struct{}{}
	}
	for _, r := range required {
		if _, ok := tags[r]; !ok {
			return false
		}
	}
	return true
}

// SuitsLaboratory reports whether the room type can host laboratory sessions.
func (c Classroom) SuitsLaboratory() bool {
	return c.Type == RoomLaboratory || c.Type == RoomComputerLab
}

// ClassroomFilter captures filtering options for listing classrooms.
type ClassroomFilter struct {
	Building    string
	Type        string
	Status      string
	MinCapacity int
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
