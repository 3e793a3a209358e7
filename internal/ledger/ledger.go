// Package ledger keeps rooms and students consistent with each other.
//
// Two sides describe the same fact: Room.Students / Room.Occupied list
// who lives in a room, Student.RoomNumber says where a student lives.
// Every operation here updates both sides together so that, at rest:
//
//   - room.Occupied == len(room.Students)
//   - 0 <= room.Occupied <= room.Capacity
//   - a student with a RoomNumber is listed in exactly one room, whose
//     Number matches
//
// Invalid requests (unknown ids, full room, duplicate assignment) are
// soft no-ops: nothing changes and the Result's Outcome says why.
// Callers must check Result.OK before treating the call as a success.
package ledger

import (
	"fmt"
	"slices"

	"github.com/aanand-mishra/hostel-api/internal/types"
)

// Outcome classifies the result of a ledger operation.
type Outcome string

const (
	Applied Outcome = "applied"

	// NotFound: the room or the student does not exist. Result.Room
	// and Result.Student are nil when their lookup failed.
	NotFound Outcome = "not_found"

	// DuplicateAssignment: the student is already listed in this room.
	DuplicateAssignment Outcome = "duplicate_assignment"

	// AlreadyAssigned: the student is listed in a different room.
	AlreadyAssigned Outcome = "already_assigned"

	// CapacityExceeded: the room has no free bed.
	CapacityExceeded Outcome = "capacity_exceeded"

	// RoomUnavailable: the room status is anything but available.
	RoomUnavailable Outcome = "room_unavailable"

	// NotAssigned: unassign of a student who is not in the room.
	NotAssigned Outcome = "not_assigned"
)

// Result carries the entities as they are after the operation.
type Result struct {
	Outcome Outcome        `json:"outcome"`
	Room    *types.Room    `json:"room,omitempty"`
	Student *types.Student `json:"student,omitempty"`
}

// OK reports whether the operation changed state.
func (r Result) OK() bool { return r.Outcome == Applied }

func indexRoom(rooms []types.Room, id string) int {
	return slices.IndexFunc(rooms, func(r types.Room) bool { return r.ID == id })
}

func indexStudent(students []types.Student, id string) int {
	return slices.IndexFunc(students, func(s types.Student) bool { return s.ID == id })
}

// result copies the entities so callers never alias the slices.
func result(outcome Outcome, rooms []types.Room, ri int, students []types.Student, si int) Result {
	res := Result{Outcome: outcome}
	if ri >= 0 {
		room := rooms[ri]
		room.Students = slices.Clone(room.Students)
		res.Room = &room
	}
	if si >= 0 {
		student := students[si]
		res.Student = &student
	}
	return res
}

// AssignIn places studentID into roomID, mutating rooms and students in
// place when the assignment applies.
func AssignIn(rooms []types.Room, students []types.Student, roomID, studentID string) Result {
	ri, si := indexRoom(rooms, roomID), indexStudent(students, studentID)
	if ri < 0 || si < 0 {
		return result(NotFound, rooms, ri, students, si)
	}

	room := &rooms[ri]
	student := &students[si]

	if room.HasStudent(student.ID) {
		return result(DuplicateAssignment, rooms, ri, students, si)
	}
	for i := range rooms {
		if i != ri && rooms[i].HasStudent(student.ID) {
			return result(AlreadyAssigned, rooms, ri, students, si)
		}
	}
	if max(room.Occupied, len(room.Students)) >= room.Capacity {
		return result(CapacityExceeded, rooms, ri, students, si)
	}
	if room.Status != types.RoomAvailable {
		return result(RoomUnavailable, rooms, ri, students, si)
	}

	room.Students = append(room.Students, types.StudentRef{ID: student.ID, Name: student.Name})
	room.Occupied++
	student.RoomNumber = room.Number

	return result(Applied, rooms, ri, students, si)
}

// UnassignIn removes studentID from roomID. Unassigning a student who
// is not listed leaves everything untouched, so repeating the call is
// harmless.
func UnassignIn(rooms []types.Room, students []types.Student, roomID, studentID string) Result {
	ri, si := indexRoom(rooms, roomID), indexStudent(students, studentID)
	if ri < 0 || si < 0 {
		return result(NotFound, rooms, ri, students, si)
	}

	room := &rooms[ri]
	if !room.HasStudent(studentID) {
		return result(NotAssigned, rooms, ri, students, si)
	}

	room.Students = slices.DeleteFunc(room.Students, func(s types.StudentRef) bool { return s.ID == studentID })
	room.Occupied = max(0, room.Occupied-1)
	students[si].RoomNumber = ""

	return result(Applied, rooms, ri, students, si)
}

// ValidRoomStatus reports whether s is one of the room statuses.
func ValidRoomStatus(s types.RoomStatus) bool {
	switch s {
	case types.RoomAvailable, types.RoomOccupied, types.RoomMaintenance, types.RoomReserved:
		return true
	}
	return false
}

// ChangeStatusIn sets a room's status. Occupancy is not consulted: a
// full room may be marked available.
func ChangeStatusIn(rooms []types.Room, roomID string, status types.RoomStatus) Result {
	ri := indexRoom(rooms, roomID)
	if ri < 0 {
		return Result{Outcome: NotFound}
	}
	rooms[ri].Status = status
	return result(Applied, rooms, ri, nil, -1)
}

// Violation describes one broken at-rest invariant.
type Violation struct {
	RoomID    string `json:"roomId,omitempty"`
	StudentID string `json:"studentId,omitempty"`
	Message   string `json:"message"`
}

// Check verifies both sides of the ledger and returns every violation
// found. An empty result means the data is consistent.
func Check(rooms []types.Room, students []types.Student) []Violation {
	var out []Violation

	byID := make(map[string]types.Student, len(students))
	for _, s := range students {
		byID[s.ID] = s
	}

	listedIn := make(map[string][]types.Room)
	for _, r := range rooms {
		if r.Occupied != len(r.Students) {
			out = append(out, Violation{RoomID: r.ID,
				Message: fmt.Sprintf("room %s: occupied %d but %d students listed", r.Number, r.Occupied, len(r.Students))})
		}
		if r.Occupied < 0 || r.Occupied > r.Capacity {
			out = append(out, Violation{RoomID: r.ID,
				Message: fmt.Sprintf("room %s: occupied %d outside 0..%d", r.Number, r.Occupied, r.Capacity)})
		}
		for _, ref := range r.Students {
			listedIn[ref.ID] = append(listedIn[ref.ID], r)
			s, ok := byID[ref.ID]
			switch {
			case !ok:
				out = append(out, Violation{RoomID: r.ID, StudentID: ref.ID,
					Message: fmt.Sprintf("room %s lists unknown student %s", r.Number, ref.ID)})
			case s.RoomNumber != r.Number:
				out = append(out, Violation{RoomID: r.ID, StudentID: s.ID,
					Message: fmt.Sprintf("student %s listed in room %s but has room number %q", s.ID, r.Number, s.RoomNumber)})
			}
		}
	}

	for _, s := range students {
		rs := listedIn[s.ID]
		switch {
		case len(rs) > 1:
			out = append(out, Violation{StudentID: s.ID,
				Message: fmt.Sprintf("student %s listed in %d rooms", s.ID, len(rs))})
		case len(rs) == 0 && s.RoomNumber != "":
			out = append(out, Violation{StudentID: s.ID,
				Message: fmt.Sprintf("student %s has room number %q but no room lists them", s.ID, s.RoomNumber)})
		}
	}

	return out
}
