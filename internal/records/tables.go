package records

import (
	"log/slog"

	"github.com/aanand-mishra/hostel-api/internal/storage"
	"github.com/aanand-mishra/hostel-api/internal/types"
)

// Tables bundles one table per entity kind over a shared store.
type Tables struct {
	Students   *Table[types.Student]
	Rooms      *Table[types.Room]
	Complaints *Table[types.Complaint]
	Fees       *Table[types.Fee]
	Leaves     *Table[types.LeaveRequest]
	Hostels    *Table[types.Hostel]
	Staff      *Table[types.Staff]

	Store storage.Storage
}

// NewTables wires every table to store, seeded with the fixture sets.
func NewTables(store storage.Storage, log *slog.Logger) *Tables {
	return &Tables{
		Students:   NewTable(store, storage.KindStudents, SeedStudents(), log),
		Rooms:      NewTable(store, storage.KindRooms, SeedRooms(), log),
		Complaints: NewTable(store, storage.KindComplaints, SeedComplaints(), log),
		Fees:       NewTable(store, storage.KindFees, SeedFees(), log),
		Leaves:     NewTable(store, storage.KindLeaves, SeedLeaves(), log),
		Hostels:    NewTable(store, storage.KindHostels, SeedHostels(), log),
		Staff:      NewTable(store, storage.KindStaff, SeedStaff(), log),
		Store:      store,
	}
}

// NewEmptyTables is NewTables without fixtures: every collection starts
// out empty.
func NewEmptyTables(store storage.Storage, log *slog.Logger) *Tables {
	return &Tables{
		Students:   NewTable[types.Student](store, storage.KindStudents, nil, log),
		Rooms:      NewTable[types.Room](store, storage.KindRooms, nil, log),
		Complaints: NewTable[types.Complaint](store, storage.KindComplaints, nil, log),
		Fees:       NewTable[types.Fee](store, storage.KindFees, nil, log),
		Leaves:     NewTable[types.LeaveRequest](store, storage.KindLeaves, nil, log),
		Hostels:    NewTable[types.Hostel](store, storage.KindHostels, nil, log),
		Staff:      NewTable[types.Staff](store, storage.KindStaff, nil, log),
		Store:      store,
	}
}
