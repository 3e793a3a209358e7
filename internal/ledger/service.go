package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/aanand-mishra/hostel-api/internal/metrics"
	"github.com/aanand-mishra/hostel-api/internal/records"
	"github.com/aanand-mishra/hostel-api/internal/storage"
	"github.com/aanand-mishra/hostel-api/internal/types"
	"github.com/google/uuid"
)

var (
	ErrInvalidStatus   = errors.New("invalid room status")
	ErrRoomOccupied    = errors.New("room still has students assigned")
	ErrDuplicateNumber = errors.New("room number already exists in this hostel")
	ErrCapacityTooLow  = errors.New("capacity is below current occupancy")
)

// Ledger persists ledger operations. Rooms and students are always
// written together in one versioned Put, so a concurrent writer can't
// leave one side updated without the other.
type Ledger struct {
	rooms    *records.Table[types.Room]
	students *records.Table[types.Student]
	store    storage.Storage
	log      *slog.Logger
	metrics  *metrics.Metrics
}

// New returns a Ledger over the rooms and students tables.
func New(tables *records.Tables, log *slog.Logger, m *metrics.Metrics) *Ledger {
	if log == nil {
		log = slog.Default()
	}
	return &Ledger{
		rooms:    tables.Rooms,
		students: tables.Students,
		store:    tables.Store,
		log:      log,
		metrics:  m,
	}
}

// apply loads both tables, runs op and, when op changed something,
// writes both back. Lost races are retried from a fresh read.
func (l *Ledger) apply(ctx context.Context, name string, op func(rooms []types.Room, students []types.Student) Result) (Result, error) {
	var res Result
	err := records.OnConflict(ctx, func() error {
		rs, err := l.rooms.Load(ctx)
		if err != nil {
			return err
		}
		ss, err := l.students.Load(ctx)
		if err != nil {
			return err
		}

		res = op(rs.Items, ss.Items)
		if !res.OK() {
			return nil
		}

		roomsCol, err := l.rooms.Encode(rs.Items, rs.Version)
		if err != nil {
			return err
		}
		studentsCol, err := l.students.Encode(ss.Items, ss.Version)
		if err != nil {
			return err
		}
		return l.store.Put(ctx, roomsCol, studentsCol)
	})
	if err != nil {
		return Result{}, fmt.Errorf("ledger.%s: %w", name, err)
	}

	l.metrics.Assignment(name, string(res.Outcome))
	if !res.OK() {
		l.log.Info("ledger operation was a no-op",
			slog.String("op", name),
			slog.String("outcome", string(res.Outcome)))
	}
	return res, nil
}

// Assign places a student in a room. See AssignIn for the rules.
func (l *Ledger) Assign(ctx context.Context, roomID, studentID string) (Result, error) {
	return l.apply(ctx, "assign", func(rooms []types.Room, students []types.Student) Result {
		return AssignIn(rooms, students, roomID, studentID)
	})
}

// Unassign removes a student from a room. See UnassignIn.
func (l *Ledger) Unassign(ctx context.Context, roomID, studentID string) (Result, error) {
	return l.apply(ctx, "unassign", func(rooms []types.Room, students []types.Student) Result {
		return UnassignIn(rooms, students, roomID, studentID)
	})
}

// ChangeStatus sets a room's status without looking at occupancy.
func (l *Ledger) ChangeStatus(ctx context.Context, roomID string, status types.RoomStatus) (Result, error) {
	if !ValidRoomStatus(status) {
		return Result{}, fmt.Errorf("ledger.ChangeStatus %q: %w", status, ErrInvalidStatus)
	}

	var res Result
	err := l.rooms.Mutate(ctx, func(rooms []types.Room) ([]types.Room, error) {
		res = ChangeStatusIn(rooms, roomID, status)
		if !res.OK() {
			return nil, records.ErrNotFound
		}
		return rooms, nil
	})
	if errors.Is(err, records.ErrNotFound) {
		l.metrics.Assignment("change_status", string(NotFound))
		return Result{Outcome: NotFound}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("ledger.ChangeStatus: %w", err)
	}
	l.metrics.Assignment("change_status", string(res.Outcome))
	return res, nil
}

// Audit checks the stored data against the ledger invariants.
func (l *Ledger) Audit(ctx context.Context) ([]Violation, error) {
	rooms, err := l.rooms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ledger.Audit: %w", err)
	}
	students, err := l.students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ledger.Audit: %w", err)
	}
	return Check(rooms, students), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Room and student lifecycle. These go through the ledger rather than the
// plain tables because each of them can affect the other side.
// ─────────────────────────────────────────────────────────────────────────────

// CreateRoom stores a new, empty room. The room number must be unique
// within its hostel.
func (l *Ledger) CreateRoom(ctx context.Context, room types.Room) (types.Room, error) {
	room.ID = uuid.NewString()
	room.Occupied = 0
	room.Students = []types.StudentRef{}
	if room.Status == "" {
		room.Status = types.RoomAvailable
	}

	err := l.rooms.Mutate(ctx, func(rooms []types.Room) ([]types.Room, error) {
		for _, r := range rooms {
			if r.Hostel == room.Hostel && r.Number == room.Number {
				return nil, fmt.Errorf("%s/%s: %w", room.Hostel, room.Number, ErrDuplicateNumber)
			}
		}
		return append(rooms, room), nil
	})
	if err != nil {
		return types.Room{}, fmt.Errorf("ledger.CreateRoom: %w", err)
	}
	return room, nil
}

// UpdateRoom replaces a room's editable fields with those of edit.
// Occupancy is kept. A renumbered room carries its students along.
func (l *Ledger) UpdateRoom(ctx context.Context, id string, edit types.Room) (types.Room, error) {
	var updated types.Room
	err := records.OnConflict(ctx, func() error {
		rs, err := l.rooms.Load(ctx)
		if err != nil {
			return err
		}
		ss, err := l.students.Load(ctx)
		if err != nil {
			return err
		}

		ri := rs.Index(id)
		if ri < 0 {
			return fmt.Errorf("room %q: %w", id, records.ErrNotFound)
		}
		cur := rs.Items[ri]

		if edit.Capacity < cur.Occupied {
			return fmt.Errorf("capacity %d, occupied %d: %w", edit.Capacity, cur.Occupied, ErrCapacityTooLow)
		}
		for i, r := range rs.Items {
			if i != ri && r.Hostel == edit.Hostel && r.Number == edit.Number {
				return fmt.Errorf("%s/%s: %w", edit.Hostel, edit.Number, ErrDuplicateNumber)
			}
		}

		edit.ID = cur.ID
		edit.Occupied = cur.Occupied
		edit.Students = cur.Students
		if edit.Status == "" {
			edit.Status = cur.Status
		}
		rs.Items[ri] = edit
		updated = edit

		cols := make([]storage.Collection, 0, 2)
		roomsCol, err := l.rooms.Encode(rs.Items, rs.Version)
		if err != nil {
			return err
		}
		cols = append(cols, roomsCol)

		if edit.Number != cur.Number {
			for i := range ss.Items {
				if cur.HasStudent(ss.Items[i].ID) {
					ss.Items[i].RoomNumber = edit.Number
				}
			}
			studentsCol, err := l.students.Encode(ss.Items, ss.Version)
			if err != nil {
				return err
			}
			cols = append(cols, studentsCol)
		}
		return l.store.Put(ctx, cols...)
	})
	if err != nil {
		return types.Room{}, fmt.Errorf("ledger.UpdateRoom: %w", err)
	}
	return updated, nil
}

// DeleteRoom removes an empty room. Rooms with students must be emptied
// with Unassign first.
func (l *Ledger) DeleteRoom(ctx context.Context, id string) error {
	err := l.rooms.Mutate(ctx, func(rooms []types.Room) ([]types.Room, error) {
		ri := indexRoom(rooms, id)
		if ri < 0 {
			return nil, fmt.Errorf("room %q: %w", id, records.ErrNotFound)
		}
		if len(rooms[ri].Students) > 0 || rooms[ri].Occupied > 0 {
			return nil, ErrRoomOccupied
		}
		return slices.Delete(rooms, ri, ri+1), nil
	})
	if err != nil {
		return fmt.Errorf("ledger.DeleteRoom: %w", err)
	}
	return nil
}

// DeleteStudent removes a student and takes them out of any room that
// lists them.
func (l *Ledger) DeleteStudent(ctx context.Context, id string) error {
	err := records.OnConflict(ctx, func() error {
		rs, err := l.rooms.Load(ctx)
		if err != nil {
			return err
		}
		ss, err := l.students.Load(ctx)
		if err != nil {
			return err
		}

		si := ss.Index(id)
		if si < 0 {
			return fmt.Errorf("student %q: %w", id, records.ErrNotFound)
		}

		cols := make([]storage.Collection, 0, 2)
		roomsChanged := false
		for _, r := range rs.Items {
			if r.HasStudent(id) {
				UnassignIn(rs.Items, ss.Items, r.ID, id)
				roomsChanged = true
			}
		}
		if roomsChanged {
			roomsCol, err := l.rooms.Encode(rs.Items, rs.Version)
			if err != nil {
				return err
			}
			cols = append(cols, roomsCol)
		}

		ss.Items = slices.Delete(ss.Items, si, si+1)
		studentsCol, err := l.students.Encode(ss.Items, ss.Version)
		if err != nil {
			return err
		}
		cols = append(cols, studentsCol)

		return l.store.Put(ctx, cols...)
	})
	if err != nil {
		return fmt.Errorf("ledger.DeleteStudent: %w", err)
	}
	return nil
}

// UpdateStudent replaces a student's editable fields with those of edit.
// ID and RoomNumber are kept. A rename is copied into the room that
// lists the student, in the same write.
func (l *Ledger) UpdateStudent(ctx context.Context, id string, edit types.Student) (types.Student, error) {
	var updated types.Student
	err := records.OnConflict(ctx, func() error {
		rs, err := l.rooms.Load(ctx)
		if err != nil {
			return err
		}
		ss, err := l.students.Load(ctx)
		if err != nil {
			return err
		}

		si := ss.Index(id)
		if si < 0 {
			return fmt.Errorf("student %q: %w", id, records.ErrNotFound)
		}
		cur := ss.Items[si]

		edit.ID = cur.ID
		edit.RoomNumber = cur.RoomNumber
		ss.Items[si] = edit
		updated = edit

		cols := make([]storage.Collection, 0, 2)
		studentsCol, err := l.students.Encode(ss.Items, ss.Version)
		if err != nil {
			return err
		}
		cols = append(cols, studentsCol)

		if edit.Name != cur.Name && renameRef(rs.Items, id, edit.Name) {
			roomsCol, err := l.rooms.Encode(rs.Items, rs.Version)
			if err != nil {
				return err
			}
			cols = append(cols, roomsCol)
		}
		return l.store.Put(ctx, cols...)
	})
	if err != nil {
		return types.Student{}, fmt.Errorf("ledger.UpdateStudent: %w", err)
	}
	return updated, nil
}

// renameRef sets the name on every ref to studentID and reports whether
// any room changed.
func renameRef(rooms []types.Room, studentID, name string) bool {
	changed := false
	for i := range rooms {
		for j := range rooms[i].Students {
			if rooms[i].Students[j].ID == studentID {
				rooms[i].Students[j].Name = name
				changed = true
			}
		}
	}
	return changed
}
