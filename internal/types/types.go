// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, services, and storage can all import types without
// depending on each other.
//
// Struct tags serve two purposes:
//
//  1. json:"..."     the wire and storage shape. Keys are camelCase so
//     stored collections stay compatible with the dashboard that
//     originally wrote them.
//
//  2. validate:"..." rules checked by the go-playground/validator
//     package when a record arrives over HTTP.
//
// Fields maintained by the services (ids, timestamps, statuses driven
// by workflows, room occupancy) carry no validate tag: handlers
// overwrite them before validation matters.
package types

import "time"

// Record is implemented by every stored entity.
type Record interface {
	GetID() string
}

// ─────────────────────────────────────────────────────────────────────────────
// Student
// ─────────────────────────────────────────────────────────────────────────────

// Student represents a resident (or applicant) of a hostel.
//
// RoomNumber mirrors the Number of the single Room whose Students list
// contains this student. Empty means unassigned. Only the ledger writes
// it.
type Student struct {
	ID               string `json:"id"`
	Name             string `json:"name"             validate:"required,min=2,max=100"`
	Email            string `json:"email"            validate:"required,email"`
	Phone            string `json:"phone"            validate:"required,numeric,len=10"`
	RoomNumber       string `json:"roomNumber,omitempty"`
	EnrollmentNumber string `json:"enrollmentNumber" validate:"required"`
	Course           string `json:"course"           validate:"required"`
	Year             int    `json:"year"             validate:"required,min=1,max=5"`
	GuardianName     string `json:"guardianName"     validate:"required,min=2"`
	GuardianPhone    string `json:"guardianPhone"    validate:"required,numeric,len=10"`
	Address          string `json:"address"          validate:"required,min=10,max=500"`
	Avatar           string `json:"avatar,omitempty"`
}

func (s Student) GetID() string { return s.ID }

// StudentRef is the copy of a student kept inside Room.Students.
type StudentRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Room
// ─────────────────────────────────────────────────────────────────────────────

type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomTriple RoomType = "triple"
	RoomQuad   RoomType = "quad"
)

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
	RoomReserved    RoomStatus = "reserved"
)

// Room is a bookable room inside a hostel.
//
// At rest Occupied == len(Students) and Occupied <= Capacity. Status is
// set by hand and is NOT derived from occupancy.
type Room struct {
	ID       string       `json:"id"`
	Number   string       `json:"number"   validate:"required,max=20"`
	Floor    int          `json:"floor"    validate:"min=0,max=20"`
	Capacity int          `json:"capacity" validate:"required,min=1,max=10"`
	Occupied int          `json:"occupied"`
	Type     RoomType     `json:"type"     validate:"required,oneof=single double triple quad"`
	Status   RoomStatus   `json:"status"   validate:"omitempty,oneof=available occupied maintenance reserved"`
	Hostel   string       `json:"hostel"   validate:"required"`
	Students []StudentRef `json:"students"`
}

func (r Room) GetID() string { return r.ID }

// HasStudent reports whether id is listed in the room.
func (r Room) HasStudent(id string) bool {
	for _, s := range r.Students {
		if s.ID == id {
			return true
		}
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// Complaint
// ─────────────────────────────────────────────────────────────────────────────

type ComplaintCategory string

const (
	CategoryMaintenance ComplaintCategory = "maintenance"
	CategoryCleanliness ComplaintCategory = "cleanliness"
	CategoryFood        ComplaintCategory = "food"
	CategorySecurity    ComplaintCategory = "security"
	CategoryOther       ComplaintCategory = "other"
)

type ComplaintStatus string

const (
	ComplaintOpen       ComplaintStatus = "open"
	ComplaintInProgress ComplaintStatus = "in-progress"
	ComplaintResolved   ComplaintStatus = "resolved"
	ComplaintClosed     ComplaintStatus = "closed"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Complaint is a student-raised issue moving through the review chain.
//
// The three review checkpoints are filled strictly in order: Warden,
// then Admin, then Higher Management. See package workflow.
type Complaint struct {
	ID          string            `json:"id"`
	StudentID   string            `json:"studentId"   validate:"required"`
	StudentName string            `json:"studentName" validate:"required"`
	Title       string            `json:"title"       validate:"required,min=5,max=100"`
	Description string            `json:"description" validate:"required,min=20,max=1000"`
	Category    ComplaintCategory `json:"category"    validate:"required,oneof=maintenance cleanliness food security other"`
	Status      ComplaintStatus   `json:"status"`
	Priority    Priority          `json:"priority"    validate:"required,oneof=low medium high urgent"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	AssignedTo  string            `json:"assignedTo,omitempty"`

	WardenReviewedAt           *time.Time `json:"wardenReviewedAt,omitempty"`
	WardenReviewedBy           string     `json:"wardenReviewedBy,omitempty"`
	AdminReviewedAt            *time.Time `json:"adminReviewedAt,omitempty"`
	AdminReviewedBy            string     `json:"adminReviewedBy,omitempty"`
	HigherManagementReviewedAt *time.Time `json:"higherManagementReviewedAt,omitempty"`
	HigherManagementReviewedBy string     `json:"higherManagementReviewedBy,omitempty"`
}

func (c Complaint) GetID() string { return c.ID }

// ─────────────────────────────────────────────────────────────────────────────
// Hostel, Staff
// ─────────────────────────────────────────────────────────────────────────────

// Hostel is a building. Occupied is maintained by hand; nothing
// recomputes it from the rooms.
type Hostel struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"     validate:"required"`
	Code        string    `json:"code"     validate:"required"`
	Address     string    `json:"address"  validate:"required"`
	Capacity    int       `json:"capacity" validate:"min=0"`
	Occupied    int       `json:"occupied" validate:"min=0"`
	Warden      string    `json:"warden,omitempty"`
	WardenPhone string    `json:"wardenPhone,omitempty"`
	Facilities  []string  `json:"facilities" validate:"unique"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (h Hostel) GetID() string { return h.ID }

type StaffRole string

const (
	StaffWarden StaffRole = "warden"
	StaffOther  StaffRole = "other"
)

type Staff struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"  validate:"required,min=2"`
	Email    string    `json:"email" validate:"required,email"`
	Phone    string    `json:"phone,omitempty"`
	Role     StaffRole `json:"role"  validate:"required,oneof=warden other"`
	Position string    `json:"position,omitempty"`
	Hostel   string    `json:"hostel,omitempty"`
	Avatar   string    `json:"avatar,omitempty"`
}

func (s Staff) GetID() string { return s.ID }

// ─────────────────────────────────────────────────────────────────────────────
// Fee
// ─────────────────────────────────────────────────────────────────────────────

type FeeStatus string

const (
	FeePending FeeStatus = "pending"
	FeePaid    FeeStatus = "paid"
	FeeOverdue FeeStatus = "overdue"
)

type FeeType string

const (
	FeeHostel   FeeType = "hostel"
	FeeMess     FeeType = "mess"
	FeeSecurity FeeType = "security"
	FeeOther    FeeType = "other"
)

type Fee struct {
	ID          string     `json:"id"`
	StudentID   string     `json:"studentId"   validate:"required"`
	StudentName string     `json:"studentName" validate:"required"`
	Amount      float64    `json:"amount"      validate:"required,gt=0"`
	DueDate     time.Time  `json:"dueDate"     validate:"required"`
	PaidDate    *time.Time `json:"paidDate,omitempty"`
	Status      FeeStatus  `json:"status"      validate:"omitempty,oneof=pending paid overdue"`
	Type        FeeType    `json:"type"        validate:"required,oneof=hostel mess security other"`
	Description string     `json:"description"`
}

func (f Fee) GetID() string { return f.ID }

// ─────────────────────────────────────────────────────────────────────────────
// LeaveRequest
// ─────────────────────────────────────────────────────────────────────────────

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

type LeaveRequest struct {
	ID          string      `json:"id"`
	StudentID   string      `json:"studentId"   validate:"required"`
	StudentName string      `json:"studentName" validate:"required"`
	StartDate   time.Time   `json:"startDate"   validate:"required"`
	EndDate     time.Time   `json:"endDate"     validate:"required,gtefield=StartDate"`
	Reason      string      `json:"reason"      validate:"required,min=10,max=500"`
	Status      LeaveStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	ApprovedBy  string      `json:"approvedBy,omitempty"`
	ApprovedAt  *time.Time  `json:"approvedAt,omitempty"`
}

func (l LeaveRequest) GetID() string { return l.ID }
