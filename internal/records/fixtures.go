package records

import (
	"time"

	"github.com/aanand-mishra/hostel-api/internal/types"
)

// Fixture sets written into empty collections on first use. Each call
// returns fresh slices.

func SeedStudents() []types.Student {
	return []types.Student{
		{
			ID: "1", Name: "Rahul Kumar", Email: "rahul.kumar@medhavi.edu", Phone: "9876543210",
			RoomNumber: "A-101", EnrollmentNumber: "ENR2024001", Course: "B.Tech Computer Science", Year: 2,
			GuardianName: "Suresh Kumar", GuardianPhone: "9876543200", Address: "12 MG Road, Bengaluru, Karnataka",
		},
		{
			ID: "2", Name: "Priya Sharma", Email: "priya.sharma@medhavi.edu", Phone: "9876543211",
			RoomNumber: "B-201", EnrollmentNumber: "ENR2024002", Course: "B.Sc Physics", Year: 1,
			GuardianName: "Anil Sharma", GuardianPhone: "9876543201", Address: "45 Civil Lines, Jaipur, Rajasthan",
		},
		{
			ID: "3", Name: "Amit Patel", Email: "amit.patel@medhavi.edu", Phone: "9876543212",
			RoomNumber: "B-202", EnrollmentNumber: "ENR2024003", Course: "B.Com", Year: 3,
			GuardianName: "Ramesh Patel", GuardianPhone: "9876543202", Address: "8 Ashram Road, Ahmedabad, Gujarat",
		},
		{
			ID: "4", Name: "Sneha Reddy", Email: "sneha.reddy@medhavi.edu", Phone: "9876543213",
			EnrollmentNumber: "ENR2024004", Course: "BBA", Year: 1,
			GuardianName: "Venkat Reddy", GuardianPhone: "9876543203", Address: "22 Banjara Hills, Hyderabad, Telangana",
		},
	}
}

func SeedRooms() []types.Room {
	return []types.Room{
		{ID: "1", Number: "A-101", Floor: 1, Capacity: 2, Occupied: 1, Type: types.RoomDouble, Status: types.RoomAvailable, Hostel: "Block A - Boys Hostel",
			Students: []types.StudentRef{{ID: "1", Name: "Rahul Kumar"}}},
		{ID: "2", Number: "A-102", Floor: 1, Capacity: 2, Type: types.RoomDouble, Status: types.RoomAvailable, Hostel: "Block A - Boys Hostel",
			Students: []types.StudentRef{}},
		{ID: "3", Number: "A-104", Floor: 1, Capacity: 2, Type: types.RoomDouble, Status: types.RoomMaintenance, Hostel: "Block A - Boys Hostel",
			Students: []types.StudentRef{}},
		{ID: "4", Number: "B-201", Floor: 2, Capacity: 3, Occupied: 1, Type: types.RoomTriple, Status: types.RoomAvailable, Hostel: "Block B - Girls Hostel",
			Students: []types.StudentRef{{ID: "2", Name: "Priya Sharma"}}},
		{ID: "5", Number: "B-202", Floor: 2, Capacity: 1, Occupied: 1, Type: types.RoomSingle, Status: types.RoomOccupied, Hostel: "Block B - Girls Hostel",
			Students: []types.StudentRef{{ID: "3", Name: "Amit Patel"}}},
	}
}

func SeedComplaints() []types.Complaint {
	at := func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	wardenAt := at("2024-01-15T09:00:00Z")
	return []types.Complaint{
		{
			ID: "1", StudentID: "1", StudentName: "Rahul Kumar", Title: "AC not working",
			Description: "The air conditioner in room A-101 has stopped working.",
			Category:    types.CategoryMaintenance, Status: types.ComplaintOpen, Priority: types.PriorityHigh,
			CreatedAt: at("2024-01-15T10:30:00Z"), UpdatedAt: at("2024-01-15T10:30:00Z"),
		},
		{
			ID: "2", StudentID: "2", StudentName: "Priya Sharma", Title: "Poor food quality",
			Description: "The food served in the mess yesterday was not fresh.",
			Category:    types.CategoryFood, Status: types.ComplaintInProgress, Priority: types.PriorityMedium,
			CreatedAt: at("2024-01-14T14:20:00Z"), UpdatedAt: at("2024-01-15T09:00:00Z"),
			AssignedTo:       "Mess Warden",
			WardenReviewedAt: &wardenAt, WardenReviewedBy: "Warden Singh",
		},
		{
			ID: "3", StudentID: "3", StudentName: "Amit Patel", Title: "Unclean washroom",
			Description: "The common washroom on floor 3 needs cleaning.",
			Category:    types.CategoryCleanliness, Status: types.ComplaintResolved, Priority: types.PriorityLow,
			CreatedAt: at("2024-01-13T08:15:00Z"), UpdatedAt: at("2024-01-14T16:00:00Z"),
			AssignedTo: "Cleaning Staff",
		},
	}
}

func SeedFees() []types.Fee {
	day := func(s string) time.Time {
		t, _ := time.Parse(time.DateOnly, s)
		return t
	}
	paid := day("2024-01-05")
	return []types.Fee{
		{ID: "1", StudentID: "1", StudentName: "Rahul Kumar", Amount: 45000, DueDate: day("2024-01-10"),
			PaidDate: &paid, Status: types.FeePaid, Type: types.FeeHostel, Description: "Hostel fee - Semester 2"},
		{ID: "2", StudentID: "2", StudentName: "Priya Sharma", Amount: 12000, DueDate: day("2024-02-10"),
			Status: types.FeePending, Type: types.FeeMess, Description: "Mess fee - February"},
		{ID: "3", StudentID: "3", StudentName: "Amit Patel", Amount: 5000, DueDate: day("2024-01-01"),
			Status: types.FeeOverdue, Type: types.FeeSecurity, Description: "Security deposit"},
	}
}

func SeedLeaves() []types.LeaveRequest {
	day := func(s string) time.Time {
		t, _ := time.Parse(time.DateOnly, s)
		return t
	}
	at := func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	approved := at("2024-01-13T09:00:00Z")
	rejected := at("2024-01-11T11:00:00Z")
	return []types.LeaveRequest{
		{ID: "1", StudentID: "1", StudentName: "Rahul Kumar", StartDate: day("2024-01-20"), EndDate: day("2024-01-25"),
			Reason: "Family emergency", Status: types.LeavePending, CreatedAt: at("2024-01-15T10:00:00Z")},
		{ID: "2", StudentID: "2", StudentName: "Priya Sharma", StartDate: day("2024-01-18"), EndDate: day("2024-01-20"),
			Reason: "Medical appointment", Status: types.LeaveApproved, CreatedAt: at("2024-01-12T14:30:00Z"),
			ApprovedBy: "Warden", ApprovedAt: &approved},
		{ID: "3", StudentID: "3", StudentName: "Amit Patel", StartDate: day("2024-01-22"), EndDate: day("2024-01-28"),
			Reason: "Vacation", Status: types.LeaveRejected, CreatedAt: at("2024-01-10T16:45:00Z"),
			ApprovedBy: "Warden", ApprovedAt: &rejected},
	}
}

func SeedHostels() []types.Hostel {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []types.Hostel{
		{ID: "h1", Name: "Block A - Boys Hostel", Code: "BLK-A", Address: "Medhavi Campus, North Wing",
			Capacity: 200, Occupied: 150, Warden: "Warden Singh", WardenPhone: "+91 9876500001",
			Facilities: []string{"WiFi", "Gym", "Mess", "Common Room", "Laundry"}, CreatedAt: created},
		{ID: "h2", Name: "Block B - Girls Hostel", Code: "BLK-B", Address: "Medhavi Campus, South Wing",
			Capacity: 150, Occupied: 120, Warden: "Mrs. Sharma", WardenPhone: "+91 9876500010",
			Facilities: []string{"WiFi", "Gym", "Mess", "Common Room", "Laundry", "Security"}, CreatedAt: created},
	}
}

func SeedStaff() []types.Staff {
	return []types.Staff{
		{ID: "st1", Name: "Warden Singh", Email: "warden@medhavi.edu", Phone: "+91 9876500001",
			Role: types.StaffWarden, Position: "Hostel Warden", Hostel: "Block A - Boys Hostel"},
		{ID: "st2", Name: "Mess Warden", Email: "mess.warden@medhavi.edu", Phone: "+91 9876500002",
			Role: types.StaffOther, Position: "Mess Warden"},
	}
}
