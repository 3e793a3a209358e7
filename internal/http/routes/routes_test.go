package routes_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aanand-mishra/hostel-api/internal/fees"
	"github.com/aanand-mishra/hostel-api/internal/http/routes"
	"github.com/aanand-mishra/hostel-api/internal/leaves"
	"github.com/aanand-mishra/hostel-api/internal/ledger"
	"github.com/aanand-mishra/hostel-api/internal/metrics"
	"github.com/aanand-mishra/hostel-api/internal/records"
	"github.com/aanand-mishra/hostel-api/internal/storage/memory"
	"github.com/aanand-mishra/hostel-api/internal/types"
	"github.com/aanand-mishra/hostel-api/internal/workflow"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	tables := records.NewTables(memory.New(), nil)

	srv := httptest.NewServer(routes.New(routes.Deps{
		Tables:     tables,
		Ledger:     ledger.New(tables, nil, m),
		Complaints: workflow.NewService(tables.Complaints, nil, m),
		Fees:       fees.NewService(tables.Fees, nil, m),
		Leaves:     leaves.NewService(tables.Leaves, nil, m),
		Gatherer:   reg,
	}))
	t.Cleanup(srv.Close)
	return srv
}

// do sends body (marshalled unless it is a string) and decodes the JSON
// response into out when out is non-nil.
func do(t *testing.T, srv *httptest.Server, method, path string, body any, out any) int {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, srv.URL+path, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

type errorBody struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func validStudent() map[string]any {
	return map[string]any{
		"name": "Kavya Nair", "email": "kavya.nair@medhavi.edu", "phone": "9876543214",
		"enrollmentNumber": "ENR2024005", "course": "B.Tech Civil", "year": 1,
		"guardianName": "Mohan Nair", "guardianPhone": "9876543204",
		"address": "7 Marine Drive, Kochi, Kerala",
		"roomNumber": "A-101",
	}
}

func TestStudents(t *testing.T) {
	srv := newServer(t)

	var created types.Student
	require.Equal(t, http.StatusCreated, do(t, srv, "POST", "/api/students", validStudent(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Empty(t, created.RoomNumber, "room number is owned by the ledger")

	var e errorBody
	assert.Equal(t, http.StatusConflict, do(t, srv, "POST", "/api/students", validStudent(), &e))

	bad := validStudent()
	bad["email"] = "not-an-email"
	bad["enrollmentNumber"] = "ENR2024006"
	require.Equal(t, http.StatusBadRequest, do(t, srv, "POST", "/api/students", bad, &e))
	assert.Contains(t, e.Error, "field Email must be a valid email address")

	assert.Equal(t, http.StatusBadRequest, do(t, srv, "POST", "/api/students", "", &e))
	assert.Equal(t, "request body is empty", e.Error)

	var unassigned []types.Student
	require.Equal(t, http.StatusOK, do(t, srv, "GET", "/api/students?unassigned=true", nil, &unassigned))
	var names []string
	for _, s := range unassigned {
		names = append(names, s.Name)
	}
	assert.ElementsMatch(t, []string{"Sneha Reddy", "Kavya Nair"}, names)

	update := validStudent()
	update["name"] = "Kavya R. Nair"
	var updated types.Student
	require.Equal(t, http.StatusOK, do(t, srv, "PUT", "/api/students/"+created.ID, update, &updated))
	assert.Equal(t, "Kavya R. Nair", updated.Name)
	assert.Equal(t, created.ID, updated.ID)
	assert.Empty(t, updated.RoomNumber)

	assert.Equal(t, http.StatusNotFound, do(t, srv, "GET", "/api/students/nope", nil, &e))
}

func TestRoomAssignment(t *testing.T) {
	srv := newServer(t)

	var res ledger.Result
	require.Equal(t, http.StatusOK, do(t, srv, "POST", "/api/rooms/2/students", map[string]string{"studentId": "4"}, &res))
	assert.Equal(t, ledger.Applied, res.Outcome)
	require.NotNil(t, res.Room)
	assert.Equal(t, 1, res.Room.Occupied)
	assert.Equal(t, "A-102", res.Student.RoomNumber)

	var sneha types.Student
	require.Equal(t, http.StatusOK, do(t, srv, "GET", "/api/students/4", nil, &sneha))
	sneha.Name = "Sneha R. Reddy"
	require.Equal(t, http.StatusOK, do(t, srv, "PUT", "/api/students/4", sneha, nil))
	var room types.Room
	require.Equal(t, http.StatusOK, do(t, srv, "GET", "/api/rooms/2", nil, &room))
	require.Len(t, room.Students, 1)
	assert.Equal(t, "Sneha R. Reddy", room.Students[0].Name)

	require.Equal(t, http.StatusOK, do(t, srv, "POST", "/api/rooms/5/students", map[string]string{"studentId": "4"}, &res))
	assert.Equal(t, ledger.AlreadyAssigned, res.Outcome)

	res = ledger.Result{}
	require.Equal(t, http.StatusNotFound, do(t, srv, "POST", "/api/rooms/99/students", map[string]string{"studentId": "4"}, &res))
	assert.Equal(t, ledger.NotFound, res.Outcome)
	assert.Nil(t, res.Room)

	var e errorBody
	assert.Equal(t, http.StatusBadRequest, do(t, srv, "POST", "/api/rooms/2/students", map[string]string{}, &e))

	require.Equal(t, http.StatusOK, do(t, srv, "DELETE", "/api/rooms/2/students/4", nil, &res))
	assert.Equal(t, ledger.Applied, res.Outcome)
	require.Equal(t, http.StatusOK, do(t, srv, "DELETE", "/api/rooms/2/students/4", nil, &res))
	assert.Equal(t, ledger.NotAssigned, res.Outcome)

	var violations []ledger.Violation
	require.Equal(t, http.StatusOK, do(t, srv, "GET", "/api/rooms/audit", nil, &violations))
	assert.Empty(t, violations)
}

func TestRoomStatusAndLifecycle(t *testing.T) {
	srv := newServer(t)

	var res ledger.Result
	require.Equal(t, http.StatusOK, do(t, srv, "PATCH", "/api/rooms/2/status", map[string]string{"status": "reserved"}, &res))
	assert.Equal(t, types.RoomReserved, res.Room.Status)

	require.Equal(t, http.StatusOK, do(t, srv, "POST", "/api/rooms/2/students", map[string]string{"studentId": "4"}, &res))
	assert.Equal(t, ledger.RoomUnavailable, res.Outcome)

	var e errorBody
	assert.Equal(t, http.StatusBadRequest, do(t, srv, "PATCH", "/api/rooms/2/status", map[string]string{"status": "gone"}, &e))

	room := map[string]any{"number": "C-301", "floor": 3, "capacity": 3, "type": "triple", "hostel": "Block B - Girls Hostel"}
	var created types.Room
	require.Equal(t, http.StatusCreated, do(t, srv, "POST", "/api/rooms", room, &created))
	assert.Equal(t, types.RoomAvailable, created.Status)
	assert.Equal(t, http.StatusConflict, do(t, srv, "POST", "/api/rooms", room, &e))

	room["capacity"] = 0
	require.Equal(t, http.StatusBadRequest, do(t, srv, "POST", "/api/rooms", room, &e))

	assert.Equal(t, http.StatusConflict, do(t, srv, "DELETE", "/api/rooms/1", nil, &e))
	assert.Equal(t, http.StatusOK, do(t, srv, "DELETE", "/api/rooms/"+created.ID, nil, nil))
}

func TestStudentDeleteEmptiesRoom(t *testing.T) {
	srv := newServer(t)

	require.Equal(t, http.StatusOK, do(t, srv, "DELETE", "/api/students/1", nil, nil))

	var room types.Room
	require.Equal(t, http.StatusOK, do(t, srv, "GET", "/api/rooms/1", nil, &room))
	assert.Zero(t, room.Occupied)
	assert.Empty(t, room.Students)
}

type complaintView struct {
	types.Complaint
	Stage        string `json:"stage"`
	NextReviewer string `json:"nextReviewer"`
}

func TestComplaintWorkflow(t *testing.T) {
	srv := newServer(t)

	body := map[string]any{
		"studentId": "4", "studentName": "Sneha Reddy", "title": "Noisy corridor",
		"description": "Loud music in the corridor every night after midnight.",
		"category": "other", "priority": "low",
	}
	var c complaintView
	require.Equal(t, http.StatusCreated, do(t, srv, "POST", "/api/complaints", body, &c))
	assert.Equal(t, "open", c.Stage)
	assert.Equal(t, "Warden", c.NextReviewer)

	for _, want := range []string{"Warden", "Admin", "Higher Management"} {
		var adv struct {
			Reviewed  string        `json:"reviewed"`
			Complaint complaintView `json:"complaint"`
		}
		require.Equal(t, http.StatusOK, do(t, srv, "POST", "/api/complaints/"+c.ID+"/advance", map[string]string{"reviewer": "R"}, &adv))
		assert.Equal(t, want, adv.Reviewed)
	}

	var e errorBody
	assert.Equal(t, http.StatusConflict, do(t, srv, "POST", "/api/complaints/"+c.ID+"/advance", map[string]string{"reviewer": "R"}, &e))
	assert.Contains(t, e.Error, "already fully reviewed")

	require.Equal(t, http.StatusOK, do(t, srv, "POST", "/api/complaints/"+c.ID+"/start", nil, &c))
	assert.Equal(t, types.ComplaintInProgress, c.Status)
	require.Equal(t, http.StatusOK, do(t, srv, "POST", "/api/complaints/"+c.ID+"/resolve", nil, &c))
	assert.Equal(t, "resolved", c.Stage)
	var closed complaintView
	require.Equal(t, http.StatusOK, do(t, srv, "POST", "/api/complaints/"+c.ID+"/close", nil, &closed))
	assert.Equal(t, "closed", closed.Stage)
	assert.Empty(t, closed.NextReviewer)

	assert.Equal(t, http.StatusConflict, do(t, srv, "POST", "/api/complaints/"+c.ID+"/close", nil, &e))
	assert.Equal(t, http.StatusNotFound, do(t, srv, "POST", "/api/complaints/nope/resolve", nil, &e))

	var list []complaintView
	require.Equal(t, http.StatusOK, do(t, srv, "GET", "/api/complaints", nil, &list))
	assert.Len(t, list, 4)
}

func TestFeesAndLeaves(t *testing.T) {
	srv := newServer(t)

	var f types.Fee
	require.Equal(t, http.StatusOK, do(t, srv, "POST", "/api/fees/2/pay", nil, &f))
	assert.Equal(t, types.FeePaid, f.Status)
	assert.NotNil(t, f.PaidDate)

	var e errorBody
	assert.Equal(t, http.StatusConflict, do(t, srv, "POST", "/api/fees/2/pay", nil, &e))

	require.Equal(t, http.StatusOK, do(t, srv, "POST", "/api/fees/3/pay", `{"paidDate":"2024-01-20T00:00:00Z"}`, &f))
	assert.Equal(t, "2024-01-20", f.PaidDate.Format("2006-01-02"))

	assert.Equal(t, http.StatusBadRequest, do(t, srv, "POST", "/api/fees",
		map[string]any{"studentId": "1", "studentName": "Rahul Kumar", "amount": -5, "dueDate": "2024-05-01T00:00:00Z", "type": "mess"}, &e))

	var l types.LeaveRequest
	require.Equal(t, http.StatusOK, do(t, srv, "POST", "/api/leaves/1/approve", map[string]string{"approver": "Warden Singh"}, &l))
	assert.Equal(t, types.LeaveApproved, l.Status)
	assert.Equal(t, http.StatusConflict, do(t, srv, "POST", "/api/leaves/1/reject", map[string]string{"approver": "Warden Singh"}, &e))

	leave := map[string]any{
		"studentId": "4", "studentName": "Sneha Reddy", "reason": "Going home for the festival",
		"startDate": "2024-03-10T00:00:00Z", "endDate": "2024-03-05T00:00:00Z",
	}
	require.Equal(t, http.StatusBadRequest, do(t, srv, "POST", "/api/leaves", leave, &e))
	assert.Contains(t, e.Error, "EndDate")
}

func TestHostelsAndStaff(t *testing.T) {
	srv := newServer(t)

	h := map[string]any{"name": "Block C", "code": "blk-a", "address": "Medhavi Campus, East Wing", "capacity": 80}
	var e errorBody
	assert.Equal(t, http.StatusConflict, do(t, srv, "POST", "/api/hostels", h, &e), "codes compare without case")

	h["code"] = "BLK-C"
	var created types.Hostel
	require.Equal(t, http.StatusCreated, do(t, srv, "POST", "/api/hostels", h, &created))
	assert.NotNil(t, created.Facilities)

	h["facilities"] = []string{"WiFi", "WiFi"}
	assert.Equal(t, http.StatusBadRequest, do(t, srv, "PUT", "/api/hostels/"+created.ID, h, &e))

	var staff types.Staff
	require.Equal(t, http.StatusCreated, do(t, srv, "POST", "/api/staff",
		map[string]any{"name": "Ravi Das", "email": "ravi@medhavi.edu", "role": "other"}, &staff))
	assert.NotEmpty(t, staff.ID)

	var all []types.Staff
	require.Equal(t, http.StatusOK, do(t, srv, "GET", "/api/staff", nil, &all))
	assert.Len(t, all, 3)
}

func TestOccupancyReportAndOps(t *testing.T) {
	srv := newServer(t)

	res, err := srv.Client().Get(srv.URL + "/api/reports/occupancy.xlsx")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "spreadsheetml")
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")), "xlsx is a zip archive")

	var health map[string]string
	require.Equal(t, http.StatusOK, do(t, srv, "GET", "/healthz", nil, &health))
	assert.Equal(t, "ok", health["status"])

	do(t, srv, "POST", "/api/rooms/2/students", map[string]string{"studentId": "4"}, nil)
	mres, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer mres.Body.Close()
	text, err := io.ReadAll(mres.Body)
	require.NoError(t, err)
	assert.Contains(t, string(text), `hostel_room_assignment_ops_total{op="assign",outcome="applied"} 1`)
}
