// Package routes builds the application's router.
//
// Route table:
//
//	/api/students   CRUD
//	/api/rooms      CRUD, assignment, status, audit
//	/api/complaints CRUD, advance, start, resolve, close
//	/api/fees       CRUD, pay
//	/api/leaves     CRUD, approve, reject
//	/api/hostels    CRUD
//	/api/staff      CRUD
//	/api/reports/occupancy.xlsx
//	/metrics, /healthz
package routes

import (
	"net/http"

	"github.com/aanand-mishra/hostel-api/internal/fees"
	"github.com/aanand-mishra/hostel-api/internal/http/handlers/complaint"
	"github.com/aanand-mishra/hostel-api/internal/http/handlers/fee"
	"github.com/aanand-mishra/hostel-api/internal/http/handlers/hostel"
	"github.com/aanand-mishra/hostel-api/internal/http/handlers/leave"
	"github.com/aanand-mishra/hostel-api/internal/http/handlers/report"
	"github.com/aanand-mishra/hostel-api/internal/http/handlers/room"
	"github.com/aanand-mishra/hostel-api/internal/http/handlers/student"
	"github.com/aanand-mishra/hostel-api/internal/leaves"
	"github.com/aanand-mishra/hostel-api/internal/ledger"
	"github.com/aanand-mishra/hostel-api/internal/records"
	"github.com/aanand-mishra/hostel-api/internal/utils/response"
	"github.com/aanand-mishra/hostel-api/internal/workflow"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the handlers close over.
type Deps struct {
	Tables     *records.Tables
	Ledger     *ledger.Ledger
	Complaints *workflow.Service
	Fees       *fees.Service
	Leaves     *leaves.Service

	// Gatherer backs /metrics. Nil leaves the endpoint out.
	Gatherer prometheus.Gatherer
}

// New returns a ServeMux with every route registered.
func New(d Deps) *http.ServeMux {
	t := d.Tables
	router := http.NewServeMux()

	router.HandleFunc("POST /api/students", student.New(t.Students))
	router.HandleFunc("GET /api/students", student.GetList(t.Students))
	router.HandleFunc("GET /api/students/{id}", student.GetByID(t.Students))
	router.HandleFunc("PUT /api/students/{id}", student.Update(d.Ledger))
	router.HandleFunc("DELETE /api/students/{id}", student.Delete(d.Ledger))

	router.HandleFunc("POST /api/rooms", room.New(d.Ledger))
	router.HandleFunc("GET /api/rooms", room.GetList(t.Rooms))
	router.HandleFunc("GET /api/rooms/audit", room.Audit(d.Ledger))
	router.HandleFunc("GET /api/rooms/{id}", room.GetByID(t.Rooms))
	router.HandleFunc("PUT /api/rooms/{id}", room.Update(d.Ledger))
	router.HandleFunc("DELETE /api/rooms/{id}", room.Delete(d.Ledger))
	router.HandleFunc("POST /api/rooms/{id}/students", room.Assign(d.Ledger))
	router.HandleFunc("DELETE /api/rooms/{id}/students/{sid}", room.Unassign(d.Ledger))
	router.HandleFunc("PATCH /api/rooms/{id}/status", room.ChangeStatus(d.Ledger))

	router.HandleFunc("POST /api/complaints", complaint.New(d.Complaints))
	router.HandleFunc("GET /api/complaints", complaint.GetList(t.Complaints))
	router.HandleFunc("GET /api/complaints/{id}", complaint.GetByID(t.Complaints))
	router.HandleFunc("PUT /api/complaints/{id}", complaint.Update(d.Complaints))
	router.HandleFunc("DELETE /api/complaints/{id}", complaint.Delete(t.Complaints))
	router.HandleFunc("POST /api/complaints/{id}/advance", complaint.Advance(d.Complaints))
	router.HandleFunc("POST /api/complaints/{id}/start", complaint.Start(d.Complaints))
	router.HandleFunc("POST /api/complaints/{id}/resolve", complaint.Resolve(d.Complaints))
	router.HandleFunc("POST /api/complaints/{id}/close", complaint.Close(d.Complaints))

	router.HandleFunc("POST /api/fees", fee.New(d.Fees))
	router.HandleFunc("GET /api/fees", fee.GetList(t.Fees))
	router.HandleFunc("GET /api/fees/{id}", fee.GetByID(t.Fees))
	router.HandleFunc("PUT /api/fees/{id}", fee.Update(t.Fees))
	router.HandleFunc("DELETE /api/fees/{id}", fee.Delete(t.Fees))
	router.HandleFunc("POST /api/fees/{id}/pay", fee.Pay(d.Fees))

	router.HandleFunc("POST /api/leaves", leave.New(d.Leaves))
	router.HandleFunc("GET /api/leaves", leave.GetList(t.Leaves))
	router.HandleFunc("GET /api/leaves/{id}", leave.GetByID(t.Leaves))
	router.HandleFunc("PUT /api/leaves/{id}", leave.Update(t.Leaves))
	router.HandleFunc("DELETE /api/leaves/{id}", leave.Delete(t.Leaves))
	router.HandleFunc("POST /api/leaves/{id}/approve", leave.Approve(d.Leaves))
	router.HandleFunc("POST /api/leaves/{id}/reject", leave.Reject(d.Leaves))

	router.HandleFunc("POST /api/hostels", hostel.New(t.Hostels))
	router.HandleFunc("GET /api/hostels", hostel.GetList(t.Hostels))
	router.HandleFunc("GET /api/hostels/{id}", hostel.GetByID(t.Hostels))
	router.HandleFunc("PUT /api/hostels/{id}", hostel.Update(t.Hostels))
	router.HandleFunc("DELETE /api/hostels/{id}", hostel.Delete(t.Hostels))

	router.HandleFunc("POST /api/staff", hostel.NewStaff(t.Staff))
	router.HandleFunc("GET /api/staff", hostel.GetStaffList(t.Staff))
	router.HandleFunc("GET /api/staff/{id}", hostel.GetStaff(t.Staff))
	router.HandleFunc("PUT /api/staff/{id}", hostel.UpdateStaff(t.Staff))
	router.HandleFunc("DELETE /api/staff/{id}", hostel.DeleteStaff(t.Staff))

	router.HandleFunc("GET /api/reports/occupancy.xlsx", report.Occupancy(t))

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": response.StatusOK})
	})
	if d.Gatherer != nil {
		router.Handle("GET /metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	return router
}
