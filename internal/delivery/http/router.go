package http

import (
	"net/http"

	"hospital-management-api/internal/delivery/http/handler"
	"hospital-management-api/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	billingHandler      *handler.BillingHandler
	bedHandler          *handler.BedHandler
	bedRequestHandler   *handler.BedRequestHandler
	appointmentHandler  *handler.AppointmentHandler
	prescriptionHandler *handler.PrescriptionHandler
	notificationHandler *handler.NotificationHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
}

func NewRouter(
	billingHandler *handler.BillingHandler,
	bedHandler *handler.BedHandler,
	bedRequestHandler *handler.BedRequestHandler,
	appointmentHandler *handler.AppointmentHandler,
	prescriptionHandler *handler.PrescriptionHandler,
	notificationHandler *handler.NotificationHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		billingHandler:      billingHandler,
		bedHandler:          bedHandler,
		bedRequestHandler:   bedRequestHandler,
		appointmentHandler:  appointmentHandler,
		prescriptionHandler: prescriptionHandler,
		notificationHandler: notificationHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Everything else requires a valid access token
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	// Billing (back office)
	billing := protected.PathPrefix("/billing").Subrouter()
	billing.Handle("/calculate", middleware.RequireBackOffice(http.HandlerFunc(r.billingHandler.CalculateFees))).Methods(http.MethodGet)
	billing.Handle("", middleware.RequireBackOffice(http.HandlerFunc(r.billingHandler.CreateBill))).Methods(http.MethodPost)
	billing.Handle("/{id}/payments", middleware.RequireBackOffice(http.HandlerFunc(r.billingHandler.RecordPayment))).Methods(http.MethodPost)
	billing.Handle("/{id}/cancel", middleware.RequireBackOffice(http.HandlerFunc(r.billingHandler.CancelBill))).Methods(http.MethodPost)

	// Billing (any role, patients see their own)
	billing.HandleFunc("", r.billingHandler.ListBills).Methods(http.MethodGet)
	billing.HandleFunc("/{id}", r.billingHandler.GetBill).Methods(http.MethodGet)

	// Bed requests are registered before /beds/{id} so "requests" is not taken for an id
	bedRequests := protected.PathPrefix("/beds/requests").Subrouter()
	bedRequests.Handle("", middleware.RequireDoctor(http.HandlerFunc(r.bedRequestHandler.CreateBedRequest))).Methods(http.MethodPost)
	bedRequests.Handle("", middleware.RequireBackOffice(http.HandlerFunc(r.bedRequestHandler.ListBedRequests))).Methods(http.MethodGet)
	bedRequests.Handle("/{id}/approve", middleware.RequireBackOffice(http.HandlerFunc(r.bedRequestHandler.ApproveBedRequest))).Methods(http.MethodPost)
	bedRequests.Handle("/{id}/reject", middleware.RequireBackOffice(http.HandlerFunc(r.bedRequestHandler.RejectBedRequest))).Methods(http.MethodPost)

	// Wards, beds and allocations (back office)
	beds := protected.PathPrefix("/beds").Subrouter()
	beds.Use(middleware.RequireBackOffice)
	beds.HandleFunc("/wards", r.bedHandler.CreateWard).Methods(http.MethodPost)
	beds.HandleFunc("/wards", r.bedHandler.ListWards).Methods(http.MethodGet)
	beds.HandleFunc("/wards/{id}", r.bedHandler.GetWard).Methods(http.MethodGet)
	beds.HandleFunc("/allocations", r.bedHandler.AdmitPatient).Methods(http.MethodPost)
	beds.HandleFunc("/allocations", r.bedHandler.ListAllocations).Methods(http.MethodGet)
	beds.HandleFunc("/allocations/{id}/discharge", r.bedHandler.DischargePatient).Methods(http.MethodPost)
	beds.HandleFunc("", r.bedHandler.CreateBed).Methods(http.MethodPost)
	beds.HandleFunc("", r.bedHandler.ListBeds).Methods(http.MethodGet)
	beds.HandleFunc("/{id}/status", r.bedHandler.SetBedStatus).Methods(http.MethodPut)
	beds.HandleFunc("/{id}", r.bedHandler.DeleteBed).Methods(http.MethodDelete)

	// Appointments
	appointments := protected.PathPrefix("/appointments").Subrouter()
	appointments.Handle("", middleware.RequirePatient(http.HandlerFunc(r.appointmentHandler.BookAppointment))).Methods(http.MethodPost)
	appointments.Handle("/{id}/approve", middleware.RequireAdminOrDoctor(http.HandlerFunc(r.appointmentHandler.ApproveAppointment))).Methods(http.MethodPost)
	appointments.Handle("/{id}/reject", middleware.RequireAdminOrDoctor(http.HandlerFunc(r.appointmentHandler.RejectAppointment))).Methods(http.MethodPost)
	appointments.Handle("/{id}/cancel", middleware.RequireAdminOrPatient(http.HandlerFunc(r.appointmentHandler.CancelAppointment))).Methods(http.MethodPost)
	appointments.HandleFunc("/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}/prescription", r.appointmentHandler.GetAppointmentPrescription).Methods(http.MethodGet)

	// Prescriptions
	prescriptions := protected.PathPrefix("/prescriptions").Subrouter()
	prescriptions.Handle("", middleware.RequireDoctor(http.HandlerFunc(r.prescriptionHandler.CreatePrescription))).Methods(http.MethodPost)
	prescriptions.HandleFunc("/{id}", r.prescriptionHandler.GetPrescription).Methods(http.MethodGet)

	// Notifications (own)
	notifications := protected.PathPrefix("/notifications").Subrouter()
	notifications.HandleFunc("", r.notificationHandler.ListNotifications).Methods(http.MethodGet)
	notifications.HandleFunc("/{id}/read", r.notificationHandler.MarkRead).Methods(http.MethodPost)

	// Preflight requests only need to reach the CORS middleware
	r.router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
