package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hospital-management-api/config"
	deliveryHttp "hospital-management-api/internal/delivery/http"
	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/delivery/http/handler"
	"hospital-management-api/internal/delivery/http/middleware"
	"hospital-management-api/internal/domain/entity"
	"hospital-management-api/internal/repository/inmemory"
	"hospital-management-api/internal/service"
	"hospital-management-api/internal/usecase"
	"hospital-management-api/pkg/jwt"
	"hospital-management-api/pkg/validator"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type testServer struct {
	handler    http.Handler
	store      *inmemory.Store
	redis      *miniredis.Miniredis
	jwtService *jwt.JWTService
	staffID    uuid.UUID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	store := inmemory.NewStore()
	transactor := store.Transactor()
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "router-test", AccessExpiry: time.Hour})
	customValidator := validator.NewValidator()

	notificationService := service.NewNotificationService(log, store.Notifications(), store.Users())
	bedManager := service.NewBedAllocationManager(log, store.Beds(), store.BedAllocations())
	feeCalculator := service.NewFeeCalculator(service.NewDiscountPolicy())
	invoiceGenerator := service.NewInvoiceNumberGenerator(redisClient, log, "INV")

	billingUsecase := usecase.NewBillingUsecase(transactor, log, store.Bills(), store.Appointments(), store.DoctorProfiles(),
		store.BedAllocations(), store.Beds(), feeCalculator, invoiceGenerator, notificationService)
	bedUsecase := usecase.NewBedUsecase(transactor, log, store.Wards(), store.Beds(), store.BedAllocations(), store.PatientProfiles(), bedManager, notificationService)
	bedRequestUsecase := usecase.NewBedRequestUsecase(transactor, log, store.BedRequests(), store.Appointments(), store.Beds(), bedManager, notificationService)
	appointmentUsecase := usecase.NewAppointmentUsecase(transactor, log, store.Appointments(), store.DoctorProfiles(), notificationService)
	prescriptionUsecase := usecase.NewPrescriptionUsecase(transactor, log, store.Prescriptions(), store.Appointments(), store.BedRequests(), notificationService)
	notificationUsecase := usecase.NewNotificationUsecase(transactor, log, store.Notifications())

	router := deliveryHttp.NewRouter(
		handler.NewBillingHandler(billingUsecase, customValidator),
		handler.NewBedHandler(bedUsecase, customValidator),
		handler.NewBedRequestHandler(bedRequestUsecase, customValidator),
		handler.NewAppointmentHandler(appointmentUsecase, prescriptionUsecase, customValidator),
		handler.NewPrescriptionHandler(prescriptionUsecase, customValidator),
		handler.NewNotificationHandler(notificationUsecase),
		middleware.NewAuthMiddleware(jwtService, redisClient, log),
		middleware.NewCORSMiddleware(),
	)

	return &testServer{
		handler:    router.Setup(),
		store:      store,
		redis:      mr,
		jwtService: jwtService,
		staffID:    store.AddUser(entity.RoleIDStaff, "Front Desk"),
	}
}

func (s *testServer) token(t *testing.T, userID uuid.UUID, roleID int) string {
	t.Helper()
	token, _, err := s.jwtService.GenerateAccessToken(userID, "user@hospital.test", roleID)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error: %v", err)
	}
	return token
}

// do sends body (nil for none) and decodes the envelope, returning data into out when non-nil
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}, out interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode response %q: %v", method, path, rec.Body.String(), err)
	}
	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("%s %s: decode data: %v", method, path, err)
		}
	}
	return rec.Code, env
}

func TestRouter_HealthIsPublic(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRouter_PreflightSkipsAuthentication(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/billing", nil)
	req.Header.Set("Origin", "https://desk.example")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestRouter_Authentication(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(t, http.MethodGet, "/api/v1/notifications", "", nil, nil)
	if code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", code)
	}

	code, _ = s.do(t, http.MethodGet, "/api/v1/notifications", "not-a-jwt", nil, nil)
	if code != http.StatusUnauthorized {
		t.Errorf("garbage token status = %d, want 401", code)
	}

	token, tokenID, err := s.jwtService.GenerateAccessToken(s.staffID, "staff@hospital.test", entity.RoleIDStaff)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error: %v", err)
	}
	code, _ = s.do(t, http.MethodGet, "/api/v1/notifications", token, nil, nil)
	if code != http.StatusOK {
		t.Errorf("valid token status = %d, want 200", code)
	}

	s.redis.Set(middleware.RevokedTokenKeyPrefix+tokenID, "1")
	code, _ = s.do(t, http.MethodGet, "/api/v1/notifications", token, nil, nil)
	if code != http.StatusUnauthorized {
		t.Errorf("revoked token status = %d, want 401", code)
	}
}

func TestRouter_RoleGuards(t *testing.T) {
	s := newTestServer(t)
	patient := s.token(t, s.store.AddPatient(), entity.RoleIDPatient)
	doctor := s.token(t, s.store.AddDoctor(nil), entity.RoleIDDoctor)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
	}{
		{"patient creates bill", http.MethodPost, "/api/v1/billing", patient},
		{"patient previews fees", http.MethodGet, "/api/v1/billing/calculate?appointment_id=" + uuid.NewString(), patient},
		{"doctor lists wards", http.MethodGet, "/api/v1/beds/wards", doctor},
		{"patient requests bed", http.MethodPost, "/api/v1/beds/requests", patient},
		{"doctor approves bed request", http.MethodPost, "/api/v1/beds/requests/" + uuid.NewString() + "/approve", doctor},
		{"doctor books appointment", http.MethodPost, "/api/v1/appointments", doctor},
		{"patient writes prescription", http.MethodPost, "/api/v1/prescriptions", patient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := s.do(t, tt.method, tt.path, tt.token, map[string]string{}, nil)
			if code != http.StatusForbidden {
				t.Errorf("status = %d, want 403", code)
			}
		})
	}
}

func TestRouter_BillingFlow(t *testing.T) {
	s := newTestServer(t)
	staff := s.token(t, s.staffID, entity.RoleIDStaff)
	patientID := s.store.AddPatient()
	fee := decimal.NewFromInt(500)
	doctorID := s.store.AddDoctor(&fee)
	appointment := s.store.AddAppointment(entity.Appointment{
		PatientID:       patientID,
		DoctorID:        doctorID,
		AppointmentDate: time.Now(),
		AppointmentTime: "09:30",
		Reason:          "Checkup",
		Status:          entity.AppointmentStatusVisited,
	})

	var preview dto.FeeBreakdownResponse
	code, _ := s.do(t, http.MethodGet, "/api/v1/billing/calculate?appointment_id="+appointment.ID.String(), staff, nil, &preview)
	if code != http.StatusOK {
		t.Fatalf("calculate status = %d, want 200", code)
	}
	if !preview.FinalAmount.Equal(decimal.NewFromInt(550)) {
		t.Errorf("preview final = %s, want 550", preview.FinalAmount)
	}

	code, _ = s.do(t, http.MethodGet, "/api/v1/billing/calculate?appointment_id=oops", staff, nil, nil)
	if code != http.StatusBadRequest {
		t.Errorf("bad appointment id status = %d, want 400", code)
	}

	var bill dto.BillResponse
	code, _ = s.do(t, http.MethodPost, "/api/v1/billing", staff, dto.CreateBillRequest{AppointmentID: appointment.ID}, &bill)
	if code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", code)
	}

	code, _ = s.do(t, http.MethodPost, "/api/v1/billing", staff, dto.CreateBillRequest{AppointmentID: appointment.ID}, nil)
	if code != http.StatusConflict {
		t.Errorf("second create status = %d, want 409", code)
	}

	payments := "/api/v1/billing/" + bill.ID.String() + "/payments"
	code, _ = s.do(t, http.MethodPost, payments, staff, map[string]string{"amount": "100", "payment_method": "BITCOIN"}, nil)
	if code != http.StatusBadRequest {
		t.Errorf("bad method status = %d, want 400", code)
	}
	code, _ = s.do(t, http.MethodPost, payments, staff, map[string]string{"amount": "0", "payment_method": "CASH"}, nil)
	if code != http.StatusBadRequest {
		t.Errorf("zero amount status = %d, want 400", code)
	}

	var payment dto.PaymentResponse
	code, env := s.do(t, http.MethodPost, payments, staff, map[string]string{"amount": "550", "payment_method": "UPI"}, &payment)
	if code != http.StatusOK {
		t.Fatalf("pay status = %d, want 200", code)
	}
	if payment.PaymentStatus != string(entity.BillStatusPaid) || env.Message != "Payment completed successfully" {
		t.Errorf("payment = %s / %q", payment.PaymentStatus, env.Message)
	}

	code, _ = s.do(t, http.MethodPost, payments, staff, map[string]string{"amount": "1", "payment_method": "UPI"}, nil)
	if code != http.StatusUnprocessableEntity {
		t.Errorf("paying a paid bill status = %d, want 422", code)
	}

	owner := s.token(t, patientID, entity.RoleIDPatient)
	code, _ = s.do(t, http.MethodGet, "/api/v1/billing/"+bill.ID.String(), owner, nil, nil)
	if code != http.StatusOK {
		t.Errorf("owner get status = %d, want 200", code)
	}
	stranger := s.token(t, s.store.AddPatient(), entity.RoleIDPatient)
	code, _ = s.do(t, http.MethodGet, "/api/v1/billing/"+bill.ID.String(), stranger, nil, nil)
	if code != http.StatusForbidden {
		t.Errorf("stranger get status = %d, want 403", code)
	}

	var list dto.BillListResponse
	code, _ = s.do(t, http.MethodGet, "/api/v1/billing", stranger, nil, &list)
	if code != http.StatusOK || list.Total != 0 {
		t.Errorf("stranger list = %d / %d bills, want 200 / 0", code, list.Total)
	}
	code, _ = s.do(t, http.MethodGet, "/api/v1/billing?status=LOST", staff, nil, nil)
	if code != http.StatusBadRequest {
		t.Errorf("bad status filter = %d, want 400", code)
	}
}

func TestRouter_AdmissionFlow(t *testing.T) {
	s := newTestServer(t)
	staff := s.token(t, s.staffID, entity.RoleIDStaff)
	patientID := s.store.AddPatient()
	patient := s.token(t, patientID, entity.RoleIDPatient)
	fee := decimal.NewFromInt(500)
	doctorID := s.store.AddDoctor(&fee)
	doctor := s.token(t, doctorID, entity.RoleIDDoctor)

	var ward dto.WardResponse
	code, _ := s.do(t, http.MethodPost, "/api/v1/beds/wards", staff,
		dto.CreateWardRequest{Name: "General A", WardType: "GENERAL", FloorNumber: "1"}, &ward)
	if code != http.StatusCreated {
		t.Fatalf("create ward status = %d, want 201", code)
	}
	var bed dto.BedResponse
	code, _ = s.do(t, http.MethodPost, "/api/v1/beds", staff,
		map[string]string{"ward_id": ward.ID.String(), "bed_number": "A-101", "price_per_day": "200"}, &bed)
	if code != http.StatusCreated {
		t.Fatalf("create bed status = %d, want 201", code)
	}

	var appointment dto.AppointmentResponse
	code, _ = s.do(t, http.MethodPost, "/api/v1/appointments", patient, dto.CreateAppointmentRequest{
		DoctorID:        doctorID,
		AppointmentDate: time.Now().Format("2006-01-02"),
		AppointmentTime: "11:00",
		Reason:          "Fever",
	}, &appointment)
	if code != http.StatusCreated {
		t.Fatalf("book status = %d, want 201", code)
	}

	code, _ = s.do(t, http.MethodPost, "/api/v1/appointments/"+appointment.ID.String()+"/approve", doctor, nil, nil)
	if code != http.StatusOK {
		t.Fatalf("approve status = %d, want 200", code)
	}

	days := 3
	var prescription dto.PrescriptionResponse
	code, _ = s.do(t, http.MethodPost, "/api/v1/prescriptions", doctor, dto.CreatePrescriptionRequest{
		AppointmentID:   appointment.ID,
		Diagnosis:       "Dengue",
		Medications:     "Fluids",
		BedRequired:     true,
		ExpectedBedDays: &days,
	}, &prescription)
	if code != http.StatusCreated {
		t.Fatalf("prescription status = %d, want 201", code)
	}
	if prescription.BedRequest == nil {
		t.Fatal("prescription carries no bed request")
	}

	var fetched dto.PrescriptionResponse
	code, _ = s.do(t, http.MethodGet, "/api/v1/appointments/"+appointment.ID.String()+"/prescription", patient, nil, &fetched)
	if code != http.StatusOK || fetched.ID != prescription.ID {
		t.Errorf("appointment prescription = %d / %s", code, fetched.ID)
	}

	approve := "/api/v1/beds/requests/" + prescription.BedRequest.ID.String() + "/approve"
	var approved dto.BedRequestResponse
	code, _ = s.do(t, http.MethodPost, approve, staff, dto.ApproveBedRequestRequest{BedID: bed.ID}, &approved)
	if code != http.StatusOK {
		t.Fatalf("approve bed request status = %d, want 200", code)
	}
	if approved.Allocation == nil || approved.Allocation.BedID != bed.ID {
		t.Fatalf("approved allocation = %+v", approved.Allocation)
	}

	code, _ = s.do(t, http.MethodPost, approve, staff, dto.ApproveBedRequestRequest{BedID: bed.ID}, nil)
	if code != http.StatusUnprocessableEntity {
		t.Errorf("second approve status = %d, want 422", code)
	}

	code, _ = s.do(t, http.MethodPost, "/api/v1/beds/allocations/"+approved.Allocation.ID.String()+"/discharge", staff, nil, nil)
	if code != http.StatusOK {
		t.Errorf("discharge status = %d, want 200", code)
	}

	var notifications dto.NotificationListResponse
	code, _ = s.do(t, http.MethodGet, "/api/v1/notifications", patient, nil, &notifications)
	if code != http.StatusOK || notifications.Total == 0 {
		t.Fatalf("notifications = %d / %d", code, notifications.Total)
	}
	code, _ = s.do(t, http.MethodPost, "/api/v1/notifications/abc/read", patient, nil, nil)
	if code != http.StatusBadRequest {
		t.Errorf("bad notification id status = %d, want 400", code)
	}
}
