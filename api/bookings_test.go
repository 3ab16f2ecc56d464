package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/staybooking/internal/domain"
	"github.com/Domenick1991/staybooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type testEnvelope struct {
	Error   bool            `json:"error"`
	Content json.RawMessage `json:"content"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func contentString(t *testing.T, env testEnvelope) string {
	t.Helper()
	var s string
	require.NoError(t, json.Unmarshal(env.Content, &s))
	return s
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func bearer(t *testing.T, email string) string {
	return "Bearer " + signedToken(t, jwt.MapClaims{"email": email, "exp": time.Now().Add(time.Hour).Unix()})
}

type testRouter struct {
	engine   *gin.Engine
	bookings *MockBookingUseCase
	places   *MockPlaceUseCase
	comments *MockCommentUseCase
}

func newTestRouter(strict bool) *testRouter {
	gin.SetMode(gin.TestMode)
	r := &testRouter{
		bookings: &MockBookingUseCase{},
		places:   &MockPlaceUseCase{},
		comments: &MockCommentUseCase{},
	}
	r.engine = NewRouter(RouterConfig{
		Bookings:                  r.bookings,
		Places:                    r.places,
		Comments:                  r.comments,
		JWTSecret:                 testSecret,
		StrictAuthorizationStatus: strict,
		RequestTimeout:            5 * time.Second,
	})
	return r
}

func (r *testRouter) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.engine.ServeHTTP(w, req)
	return w
}

func sampleBooking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:         uuid.MustParse("0b6e1df4-9a43-4d5f-8c53-1fd0f7c6a0aa"),
		GuestEmail: "guest@example.com",
		PlaceID:    1,
		Status:     status,
		CheckIn:    time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 10, 23, 0, 0, 0, 0, time.UTC),
		GuestCount: 2,
		CreatedAt:  time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC),
	}
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, errorWriter{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := []byte(`{"place_id":1,"check_in":"2026-10-20","check_out":"2026-10-23","guest_count":2}`)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(callerKey, "guest@example.com")

	input := booking.CreateBookingInput{
		PlaceID:    1,
		CheckIn:    time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 10, 23, 0, 0, 0, 0, time.UTC),
		GuestCount: 2,
		GuestEmail: "guest@example.com",
	}
	mockService.On("CreateBooking", c.Request.Context(), input).Return(sampleBooking(domain.BookingStatusPending), nil).Once()

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	env := decode(t, w)
	assert.False(t, env.Error)

	var response bookingResponse
	require.NoError(t, json.Unmarshal(env.Content, &response))
	assert.Equal(t, "0b6e1df4-9a43-4d5f-8c53-1fd0f7c6a0aa", response.ID)
	assert.Equal(t, "PENDING", response.Status)
	assert.Equal(t, "2026-10-20", response.CheckIn)
	assert.Equal(t, "2026-10-23", response.CheckOut)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_ServiceError(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, errorWriter{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := []byte(`{"place_id":1,"check_in":"2026-10-20","check_out":"2026-10-23","guest_count":2}`)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, domain.ErrDatesUnavailable).Once()

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.True(t, env.Error)
	assert.Equal(t, "El alojamiento no está disponible en esas fechas", contentString(t, env))
}

func TestBookingHandler_create_BadRequests(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "missing place", body: `{"check_in":"2026-10-20","check_out":"2026-10-23"}`},
		{name: "bad date", body: `{"place_id":1,"check_in":"20/10/2026","check_out":"2026-10-23"}`},
		{name: "malformed json", body: `{"place_id":`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockBookingUseCase{}
			handler := NewBookingHandler(mockService, errorWriter{})

			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewReader([]byte(tc.body)))
			c.Request.Header.Set("Content-Type", "application/json")

			handler.create(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.True(t, decode(t, w).Error)
			mockService.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
		})
	}
}

func TestBookingHandler_create_FieldErrors(t *testing.T) {
	handler := NewBookingHandler(&MockBookingUseCase{}, errorWriter{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewReader([]byte(`{"check_in":"2026-10-20"}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.create(c)

	var fields []fieldError
	require.NoError(t, json.Unmarshal(decode(t, w).Content, &fields))
	require.Len(t, fields, 2)
	assert.Equal(t, "place_id", fields[0].Field)
	assert.Equal(t, "check_out", fields[1].Field)
	assert.Equal(t, "El campo es obligatorio", fields[0].Message)
}

func TestRouter_TransitionsRequireToken(t *testing.T) {
	r := newTestRouter(false)
	id := sampleBooking(domain.BookingStatusPending).ID

	w := r.do(httptest.NewRequest(http.MethodPatch, "/api/bookings/"+id.String()+"/approve", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, msgUnauthorized, contentString(t, decode(t, w)))
	r.bookings.AssertNotCalled(t, "ApproveBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouter_Transitions(t *testing.T) {
	testCases := []struct {
		action string
		method string
		caller string
		status domain.BookingStatus
	}{
		{"approve", "ApproveBooking", "host@example.com", domain.BookingStatusConfirmed},
		{"reject", "RejectBooking", "host@example.com", domain.BookingStatusRejected},
		{"cancel", "CancelBooking", "guest@example.com", domain.BookingStatusCancelled},
		{"complete", "CompleteBooking", "host@example.com", domain.BookingStatusCompleted},
	}

	for _, tc := range testCases {
		t.Run(tc.action, func(t *testing.T) {
			r := newTestRouter(false)
			b := sampleBooking(tc.status)
			r.bookings.On(tc.method, mock.Anything, b.ID, tc.caller).Return(b, nil).Once()

			req := httptest.NewRequest(http.MethodPatch, "/api/bookings/"+b.ID.String()+"/"+tc.action, nil)
			req.Header.Set("Authorization", bearer(t, tc.caller))
			w := r.do(req)

			assert.Equal(t, http.StatusOK, w.Code)
			var response bookingResponse
			require.NoError(t, json.Unmarshal(decode(t, w).Content, &response))
			assert.Equal(t, string(tc.status), response.Status)
			assert.NotEmpty(t, w.Header().Get(requestIDHeader))
			r.bookings.AssertExpectations(t)
		})
	}
}

func TestRouter_ErrorStatuses(t *testing.T) {
	testCases := []struct {
		name     string
		strict   bool
		err      error
		expected int
		message  string
	}{
		{name: "not found", err: domain.ErrBookingNotFound, expected: http.StatusNotFound, message: "Reserva no encontrada"},
		{name: "invalid state", err: domain.ErrApproveNotPending, expected: http.StatusBadRequest, message: "Solo reservas pendientes pueden ser aprobadas"},
		{name: "forbidden flattened", err: domain.ErrApproveNotHost, expected: http.StatusBadRequest, message: "Solo el anfitrión puede aprobar la reserva"},
		{name: "forbidden strict", strict: true, err: domain.ErrApproveNotHost, expected: http.StatusForbidden, message: "Solo el anfitrión puede aprobar la reserva"},
		{name: "unexpected", err: errors.New("connection reset"), expected: http.StatusInternalServerError, message: msgInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(tc.strict)
			id := uuid.New()
			r.bookings.On("ApproveBooking", mock.Anything, id, "host@example.com").Return(nil, tc.err).Once()

			req := httptest.NewRequest(http.MethodPatch, "/api/bookings/"+id.String()+"/approve", nil)
			req.Header.Set("Authorization", bearer(t, "host@example.com"))
			w := r.do(req)

			assert.Equal(t, tc.expected, w.Code)
			env := decode(t, w)
			assert.True(t, env.Error)
			assert.Equal(t, tc.message, contentString(t, env))
		})
	}
}

func TestRouter_TransitionInvalidID(t *testing.T) {
	r := newTestRouter(false)
	req := httptest.NewRequest(http.MethodPatch, "/api/bookings/not-a-uuid/cancel", nil)
	req.Header.Set("Authorization", bearer(t, "guest@example.com"))

	w := r.do(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgInvalidID, contentString(t, decode(t, w)))
}

func TestRouter_History(t *testing.T) {
	r := newTestRouter(false)
	confirmed := domain.BookingStatusConfirmed
	items := []domain.BookingItem{{ID: uuid.New(), PlaceID: 1, PlaceTitle: "Casa Azul", Status: confirmed}}
	r.bookings.On("ListGuestBookings", mock.Anything, booking.ListGuestInput{
		GuestEmail: "guest@example.com", Status: &confirmed, Page: 2, Size: 5,
	}).Return(items, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/history?status=CONFIRMED&page=2&size=5", nil)
	req.Header.Set("Authorization", bearer(t, "guest@example.com"))
	w := r.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []domain.BookingItem
	require.NoError(t, json.Unmarshal(decode(t, w).Content, &got))
	assert.Len(t, got, 1)
	assert.Equal(t, "Casa Azul", got[0].PlaceTitle)
	r.bookings.AssertExpectations(t)
}

func TestRouter_HistoryDefaultsAndBadParams(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		r := newTestRouter(false)
		r.bookings.On("ListGuestBookings", mock.Anything, booking.ListGuestInput{
			GuestEmail: "guest@example.com", Page: 0, Size: defaultPageSize,
		}).Return([]domain.BookingItem{}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/bookings/history", nil)
		req.Header.Set("Authorization", bearer(t, "guest@example.com"))

		assert.Equal(t, http.StatusOK, r.do(req).Code)
		r.bookings.AssertExpectations(t)
	})

	for _, query := range []string{"status=UNKNOWN", "page=abc", "size=x"} {
		t.Run(query, func(t *testing.T) {
			r := newTestRouter(false)
			req := httptest.NewRequest(http.MethodGet, "/api/bookings/history?"+query, nil)
			req.Header.Set("Authorization", bearer(t, "guest@example.com"))

			assert.Equal(t, http.StatusBadRequest, r.do(req).Code)
			r.bookings.AssertNotCalled(t, "ListGuestBookings", mock.Anything, mock.Anything)
		})
	}
}

func TestRouter_PlaceBookings(t *testing.T) {
	r := newTestRouter(false)
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC)
	r.bookings.On("ListPlaceBookings", mock.Anything, booking.ListPlaceInput{
		PlaceID: 3, CallerEmail: "host@example.com", From: &from, To: &to, Page: 0, Size: 10,
	}).Return([]domain.BookingItem{}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/place/3?from=2026-10-01&to=2026-10-31", nil)
	req.Header.Set("Authorization", bearer(t, "host@example.com"))
	w := r.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	r.bookings.AssertExpectations(t)
}
