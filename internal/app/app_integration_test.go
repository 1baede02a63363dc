//go:build integration

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/nekogravitycat/court-rental-backend/internal/auth"
	"github.com/nekogravitycat/court-rental-backend/internal/db"
	"github.com/nekogravitycat/court-rental-backend/internal/events"
)

const (
	testUser     = "test"
	testPassword = "test"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type AppSuite struct {
	suite.Suite
	container  testcontainers.Container
	pool       *pgxpool.Pool
	router     *gin.Engine
	jwtManager *auth.JWTManager
	events     *events.Recorder
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppSuite))
}

func (s *AppSuite) SetupSuite() {
	t := s.T()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     testUser,
				"POSTGRES_PASSWORD": testPassword,
				"POSTGRES_DB":       "court_rental",
			},
			Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw"},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	s.container = pg

	host, err := pg.Host(ctx)
	require.NoError(t, err)
	port, err := pg.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/court_rental?sslmode=disable", testUser, testPassword, host, port.Port())
	s.pool, err = db.NewPool(ctx, dsn)
	require.NoError(t, err)

	schema, err := os.ReadFile("../../db/schema.sql")
	require.NoError(t, err)
	_, err = s.pool.Exec(ctx, string(schema))
	require.NoError(t, err)

	log, _ := test.NewNullLogger()
	s.events = &events.Recorder{}
	c, err := NewContainer(Config{
		ClientOrigin:    "http://localhost:5173",
		DBPool:          s.pool,
		SQLX:            db.NewSQLX(s.pool),
		Publisher:       s.events,
		Logger:          log,
		JWTSecret:       "integration-secret",
		JWTTTL:          time.Hour,
		BcryptCost:      4,
		StripeSecretKey: "sk_test_unused",
		StoragePath:     t.TempDir(),
	})
	require.NoError(t, err)
	s.router = c.Router
	s.jwtManager = c.JWTManager
}

func (s *AppSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.container.Terminate(ctx)
	}
}

func (s *AppSuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(),
		"TRUNCATE public.users, public.courts, public.bookings, public.payments, public.coupons, public.announcements, public.files")
	s.Require().NoError(err)
	s.events.Events = nil
}

func (s *AppSuite) do(method, path string, body any, token string) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

// register creates an account through the API and returns a token for it.
func (s *AppSuite) register(email, role string) string {
	w, _ := s.do(http.MethodPost, "/users", map[string]string{"name": email, "email": email}, "")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	if role != "user" {
		_, err := s.pool.Exec(context.Background(), "UPDATE public.users SET role = $1 WHERE email = $2", role, email)
		s.Require().NoError(err)
	}

	token, err := s.jwtManager.GenerateAccessToken(email, role)
	s.Require().NoError(err)
	return token
}

func (s *AppSuite) TestBookingToPaymentFlow() {
	ann := s.register("ann@example.com", "user")
	admin := s.register("admin@example.com", "admin")

	w, env := s.do(http.MethodPost, "/bookings", map[string]any{
		"courtId":      "C1",
		"userName":     "Ann",
		"userEmail":    "ann@example.com",
		"date":         "2025-04-02",
		"slots":        []string{"10:00", "11:00"},
		"pricePerSlot": 20,
	}, ann)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Equal("Booking created successfully", env.Message)

	var created struct {
		ID         string  `json:"id"`
		TotalPrice float64 `json:"totalPrice"`
		Status     string  `json:"status"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &created))
	s.Equal(40.0, created.TotalPrice)
	s.Equal("pending", created.Status)

	w, env = s.do(http.MethodGet, "/bookings?email=ann@example.com", nil, ann)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(string(env.Data), created.ID)

	w, _ = s.do(http.MethodPut, "/bookings/approve/"+created.ID, nil, ann)
	s.Equal(http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodPut, "/bookings/approve/"+created.ID, nil, admin)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w, env = s.do(http.MethodGet, "/users/role/ann@example.com", nil, ann)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"userRole":"member"}`, string(env.Data))

	w, env = s.do(http.MethodPut, "/bookings/approve/"+created.ID, nil, admin)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("booking not found", env.Message)

	w, _ = s.do(http.MethodPost, "/payments/save", map[string]any{
		"bookingId":     created.ID,
		"email":         "ann@example.com",
		"amount":        40,
		"transactionId": "tx_1",
	}, ann)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w, env = s.do(http.MethodPost, "/payments/save", map[string]any{
		"bookingId":     created.ID,
		"email":         "ann@example.com",
		"amount":        40,
		"transactionId": "tx_2",
	}, ann)
	s.Equal(http.StatusConflict, w.Code)
	s.Equal("booking already paid", env.Message)

	bob := s.register("bob@example.com", "user")
	w, _ = s.do(http.MethodPost, "/payments/save", map[string]any{
		"bookingId":     created.ID,
		"email":         "bob@example.com",
		"amount":        40,
		"transactionId": "tx_bob",
	}, bob)
	s.Equal(http.StatusForbidden, w.Code)

	w, env = s.do(http.MethodGet, "/bookings/"+created.ID, nil, ann)
	s.Require().Equal(http.StatusOK, w.Code)
	var got struct {
		Status        string `json:"status"`
		TransactionID string `json:"transactionId"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &got))
	s.Equal("confirmed", got.Status)
	s.Equal("tx_1", got.TransactionID)

	w, env = s.do(http.MethodGet, "/booking/confirmed", nil, ann)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(string(env.Data), created.ID)

	w, env = s.do(http.MethodGet, "/payments?email=ann@example.com", nil, ann)
	s.Require().Equal(http.StatusOK, w.Code)
	var payments []map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &payments))
	s.Len(payments, 1)

	s.Equal([]string{
		events.BookingCreated,
		events.MemberPromoted,
		events.BookingApproved,
		events.PaymentRecorded,
	}, s.events.Types())
}

func (s *AppSuite) TestPaymentForUnknownBookingWritesNothing() {
	ann := s.register("ann@example.com", "user")

	w, env := s.do(http.MethodPost, "/payments/save", map[string]any{
		"bookingId":     uuid.NewString(),
		"email":         "ann@example.com",
		"amount":        40,
		"transactionId": "tx_orphan",
	}, ann)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("booking not found", env.Message)

	var n int
	s.Require().NoError(s.pool.QueryRow(context.Background(), "SELECT count(*) FROM public.payments").Scan(&n))
	s.Zero(n)
}

func (s *AppSuite) TestCancelAndListRules() {
	ann := s.register("ann@example.com", "user")
	bob := s.register("bob@example.com", "user")

	w, env := s.do(http.MethodPost, "/bookings", map[string]any{
		"courtId": "C1", "userEmail": "ann@example.com", "date": "2025-04-02",
		"slots": []string{"10:00"}, "pricePerSlot": 15,
	}, ann)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &created))

	w, _ = s.do(http.MethodGet, "/bookings", nil, ann)
	s.Equal(http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodDelete, "/bookings/"+created.ID, nil, bob)
	s.Equal(http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodDelete, "/bookings/"+created.ID, nil, ann)
	s.Equal(http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, "/bookings/"+created.ID, nil, ann)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *AppSuite) TestCouponValidation() {
	ann := s.register("ann@example.com", "user")
	admin := s.register("admin@example.com", "admin")

	w, _ := s.do(http.MethodPost, "/coupons", map[string]any{
		"code": "save10", "name": "Spring", "discount": 10,
	}, admin)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w, _ = s.do(http.MethodPost, "/coupons", map[string]any{
		"code": "SAVE10", "name": "Again", "discount": 5,
	}, admin)
	s.Equal(http.StatusConflict, w.Code)

	w, env := s.do(http.MethodGet, "/coupons/validate?code=Save10", nil, ann)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"code":"SAVE10","discount":10,"discountType":"percentage"}`, string(env.Data))

	w, _ = s.do(http.MethodGet, "/coupons/validate?code=NOPE", nil, ann)
	s.Equal(http.StatusNotFound, w.Code)
}
