package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"hopon-backend/internal/config"
	"hopon-backend/internal/infrastructure/cache"
	"hopon-backend/internal/infrastructure/database/postgres"
	"hopon-backend/internal/routes"
	"hopon-backend/internal/testutil"
	"hopon-backend/internal/usecase/bike"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Environment: "test", BasePath: "/api", Version: "1.0.0"},
		JWT:    config.JWTConfig{Secret: "router-test-secret", ExpiresIn: time.Hour},
		RateLimit: config.RateLimitConfig{
			GeneralRPS:   1000,
			GeneralBurst: 1000,
		},
		CORS: config.CORSConfig{
			AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders: []string{"Origin", "Content-Type", "Authorization"},
		},
		Ride:  config.RideConfig{TimerDefault: 15, TimerMin: 5, TimerMax: 120, StrictAvailability: true},
		Fleet: config.FleetConfig{Size: 25, DefaultLocation: "AB1"},
	}
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	clock  *clock
	db     *postgres.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	db := testutil.NewDB(t)
	clk := &clock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}

	seeder := bike.NewService(postgres.NewBikeRepository(db), cache.NoopCache{}, cfg, bike.WithClock(clk.Now))
	_, err := seeder.SeedFleet(context.Background(), cfg.Fleet.Size, cfg.Fleet.DefaultLocation, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	router := routes.SetupRoutes(cfg, db, routes.Dependencies{Clock: clk.Now})
	return &testServer{t: t, router: router, clock: clk, db: db}
}

func (s *testServer) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" && bytes.HasPrefix(w.Body.Bytes(), []byte("{")) {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w.Code, decoded
}

func (s *testServer) registerAndLogin(email string) (userID, token string) {
	s.t.Helper()

	status, body := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Asha Rao",
		"email":    email,
		"phone":    "+91 98765 43210",
		"gender":   "female",
		"password": "secret123",
	})
	require.Equal(s.t, http.StatusCreated, status, body)

	status, body = s.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(s.t, http.StatusOK, status, body)

	u := body["user"].(map[string]interface{})
	return u["id"].(string), body["token"].(string)
}

func TestRideJourney(t *testing.T) {
	s := newTestServer(t)
	userID, token := s.registerAndLogin("asha@campus.edu")

	status, body := s.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, userID, body["user"].(map[string]interface{})["id"])

	status, body = s.do(http.MethodGet, "/api/bikes/location/AB1", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["bikes"], 25)

	status, body = s.do(http.MethodPost, "/api/bikes/BIKE001/book", token, nil)
	require.Equal(t, http.StatusOK, status, body)
	booked := body["bike"].(map[string]interface{})
	assert.Equal(t, false, booked["isAvailable"])
	assert.Equal(t, userID, booked["currentUser"])

	status, body = s.do(http.MethodPost, "/api/rides", token, gin.H{
		"bikeId":        "BIKE001",
		"startLocation": "AB1",
		"endLocation":   "AB2",
		"timerDuration": 20,
	})
	require.Equal(t, http.StatusCreated, status, body)
	started := body["ride"].(map[string]interface{})
	rideID := started["id"].(string)
	assert.Equal(t, "active", started["status"])
	assert.Equal(t, userID, started["userId"])
	assert.EqualValues(t, 20, started["timerDuration"])

	status, body = s.do(http.MethodGet, "/api/rides/user/"+userID+"/active", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, rideID, body["ride"].(map[string]interface{})["id"])

	s.clock.Advance(17*time.Minute + 30*time.Second)

	status, body = s.do(http.MethodPut, "/api/rides/"+rideID+"/complete", token, gin.H{
		"endLocation": "AB2",
		"rating":      5,
		"feedback":    "smooth ride",
	})
	require.Equal(t, http.StatusOK, status, body)
	completed := body["ride"].(map[string]interface{})
	assert.Equal(t, "completed", completed["status"])
	assert.EqualValues(t, 18, completed["actualDuration"])

	status, body = s.do(http.MethodGet, "/api/bikes/BIKE001", "", nil)
	require.Equal(t, http.StatusOK, status)
	returned := body["bike"].(map[string]interface{})
	assert.Equal(t, "AB2", returned["location"])
	assert.Equal(t, true, returned["isAvailable"])
	assert.Nil(t, returned["currentUser"])

	status, body = s.do(http.MethodGet, "/api/rides/user/"+userID+"/active", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "ride")
	assert.Nil(t, body["ride"])

	status, body = s.do(http.MethodPut, "/api/rides/"+rideID+"/complete", token, gin.H{"endLocation": "AB1"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])

	status, body = s.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["user"].(map[string]interface{})["totalRides"])

	status, body = s.do(http.MethodGet, "/api/rides/stats", "", nil)
	require.Equal(t, http.StatusOK, status)
	stats := body["stats"].(map[string]interface{})
	assert.EqualValues(t, 1, stats["totalRides"])
	assert.EqualValues(t, 1, stats["completedRides"])
}

func TestRideConflicts(t *testing.T) {
	s := newTestServer(t)
	_, first := s.registerAndLogin("first@campus.edu")
	_, second := s.registerAndLogin("second@campus.edu")

	status, _ := s.do(http.MethodPost, "/api/bikes/BIKE002/book", first, nil)
	require.Equal(t, http.StatusOK, status)

	status, body := s.do(http.MethodPost, "/api/bikes/BIKE002/book", second, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, false, body["success"])

	status, _ = s.do(http.MethodPost, "/api/rides", second, gin.H{
		"bikeId": "BIKE002", "startLocation": "AB1", "endLocation": "AB2",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = s.do(http.MethodPost, "/api/rides", first, gin.H{
		"bikeId": "BIKE002", "startLocation": "AB1", "endLocation": "AB2",
	})
	require.Equal(t, http.StatusCreated, status)

	status, _ = s.do(http.MethodPost, "/api/rides", first, gin.H{
		"bikeId": "BIKE003", "startLocation": "AB1", "endLocation": "AB2",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = s.do(http.MethodPost, "/api/rides", second, gin.H{
		"bikeId": "BIKE003", "startLocation": "AB1", "endLocation": "LIBRARY",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAuthFailures(t *testing.T) {
	s := newTestServer(t)
	_, token := s.registerAndLogin("asha@campus.edu")

	status, body := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Asha", "email": "ASHA@campus.edu", "phone": "1", "gender": "f", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, status, body)

	status, _ = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "asha@campus.edu", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "nobody@campus.edu", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = s.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Access token required", body["message"])

	status, body = s.do(http.MethodGet, "/api/auth/check-email/asha@campus.edu", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["available"])

	status, body = s.do(http.MethodGet, "/api/auth/check-email/fresh@campus.edu", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["available"])

	status, body = s.do(http.MethodGet, "/api/auth/check-email/not-an-email", "", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["available"])

	s.clock.Advance(2 * time.Hour)
	status, body = s.do(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid or expired token", body["message"])
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "HopOn Backend API is running", body["message"])
	assert.Equal(t, "1.0.0", body["version"])
	assert.NotEmpty(t, body["timestamp"])

	status, body = s.do(http.MethodGet, "/api/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Endpoint not found", body["message"])

	status, body = s.do(http.MethodGet, "/api/bikes/BIKE999", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["success"])

	status, body = s.do(http.MethodGet, "/api/bikes/stats", "", nil)
	require.Equal(t, http.StatusOK, status)
	stats := body["stats"].(map[string]interface{})
	assert.EqualValues(t, 25, stats["totalBikes"])
	assert.EqualValues(t, 25, stats["availableBikes"])

	require.NoError(t, s.db.Close())
	status, body = s.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, false, body["success"])
}
