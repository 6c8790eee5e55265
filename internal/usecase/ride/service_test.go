package ride_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"hopon-backend/internal/config"
	domainRide "hopon-backend/internal/domain/ride"
	domainUser "hopon-backend/internal/domain/user"
	"hopon-backend/internal/infrastructure/cache"
	"hopon-backend/internal/infrastructure/database/postgres"
	"hopon-backend/internal/testutil"
	"hopon-backend/internal/usecase/bike"
	"hopon-backend/internal/usecase/ride"
	appErrors "hopon-backend/pkg/errors"

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

type recordingPublisher struct {
	mu     sync.Mutex
	events []domainRide.Event
	err    error
}

func (p *recordingPublisher) PublishRideEvent(_ context.Context, evt domainRide.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) types() []domainRide.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	var types []domainRide.EventType
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

type fixture struct {
	rides     *ride.Service
	bikes     *bike.Service
	users     *postgres.UserRepository
	clock     *clock
	publisher *recordingPublisher
}

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	cfg := &config.Config{Ride: config.RideConfig{
		TimerDefault:       15,
		TimerMin:           5,
		TimerMax:           120,
		StrictAvailability: strict,
	}}
	clk := &clock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}

	bikeRepo := postgres.NewBikeRepository(db)
	userRepo := postgres.NewUserRepository(db)
	bikeService := bike.NewService(bikeRepo, cache.NoopCache{}, cfg, bike.WithClock(clk.Now))
	publisher := &recordingPublisher{}
	rideService := ride.NewService(postgres.NewRideRepository(db), bikeRepo, userRepo, db, bikeService, publisher, cfg,
		ride.WithClock(clk.Now))

	ctx := context.Background()
	_, err := bikeService.SeedFleet(ctx, 25, "AB1", rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, err)

	for _, id := range []string{"USER_1", "USER_2"} {
		require.NoError(t, userRepo.Create(ctx, &domainUser.User{
			ID:        id,
			Name:      id,
			Email:     id + "@campus.edu",
			Phone:     "9999999999",
			Gender:    "other",
			Profile:   domainUser.DefaultProfile(),
			CreatedAt: clk.Now(),
			UpdatedAt: clk.Now(),
		}))
	}

	return &fixture{rides: rideService, bikes: bikeService, users: userRepo, clock: clk, publisher: publisher}
}

func createReq(userID, bikeID string) *ride.CreateRideRequest {
	return &ride.CreateRideRequest{UserID: userID, BikeID: bikeID, StartLocation: "AB1", EndLocation: "AB2"}
}

func TestRideLifecycleCompletes(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	before, err := f.bikes.Get(ctx, "BIKE001")
	require.NoError(t, err)

	started, err := f.rides.CreateRide(ctx, createReq("USER_1", "BIKE001"))
	require.NoError(t, err)
	assert.Equal(t, "active", started.Status)
	assert.Equal(t, 15, started.TimerDuration)
	assert.Zero(t, started.Cost)
	assert.Regexp(t, `^RIDE_\d+_[0-9a-f]{6}$`, started.ID)

	busy, err := f.bikes.Get(ctx, "BIKE001")
	require.NoError(t, err)
	assert.False(t, busy.IsAvailable)
	require.NotNil(t, busy.CurrentUser)
	assert.Equal(t, "USER_1", *busy.CurrentUser)

	active, err := f.rides.GetActiveRide(ctx, "USER_1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, started.ID, active.ID)

	f.clock.Advance(17*time.Minute + 30*time.Second)
	rating := 5
	feedback := " smooth ride "
	completed, err := f.rides.CompleteRide(ctx, started.ID, &ride.CompleteRideRequest{
		EndLocation: "AB2",
		Rating:      &rating,
		Feedback:    &feedback,
	})
	require.NoError(t, err)
	assert.Equal(t, "completed", completed.Status)
	assert.Equal(t, "AB2", completed.EndLocation)
	require.NotNil(t, completed.ActualDuration)
	assert.Equal(t, 18, *completed.ActualDuration)
	require.NotNil(t, completed.EndTime)
	require.NotNil(t, completed.Rating)
	assert.Equal(t, 5, *completed.Rating)
	require.NotNil(t, completed.Feedback)
	assert.Equal(t, "smooth ride", *completed.Feedback)

	returned, err := f.bikes.Get(ctx, "BIKE001")
	require.NoError(t, err)
	assert.True(t, returned.IsAvailable)
	assert.Equal(t, "AB2", returned.Location)
	assert.Nil(t, returned.CurrentUser)
	assert.Equal(t, before.TotalRides+1, returned.TotalRides)

	u, err := f.users.GetByID(ctx, "USER_1")
	require.NoError(t, err)
	assert.Equal(t, 1, u.TotalRides)

	active, err = f.rides.GetActiveRide(ctx, "USER_1")
	require.NoError(t, err)
	assert.Nil(t, active)

	assert.Equal(t, []domainRide.EventType{domainRide.EventStarted, domainRide.EventCompleted}, f.publisher.types())
}

func TestCompleteTwiceIsInvalidState(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	started, err := f.rides.CreateRide(ctx, createReq("USER_1", "BIKE002"))
	require.NoError(t, err)

	_, err = f.rides.CompleteRide(ctx, started.ID, &ride.CompleteRideRequest{EndLocation: "AB2"})
	require.NoError(t, err)

	_, err = f.rides.CompleteRide(ctx, started.ID, &ride.CompleteRideRequest{EndLocation: "AB2"})
	assert.ErrorIs(t, err, appErrors.ErrRideNotActive)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeInvalidState))

	_, err = f.rides.CancelRide(ctx, started.ID)
	assert.ErrorIs(t, err, appErrors.ErrRideNotActive)

	u, err := f.users.GetByID(ctx, "USER_1")
	require.NoError(t, err)
	assert.Equal(t, 1, u.TotalRides)
}

func TestCancelFreesBikeInPlace(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	before, err := f.bikes.Get(ctx, "BIKE003")
	require.NoError(t, err)

	started, err := f.rides.CreateRide(ctx, createReq("USER_1", "BIKE003"))
	require.NoError(t, err)

	f.clock.Advance(3 * time.Minute)
	cancelled, err := f.rides.CancelRide(ctx, started.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	require.NotNil(t, cancelled.EndTime)
	assert.Nil(t, cancelled.ActualDuration)

	after, err := f.bikes.Get(ctx, "BIKE003")
	require.NoError(t, err)
	assert.True(t, after.IsAvailable)
	assert.Equal(t, "AB1", after.Location)
	assert.Nil(t, after.CurrentUser)
	assert.Equal(t, before.TotalRides, after.TotalRides)
	assert.WithinDuration(t, *cancelled.EndTime, after.UpdatedAt, time.Second)

	_, err = f.rides.CompleteRide(ctx, started.ID, &ride.CompleteRideRequest{EndLocation: "AB2"})
	assert.ErrorIs(t, err, appErrors.ErrRideNotActive)

	u, err := f.users.GetByID(ctx, "USER_1")
	require.NoError(t, err)
	assert.Zero(t, u.TotalRides)
}

func TestOneActiveRidePerUser(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.rides.CreateRide(ctx, createReq("USER_1", "BIKE004"))
	require.NoError(t, err)

	_, err = f.rides.CreateRide(ctx, createReq("USER_1", "BIKE005"))
	assert.ErrorIs(t, err, appErrors.ErrActiveRideExists)

	stillFree, err := f.bikes.Get(ctx, "BIKE005")
	require.NoError(t, err)
	assert.True(t, stillFree.IsAvailable)
}

func TestCreateRideAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("own booking is accepted", func(t *testing.T) {
		f := newFixture(t, true)
		_, err := f.bikes.Book(ctx, "BIKE006", "USER_1")
		require.NoError(t, err)

		_, err = f.rides.CreateRide(ctx, createReq("USER_1", "BIKE006"))
		assert.NoError(t, err)
	})

	t.Run("strict rejects bike held by another user", func(t *testing.T) {
		f := newFixture(t, true)
		_, err := f.rides.CreateRide(ctx, createReq("USER_1", "BIKE007"))
		require.NoError(t, err)

		_, err = f.rides.CreateRide(ctx, createReq("USER_2", "BIKE007"))
		assert.ErrorIs(t, err, appErrors.ErrBikeUnavailable)
	})

	t.Run("lenient mode allows it", func(t *testing.T) {
		f := newFixture(t, false)
		_, err := f.rides.CreateRide(ctx, createReq("USER_1", "BIKE008"))
		require.NoError(t, err)

		f.clock.Advance(time.Minute)
		_, err = f.rides.CreateRide(ctx, createReq("USER_2", "BIKE008"))
		require.NoError(t, err)

		held, err := f.bikes.Get(ctx, "BIKE008")
		require.NoError(t, err)
		assert.False(t, held.IsAvailable)
		require.NotNil(t, held.CurrentUser)
		assert.Equal(t, "USER_2", *held.CurrentUser)
		require.NotNil(t, held.BookedAt)
		assert.WithinDuration(t, f.clock.Now(), *held.BookedAt, time.Second)
	})
}

func TestUnavailableBikeHasActiveRide(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.rides.CreateRide(ctx, createReq("USER_1", "BIKE010"))
	require.NoError(t, err)
	_, err = f.bikes.Book(ctx, "BIKE011", "USER_2")
	require.NoError(t, err)
	_, err = f.rides.CreateRide(ctx, createReq("USER_2", "BIKE011"))
	require.NoError(t, err)

	all, err := f.bikes.ListAll(ctx)
	require.NoError(t, err)
	rides, err := f.rides.ListRides(ctx)
	require.NoError(t, err)

	for id, b := range all {
		if b.IsAvailable {
			continue
		}
		found := false
		for _, r := range rides {
			if r.BikeID == id && r.Status == "active" {
				found = true
			}
		}
		assert.True(t, found, "bike %s is unavailable without an active ride", id)
	}
}

func TestCreateRideErrors(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.rides.CreateRide(ctx, createReq("USER_404", "BIKE001"))
	assert.ErrorIs(t, err, appErrors.ErrUserNotFound)

	_, err = f.rides.CreateRide(ctx, createReq("USER_1", "BIKE404"))
	assert.ErrorIs(t, err, appErrors.ErrBikeNotFound)

	bad := createReq("USER_1", "BIKE001")
	bad.EndLocation = "LIBRARY"
	_, err = f.rides.CreateRide(ctx, bad)
	assert.ErrorIs(t, err, appErrors.ErrInvalidLocation)

	_, err = f.rides.CreateRide(ctx, &ride.CreateRideRequest{UserID: "USER_1"})
	assert.True(t, appErrors.IsCode(err, appErrors.CodeValidation))

	_, err = f.rides.CompleteRide(ctx, "RIDE_404", &ride.CompleteRideRequest{EndLocation: "AB2"})
	assert.ErrorIs(t, err, appErrors.ErrRideNotFound)

	_, err = f.rides.CancelRide(ctx, "RIDE_404")
	assert.ErrorIs(t, err, appErrors.ErrRideNotFound)
}

func TestCompleteRideValidation(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	started, err := f.rides.CreateRide(ctx, createReq("USER_1", "BIKE012"))
	require.NoError(t, err)

	for _, rating := range []int{0, 6} {
		r := rating
		_, err = f.rides.CompleteRide(ctx, started.ID, &ride.CompleteRideRequest{EndLocation: "AB2", Rating: &r})
		assert.ErrorIs(t, err, appErrors.ErrInvalidRating)
	}

	_, err = f.rides.CompleteRide(ctx, started.ID, &ride.CompleteRideRequest{EndLocation: "MOON"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidLocation)

	active, err := f.rides.GetActiveRide(ctx, "USER_1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "active", active.Status)
}

func TestClampTimer(t *testing.T) {
	cfg := config.RideConfig{TimerDefault: 15, TimerMin: 5, TimerMax: 120}
	minutes := func(v int) *int { return &v }

	assert.Equal(t, 15, ride.ClampTimer(nil, cfg))
	assert.Equal(t, 5, ride.ClampTimer(minutes(2), cfg))
	assert.Equal(t, 120, ride.ClampTimer(minutes(500), cfg))
	assert.Equal(t, 30, ride.ClampTimer(minutes(30), cfg))
}

func TestStatsAndHistory(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	finish := func(userID, bikeID, end string) {
		started, err := f.rides.CreateRide(ctx, createReq(userID, bikeID))
		require.NoError(t, err)
		f.clock.Advance(time.Minute)
		_, err = f.rides.CompleteRide(ctx, started.ID, &ride.CompleteRideRequest{EndLocation: end})
		require.NoError(t, err)
	}

	finish("USER_1", "BIKE001", "AB2")
	finish("USER_1", "BIKE002", "AB2")
	finish("USER_2", "BIKE003", "BOYS HOSTEL")
	_, err := f.rides.CreateRide(ctx, createReq("USER_2", "BIKE004"))
	require.NoError(t, err)

	stats, err := f.rides.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalRides)
	assert.Equal(t, 1, stats.ActiveRides)
	assert.Equal(t, 3, stats.CompletedRides)
	require.Len(t, stats.PopularRoutes, 2)
	assert.Equal(t, ride.RouteStatsResponse{StartLocation: "AB1", EndLocation: "AB2", Count: 2}, stats.PopularRoutes[0])
	assert.Equal(t, ride.RouteStatsResponse{StartLocation: "AB1", EndLocation: "BOYS HOSTEL", Count: 1}, stats.PopularRoutes[1])

	history, err := f.rides.ListUserRides(ctx, "USER_1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "BIKE002", history[0].BikeID)
	assert.True(t, history[0].StartTime.After(history[1].StartTime))

	all, err := f.rides.ListRides(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "BIKE004", all[0].BikeID)
}

func TestPublishFailureDoesNotFailRide(t *testing.T) {
	f := newFixture(t, true)
	f.publisher.err = errors.New("broker down")

	started, err := f.rides.CreateRide(context.Background(), createReq("USER_1", "BIKE020"))
	require.NoError(t, err)
	assert.Equal(t, "active", started.Status)
}
