package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"hopon-backend/internal/domain/bike"
	"hopon-backend/internal/domain/ride"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	messages []published
	err      error
}

func (f *fakeClient) Publish(topic string, qos byte, retained bool, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, published{topic, qos, retained, payload})
	return nil
}

func TestPublishRideEvent(t *testing.T) {
	client := &fakeClient{}
	p := NewMQTTPublisher(client, "hopon/")
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	r := &ride.Ride{ID: "RIDE_1_abcdef", UserID: "USER_1", BikeID: "BIKE001", Status: ride.StatusCompleted}
	require.NoError(t, p.PublishRideEvent(context.Background(), ride.NewEvent(ride.EventCompleted, r, bike.LocationAB2, at)))

	require.Len(t, client.messages, 1)
	msg := client.messages[0]
	assert.Equal(t, "hopon/rides/completed", msg.topic)
	assert.Equal(t, byte(1), msg.qos)
	assert.False(t, msg.retained)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.payload, &body))
	assert.Equal(t, "ride.completed", body["event"])
	assert.Equal(t, "RIDE_1_abcdef", body["rideId"])
	assert.Equal(t, "AB2", body["location"])
	assert.Equal(t, "completed", body["status"])
}

func TestPublishRideEventFailure(t *testing.T) {
	p := NewMQTTPublisher(&fakeClient{err: errors.New("not connected")}, "hopon")
	err := p.PublishRideEvent(context.Background(), ride.Event{Type: ride.EventStarted})
	assert.ErrorContains(t, err, "not connected")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.PublishRideEvent(ctx, ride.Event{Type: ride.EventStarted}), context.Canceled)
}
