package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"hopon-backend/internal/domain/ride"
)

const qosAtLeastOnce byte = 1

// Publisher is satisfied by *mqtt.Client from pkg/mqtt.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

type rideEventPayload struct {
	Event      string    `json:"event"`
	RideID     string    `json:"rideId"`
	UserID     string    `json:"userId"`
	BikeID     string    `json:"bikeId"`
	Location   string    `json:"location"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}

// MQTTPublisher announces ride lifecycle changes to dock displays.
type MQTTPublisher struct {
	client      Publisher
	topicPrefix string
}

func NewMQTTPublisher(client Publisher, topicPrefix string) *MQTTPublisher {
	return &MQTTPublisher{
		client:      client,
		topicPrefix: strings.TrimSuffix(topicPrefix, "/"),
	}
}

// Topic returns <prefix>/rides/<event>.
func (p *MQTTPublisher) Topic(t ride.EventType) string {
	return fmt.Sprintf("%s/rides/%s", p.topicPrefix, t)
}

func (p *MQTTPublisher) PublishRideEvent(ctx context.Context, evt ride.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(rideEventPayload{
		Event:      "ride." + string(evt.Type),
		RideID:     evt.RideID,
		UserID:     evt.UserID,
		BikeID:     evt.BikeID,
		Location:   string(evt.Location),
		Status:     string(evt.Status),
		OccurredAt: evt.OccurredAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode ride event: %w", err)
	}

	if err := p.client.Publish(p.Topic(evt.Type), qosAtLeastOnce, false, payload); err != nil {
		return fmt.Errorf("failed to publish ride event %s: %w", evt.Type, err)
	}
	return nil
}

// NoopPublisher drops events; used when MQTT_BROKER is empty.
type NoopPublisher struct{}

func (NoopPublisher) PublishRideEvent(context.Context, ride.Event) error {
	return nil
}
