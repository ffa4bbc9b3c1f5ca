package service

import (
	"context"
	"time"
)

type ProfileEventType string

const (
	ProfileEventCreated ProfileEventType = "profile.created"
	ProfileEventUpdated ProfileEventType = "profile.updated"
)

type ProfileEvent struct {
	EventID    string           `json:"event_id"`
	EventType  ProfileEventType `json:"event_type"`
	ProfileID  int64            `json:"profile_id"`
	Fields     []string         `json:"fields,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

type EventPublisher interface {
	PublishProfileEvent(ctx context.Context, event ProfileEvent) error
}
