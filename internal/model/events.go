package model

import "context"

// EventPublisher notifies other systems about post lifecycle changes.
type EventPublisher interface {
	PublishPostCreated(ctx context.Context, post Post) error
}
