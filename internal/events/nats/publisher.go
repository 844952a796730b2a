package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/dtroode/cloudblog/internal/model"
)

type natsAPI interface {
	PublishMsg(msg *nats.Msg) error
}

var _ model.EventPublisher = (*Publisher)(nil)

// Publisher announces new posts on a NATS subject.
type Publisher struct {
	conn    natsAPI
	subject string
}

func NewPublisher(conn *nats.Conn, subject string) *Publisher {
	return NewPublisherWithAPI(conn, subject)
}

// NewPublisherWithAPI allows injecting a mockable connection (used in tests).
func NewPublisherWithAPI(conn natsAPI, subject string) *Publisher {
	return &Publisher{conn: conn, subject: subject}
}

// PostCreatedEvent is the payload of the post.created message.
type PostCreatedEvent struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PublishPostCreated sends the event with the caller's trace context in the
// message headers.
func (p *Publisher) PublishPostCreated(ctx context.Context, post model.Post) error {
	data, err := json.Marshal(PostCreatedEvent{
		ID:        post.ID,
		Title:     post.Title,
		Author:    post.Author,
		ImageURL:  post.ImageURL,
		CreatedAt: post.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &nats.Msg{
		Subject: p.subject,
		Data:    data,
		Header:  nats.Header{},
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
