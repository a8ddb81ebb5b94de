// Package handle_message
package handle_message

import (
	"context"

	"incidentBot/internal/app/events"
	"incidentBot/internal/domain"
)

type MessageWatcher interface {
	HandleMessage(ctx context.Context, msg domain.Message) error
	HandleReaction(ctx context.Context, r domain.Reaction) error
}

type Publisher interface {
	Publish(topic string, payload any)
}

// Interactor is the entry point adapters hand platform events to.
type Interactor struct {
	watcher MessageWatcher
	pub     Publisher
}

func NewInteractor(watcher MessageWatcher, pub Publisher) *Interactor {
	return &Interactor{
		watcher: watcher,
		pub:     pub,
	}
}

func (uc *Interactor) Handle(ctx context.Context, msg domain.Message) error {
	if uc.pub != nil {
		uc.pub.Publish(events.TopicChatMessage, events.NewChatMessageDTO(msg))
	}
	return uc.watcher.HandleMessage(ctx, msg)
}

func (uc *Interactor) HandleReaction(ctx context.Context, r domain.Reaction) error {
	return uc.watcher.HandleReaction(ctx, r)
}
