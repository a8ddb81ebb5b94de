package handle_message_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incidentBot/internal/app/events"
	"incidentBot/internal/domain"
	"incidentBot/internal/usecase/handle_message"
)

type stubWatcher struct {
	messages  []domain.Message
	reactions []domain.Reaction
	err       error
}

func (s *stubWatcher) HandleMessage(_ context.Context, msg domain.Message) error {
	s.messages = append(s.messages, msg)
	return s.err
}

func (s *stubWatcher) HandleReaction(_ context.Context, r domain.Reaction) error {
	s.reactions = append(s.reactions, r)
	return nil
}

func TestInteractorPublishesAndForwards(t *testing.T) {
	bus := events.NewBus(nil)
	ch, unsub := bus.Subscribe(events.TopicChatMessage)
	defer unsub()

	watcher := &stubWatcher{}
	uc := handle_message.NewInteractor(watcher, bus)

	msg := domain.Message{ChannelID: "c", MessageID: "m", Text: "Server down"}
	require.NoError(t, uc.Handle(context.Background(), msg))

	require.Len(t, watcher.messages, 1)
	dto, ok := (<-ch).(events.ChatMessageDTO)
	require.True(t, ok)
	assert.Equal(t, "Server down", dto.Text)
}

func TestInteractorReturnsWatcherError(t *testing.T) {
	watcher := &stubWatcher{err: errors.New("rate limited")}
	uc := handle_message.NewInteractor(watcher, nil)

	assert.EqualError(t, uc.Handle(context.Background(), domain.Message{}), "rate limited")
}

func TestInteractorForwardsReactions(t *testing.T) {
	watcher := &stubWatcher{}
	uc := handle_message.NewInteractor(watcher, nil)

	require.NoError(t, uc.HandleReaction(context.Background(), domain.Reaction{Emoji: "✅"}))
	assert.Len(t, watcher.reactions, 1)
}
