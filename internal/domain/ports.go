package domain

import "context"

// ReactionPort attaches a reaction to a message on the chat platform.
type ReactionPort interface {
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error
}

// IncidentObserver is notified after an incident was signalled or triaged.
type IncidentObserver interface {
	IncidentRecorded(ctx context.Context, incident Incident) error
}
