package domain

type Platform string

const (
	PlatformDiscord Platform = "discord"
)

// Message is an inbound chat message as seen by the use cases. Adapters fill it
// from the platform event; nothing downstream mutates it.
type Message struct {
	Platform  Platform
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	Username  string
	Text      string

	// Filled by the adapter from the platform payload.
	IsBot   bool
	RoleIDs []string
}

// Reaction is a reaction someone added to a message.
type Reaction struct {
	Platform  Platform
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	Emoji     string

	IsBot   bool
	RoleIDs []string
}
