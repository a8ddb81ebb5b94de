package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incidentBot/internal/domain"
)

func TestSignalsDeclarationOrder(t *testing.T) {
	assert.Equal(t,
		[]domain.Signal{domain.SignalActioned, domain.SignalNotActioned, domain.SignalInvestigating},
		domain.Signals(),
	)
}

func TestSignalSet(t *testing.T) {
	set, err := domain.NewSignalSet("✅", "❌", "🔍")
	require.NoError(t, err)

	assert.Equal(t, []string{"✅", "❌", "🔍"}, set.AllowedEmoji())
	assert.Equal(t, "❌", set.Emoji(domain.SignalNotActioned))
	assert.Empty(t, set.Emoji(domain.Signal(9)))

	sig, ok := set.Lookup("🔍")
	assert.True(t, ok)
	assert.Equal(t, domain.SignalInvestigating, sig)

	_, ok = set.Lookup("👍")
	assert.False(t, ok)
}

func TestSignalSetRejectsBadConfig(t *testing.T) {
	_, err := domain.NewSignalSet("✅", "", "🔍")
	assert.ErrorIs(t, err, domain.ErrInvalidSignalSet)

	_, err = domain.NewSignalSet("✅", "✅", "🔍")
	assert.ErrorIs(t, err, domain.ErrInvalidSignalSet)
}

func TestRoleSet(t *testing.T) {
	roles := domain.NewRoleSet("1", " 2 ", "")

	assert.Equal(t, 2, roles.Len())
	assert.True(t, roles.Contains("2"))
	assert.True(t, roles.HasAny([]string{"9", "1"}))
	assert.False(t, roles.HasAny(nil))
	assert.False(t, domain.RoleSet{}.HasAny([]string{"1"}))
}

func TestParseSignal(t *testing.T) {
	for _, sig := range domain.Signals() {
		got, ok := domain.ParseSignal(sig.String())
		assert.True(t, ok)
		assert.Equal(t, sig, got)
	}

	_, ok := domain.ParseSignal("resolved")
	assert.False(t, ok)
}
