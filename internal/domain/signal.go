package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Signal is an incident triage status moderators mark with a reaction.
type Signal int

const (
	SignalActioned Signal = iota
	SignalNotActioned
	SignalInvestigating
)

// Signals returns every signal in declaration order.
func Signals() []Signal {
	return []Signal{SignalActioned, SignalNotActioned, SignalInvestigating}
}

func (s Signal) String() string {
	switch s {
	case SignalActioned:
		return "actioned"
	case SignalNotActioned:
		return "not_actioned"
	case SignalInvestigating:
		return "investigating"
	default:
		return fmt.Sprintf("signal(%d)", int(s))
	}
}

var ErrInvalidSignalSet = errors.New("invalid signal set")

// SignalSet binds each Signal to the emoji configured for it. It is built once
// at startup and never changes.
type SignalSet struct {
	emoji   [3]string
	byEmoji map[string]Signal
}

func NewSignalSet(actioned, notActioned, investigating string) (SignalSet, error) {
	set := SignalSet{
		emoji:   [3]string{strings.TrimSpace(actioned), strings.TrimSpace(notActioned), strings.TrimSpace(investigating)},
		byEmoji: make(map[string]Signal, 3),
	}

	for _, sig := range Signals() {
		e := set.emoji[sig]
		if e == "" {
			return SignalSet{}, fmt.Errorf("%w: empty emoji for %s", ErrInvalidSignalSet, sig)
		}
		if prev, dup := set.byEmoji[e]; dup {
			return SignalSet{}, fmt.Errorf("%w: %s and %s share emoji %q", ErrInvalidSignalSet, prev, sig, e)
		}
		set.byEmoji[e] = sig
	}

	return set, nil
}

func (s SignalSet) Emoji(sig Signal) string {
	if sig < SignalActioned || sig > SignalInvestigating {
		return ""
	}
	return s.emoji[sig]
}

// Lookup resolves an emoji back to its signal.
func (s SignalSet) Lookup(emoji string) (Signal, bool) {
	sig, ok := s.byEmoji[emoji]
	return sig, ok
}

// AllowedEmoji returns the configured emoji in declaration order.
func (s SignalSet) AllowedEmoji() []string {
	out := make([]string, 0, len(s.emoji))
	for _, sig := range Signals() {
		out = append(out, s.emoji[sig])
	}
	return out
}

// ParseSignal is the inverse of Signal.String.
func ParseSignal(name string) (Signal, bool) {
	for _, sig := range Signals() {
		if sig.String() == name {
			return sig, true
		}
	}
	return 0, false
}
