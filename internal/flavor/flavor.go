// Package flavor generates the joke text shown on reveals: a description for
// each role winner and an end-of-game title per player. Generators are allowed
// to fail; callers absorb failures with deterministic fallbacks.
package flavor

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
)

// Generator produces reveal descriptions and final titles.
type Generator interface {
	Describe(ctx context.Context, playerName, roleLabel string) (string, error)
	Title(ctx context.Context, playerName string, earnedRoles []string) (string, error)
}

// FallbackDescription is the deterministic replacement used when a Describe
// call fails.
func FallbackDescription(playerName, roleLabel string) string {
	return fmt.Sprintf("%s absolutely crushed it as %s! The people have spoken.", playerName, roleLabel)
}

// FallbackTitle is the deterministic replacement used when a Title call fails.
func FallbackTitle(earnedRoles []string) string {
	if len(earnedRoles) > 0 {
		return "The Legend"
	}
	return "The Participant"
}

var cannedDescriptions = []string{
	"{name} is the undisputed champion of {role}! Everyone knows it, even if they won't admit it.",
	"If {role} was an Olympic sport, {name} would have a gold medal collection. Absolute legend.",
	"{name} was born for {role}. It's not even a competition at this point.",
	"The {role} energy radiates from {name} like a beacon. Impossible to miss.",
	"{name} embodies {role} so perfectly, it's almost suspicious. Natural talent or secret training?",
	"When it comes to {role}, {name} is in a league of their own. The rest of us are mere mortals.",
	"{name} + {role} = a match made in heaven. The stars aligned for this one.",
	"Scientists are studying {name} to understand the genetics of peak {role} performance.",
}

var cannedTitles = []string{
	"The Legend",
	"Supreme Champion",
	"Ultimate Boss",
	"Absolute Unit",
	"Peak Performance",
	"Living Legend",
	"The GOAT",
	"Unstoppable Force",
	"Master of All",
	"The Icon",
}

// Canned serves templated text without any network dependency. It never fails,
// which makes it the default generator when no API key is configured.
type Canned struct{}

func (Canned) Describe(_ context.Context, playerName, roleLabel string) (string, error) {
	template := cannedDescriptions[rand.Intn(len(cannedDescriptions))]
	out := strings.Replace(template, "{name}", playerName, 1)
	out = strings.Replace(out, "{role}", roleLabel, 1)
	return out, nil
}

func (Canned) Title(_ context.Context, _ string, earnedRoles []string) (string, error) {
	if len(earnedRoles) == 0 {
		return "The Participant", nil
	}
	if len(earnedRoles) >= 4 {
		return cannedTitles[0], nil
	}
	return cannedTitles[rand.Intn(len(cannedTitles))], nil
}
