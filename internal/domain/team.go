package domain

import (
	"fmt"
	"strings"
)

// Roster is the fixed list of tracked conference teams.
var Roster = []string{
	"Alabama", "Arkansas", "Auburn", "Florida", "Mississippi State", "Kentucky", "South Carolina",
	"Ole Miss", "Georgia", "Tennessee", "Texas A&M", "LSU", "Vanderbilt", "Missouri",
}

// IsTracked reports whether team is on the Roster.
func IsTracked(team string) bool {
	for _, t := range Roster {
		if t == team {
			return true
		}
	}
	return false
}

// MatchMode selects how a tracked team is recognized in a game row.
type MatchMode string

const (
	// MatchSubstring tests the team name as a case-sensitive substring of the
	// full matchup text (home side: of the home name). "Florida" also matches
	// "Florida State".
	MatchSubstring MatchMode = "substring"
	// MatchExact requires the home or visitor name to equal the team name.
	MatchExact MatchMode = "exact"
)

// TeamMatcher decides team membership and home side for a game.
type TeamMatcher struct {
	mode MatchMode
}

// NewTeamMatcher returns a matcher for the named mode. An empty mode selects
// MatchSubstring.
func NewTeamMatcher(mode string) (TeamMatcher, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(mode))) {
	case "", MatchSubstring:
		return TeamMatcher{mode: MatchSubstring}, nil
	case MatchExact:
		return TeamMatcher{mode: MatchExact}, nil
	default:
		return TeamMatcher{}, fmt.Errorf("unknown team match mode %q", mode)
	}
}

// Mode returns the matcher's strategy.
func (m TeamMatcher) Mode() MatchMode {
	if m.mode == "" {
		return MatchSubstring
	}
	return m.mode
}

// InGame reports whether team played in g, on either side.
func (m TeamMatcher) InGame(team string, g GameRecord) bool {
	if m.Mode() == MatchExact {
		return strings.TrimSpace(g.HomeName) == team || strings.TrimSpace(g.VisName) == team
	}
	return strings.Contains(g.MatchupFullTeamNames, team)
}

// IsHome reports whether team was the home side of g.
func (m TeamMatcher) IsHome(team string, g GameRecord) bool {
	if m.Mode() == MatchExact {
		return strings.TrimSpace(g.HomeName) == team
	}
	return strings.Contains(g.HomeName, team)
}

// Flags returns one membership flag per Roster team.
func (m TeamMatcher) Flags(g GameRecord) map[string]bool {
	flags := make(map[string]bool, len(Roster))
	for _, team := range Roster {
		flags[team] = m.InGame(team, g)
	}
	return flags
}
