package main

type Role string

const (
	RoleSpymaster Role = "spymaster"
	RoleOperative Role = "operative"
)

// Player is one roster entry. ID is the live connection ID; DeviceToken is
// the cookie-derived identity that survives reconnects. CurrentTarget is a
// cosmetic hint (which card the player is considering) with no rule effect.
type Player struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Team          Team    `json:"team"`
	Role          Role    `json:"role"`
	DeviceToken   string  `json:"deviceId,omitempty"`
	CurrentTarget *string `json:"currentTarget,omitempty"`
}

// PlayerUpdate is a partial-field merge for UpdatePlayer. Nil fields are
// left untouched; ClearTarget drops the hover hint.
type PlayerUpdate struct {
	Team        *Team
	Role        *Role
	Target      *string
	ClearTarget bool
}

// AddPlayer appends a new operative to whichever team currently has fewer
// members, red taking ties. Always succeeds; duplicate connection IDs are
// the caller's problem.
func (g GameState) AddPlayer(id, name, deviceToken string) GameState {
	next := g.clone()

	var red, blue int
	for _, p := range next.Players {
		switch p.Team {
		case TeamRed:
			red++
		case TeamBlue:
			blue++
		}
	}

	team := TeamRed
	if red > blue {
		team = TeamBlue
	}

	next.Players = append(next.Players, Player{
		ID:          id,
		Name:        name,
		Team:        team,
		Role:        RoleOperative,
		DeviceToken: deviceToken,
	})

	return next
}

// RemovePlayer filters the player out. Remaining players keep their teams;
// no rebalancing happens on departure.
func (g GameState) RemovePlayer(id string) GameState {
	next := g.clone()

	players := next.Players[:0]
	for _, p := range next.Players {
		if p.ID != id {
			players = append(players, p)
		}
	}
	next.Players = players

	return next
}

// UpdatePlayer merges the given fields into the matching player. Unknown
// IDs are a no-op.
func (g GameState) UpdatePlayer(id string, u PlayerUpdate) GameState {
	next := g.clone()

	for i := range next.Players {
		if next.Players[i].ID != id {
			continue
		}
		if u.Team != nil {
			next.Players[i].Team = *u.Team
		}
		if u.Role != nil {
			next.Players[i].Role = *u.Role
		}
		if u.Target != nil {
			target := *u.Target
			next.Players[i].CurrentTarget = &target
		}
		if u.ClearTarget {
			next.Players[i].CurrentTarget = nil
		}
		break
	}

	return next
}

// RebindPlayer retargets the roster entry carrying deviceToken to a new
// connection ID, preserving team and role across a reconnect. Reports
// whether a matching entry was found.
func (g GameState) RebindPlayer(deviceToken, newID string) (GameState, bool) {
	if deviceToken == "" {
		return g, false
	}

	for i := range g.Players {
		if g.Players[i].DeviceToken == deviceToken {
			next := g.clone()
			next.Players[i].ID = newID
			return next, true
		}
	}

	return g, false
}

// HostID is the connection ID of the first player to join, or empty for an
// empty roster. The host has no enforced privileges; clients use this to
// decide who sees the start controls.
func (g GameState) HostID() string {
	if len(g.Players) == 0 {
		return ""
	}
	return g.Players[0].ID
}
