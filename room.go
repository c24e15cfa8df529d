package main

import (
	"math/rand"
	"sync"
	"time"
)

type joinRequest struct {
	client      *client
	name        string
	deviceToken string
}

type intent struct {
	client *client
	msg    ClientMessage
}

// room owns one match: its GameState, the set of connected clients, and
// the turn clock. All state mutation is serialized through the run loop,
// so transitions never race; the mutex only covers reads from other
// goroutines (reaper, transport, tests).
type room struct {
	code string
	list *roomList

	joins    chan joinRequest
	unreg    chan *client
	intents  chan intent
	expiries chan int64
	done     chan struct{}
	once     sync.Once

	mu         sync.RWMutex
	clients    map[*client]bool
	state      GameState
	lastActive time.Time

	// run-loop only
	rng           *rand.Rand
	timer         *time.Timer
	armedDeadline int64
}

func newRoom(code string, list *roomList) *room {
	now := time.Now()
	rng := rand.New(rand.NewSource(now.UnixNano()))
	return &room{
		code:       code,
		list:       list,
		joins:      make(chan joinRequest),
		unreg:      make(chan *client),
		intents:    make(chan intent, 64),
		expiries:   make(chan int64, 1),
		done:       make(chan struct{}),
		clients:    make(map[*client]bool),
		state:      newGame(code, rng),
		lastActive: now,
		rng:        rng,
	}
}

func (r *room) run(cfg *Config) {
	for {
		select {
		case <-r.done:
			return

		case jr := <-r.joins:
			r.handleJoin(cfg, jr)

		case c := <-r.unreg:
			r.handleLeave(cfg, c)

		case it := <-r.intents:
			r.handleIntent(cfg, it)

		case deadline := <-r.expiries:
			r.handleExpiry(deadline)
		}
	}
}

// apply is the single mutation chokepoint: it runs the transition against
// the current state, stores the result, re-arms the turn clock, and
// broadcasts the new state to every client in the room.
func (r *room) apply(fn func(GameState) GameState) {
	r.mu.Lock()
	r.lastActive = time.Now()
	r.state = fn(r.state)
	state := r.state
	r.mu.Unlock()

	r.armTurnClock(state)
	r.broadcast(serverMessage{Type: "game_updated", State: &state, HostID: state.HostID()})
}

func (r *room) snapshot() GameState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.state.clone()
}

func (r *room) playerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.state.Players)
}

func (r *room) idleSince() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.lastActive
}

func (r *room) handleJoin(cfg *Config, jr joinRequest) {
	r.mu.Lock()
	r.clients[jr.client] = true
	r.mu.Unlock()

	r.apply(func(g GameState) GameState {
		// A device token already in the roster means this is a reconnect:
		// rebind the old entry instead of seating a second copy.
		if next, ok := g.RebindPlayer(jr.deviceToken, jr.client.id); ok {
			return next
		}
		return g.AddPlayer(jr.client.id, jr.name, jr.deviceToken)
	})

	logf(cfg, "GAMES: Player %q joined %s", jr.name, r.code)
}

func (r *room) handleLeave(cfg *Config, c *client) {
	r.mu.Lock()
	if _, ok := r.clients[c]; ok {
		delete(r.clients, c)
		c.shutdown()
	}
	r.mu.Unlock()

	r.apply(func(g GameState) GameState {
		return g.RemovePlayer(c.id)
	})

	logf(cfg, "GAMES: Player %s left %s", c.id, r.code)

	if r.playerCount() == 0 {
		r.list.dropIfEmpty(r.code)
	}
}

func (r *room) handleIntent(cfg *Config, it intent) {
	msg := it.msg
	now := time.Now()

	switch msg.Type {
	case "change_team":
		team := Team(msg.Team)
		if team != TeamRed && team != TeamBlue {
			return
		}
		role := RoleOperative
		r.apply(func(g GameState) GameState {
			return g.UpdatePlayer(it.client.id, PlayerUpdate{Team: &team, Role: &role})
		})

	case "change_role":
		role := Role(msg.Role)
		if role != RoleSpymaster && role != RoleOperative {
			return
		}
		r.apply(func(g GameState) GameState {
			return g.UpdatePlayer(it.client.id, PlayerUpdate{Role: &role})
		})

	case "start_game":
		opts := StartOptions{
			Category:     msg.Category,
			TimerSeconds: msg.TimerSeconds,
			Mode:         Mode(msg.Mode),
			Theme:        msg.Theme,
		}
		r.apply(func(g GameState) GameState {
			return g.StartGame(opts, now, r.rng)
		})
		logf(cfg, "GAMES: Game %s started (%s)", r.code, r.snapshot().Mode)

	case "give_clue":
		if msg.Word == "" || msg.Number < 0 {
			return
		}
		r.apply(func(g GameState) GameState {
			return g.GiveClue(msg.Word, msg.Number, now)
		})

	case "reveal_card":
		if msg.CardID == nil {
			return
		}
		r.apply(func(g GameState) GameState {
			return g.RevealCard(*msg.CardID, now)
		})

	case "end_turn":
		// No-retreat gate: in blacksite a team may not end its turn before
		// revealing at least one card. The clock's expiry path bypasses this.
		r.mu.RLock()
		blocked := r.state.Phase == PhasePlaying &&
			r.state.Mode == ModeBlacksite &&
			r.state.CardsRevealedThisTurn == 0
		r.mu.RUnlock()
		if blocked {
			return
		}
		r.apply(func(g GameState) GameState {
			return g.EndTurn(now)
		})

	case "restart_game":
		r.apply(func(g GameState) GameState {
			return g.Restart(r.rng)
		})
		logf(cfg, "GAMES: Game %s reset", r.code)

	case "set_target":
		update := PlayerUpdate{ClearTarget: true}
		if msg.CardID != nil {
			update = PlayerUpdate{Target: msg.CardID}
		}
		r.apply(func(g GameState) GameState {
			return g.UpdatePlayer(it.client.id, update)
		})
	}
}

// handleExpiry force-ends the turn the clock was armed for. A deadline
// that no longer matches the live state was superseded by a clue or
// reveal in the meantime and is dropped.
func (r *room) handleExpiry(deadline int64) {
	r.mu.RLock()
	live := r.state.Phase == PhasePlaying &&
		r.state.TurnEndsAt != nil &&
		*r.state.TurnEndsAt == deadline
	r.mu.RUnlock()

	if !live {
		return
	}

	r.apply(func(g GameState) GameState {
		return g.ExpireTurn(time.Now())
	})
}

// armTurnClock keeps one deferred callback in line with the state's turn
// deadline: armed when a future deadline exists, superseded whenever the
// deadline changes, disarmed when it clears.
func (r *room) armTurnClock(state GameState) {
	var deadline int64
	if state.Phase == PhasePlaying && state.TurnEndsAt != nil {
		deadline = *state.TurnEndsAt
	}

	if deadline == r.armedDeadline {
		return
	}

	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.armedDeadline = deadline

	if deadline == 0 {
		return
	}

	captured := deadline
	r.timer = time.AfterFunc(time.Until(time.UnixMilli(deadline)), func() {
		select {
		case r.expiries <- captured:
		case <-r.done:
		}
	})
}

func (r *room) broadcast(msg any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for client := range r.clients {
		select {
		case client.send <- msg:
		default:
			delete(r.clients, client)
			client.shutdown()
		}
	}
}

// stop ends the run loop. Safe to call more than once.
func (r *room) stop() {
	r.once.Do(func() {
		close(r.done)
	})
}

// closeAll disconnects every client of this room and releases their
// connection bindings (used by the reaper).
func (r *room) closeAll() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.clients))
	for c := range r.clients {
		ids = append(ids, c.id)
		c.shutdown()
		delete(r.clients, c)
	}
	r.mu.Unlock()

	for _, id := range ids {
		r.list.unbind(id)
	}

	r.stop()
}
