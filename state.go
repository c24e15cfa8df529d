package main

// Game rules for operative, a team-vs-team word deduction game.
//
// Every transition is a pure function from one GameState value to a fresh
// one; callers never observe partial mutation. Transitions whose phase
// guard fails return their input unchanged rather than erroring: a correct
// client never sends them, so they are bug-proofing, not failures.

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

type Team string

const (
	TeamRed  Team = "red"
	TeamBlue Team = "blue"
)

func (t Team) Opponent() Team {
	if t == TeamRed {
		return TeamBlue
	}
	return TeamRed
}

func (t Team) Upper() string {
	if t == TeamBlue {
		return "BLUE"
	}
	return "RED"
}

type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhasePlaying  Phase = "playing"
	PhaseGameOver Phase = "game_over"
)

type Mode string

const (
	ModeStandard Mode = "standard"

	// ModeBlacksite deals three assassins instead of one, runs a single
	// continuous turn clock, and forbids manually ending a turn before at
	// least one card has been revealed.
	ModeBlacksite Mode = "blacksite"
)

// UnlimitedClue is the clue number meaning "no declared count"; it is a
// display sentinel only and never caps guesses.
const UnlimitedClue = 99

type Clue struct {
	Word   string `json:"word"`
	Number int    `json:"number"`
}

type Scores struct {
	Red  int `json:"red"`
	Blue int `json:"blue"`
}

func (s Scores) of(t Team) int {
	if t == TeamBlue {
		return s.Blue
	}
	return s.Red
}

func (s Scores) sub(t Team) Scores {
	if t == TeamBlue {
		s.Blue--
	} else {
		s.Red--
	}
	return s
}

// startingScores counts agents left to find: nine for the starting team,
// eight for the other.
func startingScores(startingTeam Team) Scores {
	if startingTeam == TeamBlue {
		return Scores{Red: 8, Blue: 9}
	}
	return Scores{Red: 9, Blue: 8}
}

// GameState is the full authoritative state of one room, broadcast
// verbatim to every connected client on change.
type GameState struct {
	RoomCode              string   `json:"roomCode"`
	Phase                 Phase    `json:"phase"`
	Mode                  Mode     `json:"mode"`
	Theme                 string   `json:"theme"`
	Turn                  Team     `json:"turn"`
	LastStarter           Team     `json:"lastStarter,omitempty"`
	Board                 []Card   `json:"board"`
	Players               []Player `json:"players"`
	Scores                Scores   `json:"scores"`
	Winner                Team     `json:"winner,omitempty"`
	Logs                  []string `json:"logs"`
	CurrentClue           *Clue    `json:"currentClue"`
	TimerDuration         int      `json:"timerDuration"`
	TurnEndsAt            *int64   `json:"turnEndsAt"`
	CardsRevealedThisTurn int      `json:"cardsRevealedThisTurn"`
}

// StartOptions selects the word pool, clock, ruleset and cosmetics for a
// match. Zero values mean standard mode, dark theme, master word list,
// untimed.
type StartOptions struct {
	Category     string
	TimerSeconds int
	Mode         Mode
	Theme        string
}

// newGame builds the lobby-phase state for a fresh room. The board is
// dealt immediately so the grid renders in the lobby; StartGame deals a
// new one.
func newGame(roomCode string, rng *rand.Rand) GameState {
	return GameState{
		RoomCode:      roomCode,
		Phase:         PhaseLobby,
		Mode:          ModeStandard,
		Theme:         "dark",
		Turn:          TeamRed,
		Board:         generateBoard(rng, masterWordList, ModeStandard, TeamRed),
		Players:       []Player{},
		Scores:        startingScores(TeamRed),
		Logs:          []string{"Waiting for players..."},
		TimerDuration: 0,
	}
}

// clone makes a structurally independent copy, so that transitions built
// on it never alias the input's slices or pointers.
func (g GameState) clone() GameState {
	next := g

	next.Board = append([]Card(nil), g.Board...)
	next.Players = append([]Player(nil), g.Players...)
	next.Logs = append([]string(nil), g.Logs...)

	if g.CurrentClue != nil {
		clue := *g.CurrentClue
		next.CurrentClue = &clue
	}
	if g.TurnEndsAt != nil {
		at := *g.TurnEndsAt
		next.TurnEndsAt = &at
	}

	return next
}

// deadline converts a timer duration into an absolute turn deadline in
// epoch milliseconds; untimed games have none.
func deadline(now time.Time, seconds int) *int64 {
	if seconds <= 0 {
		return nil
	}
	at := now.Add(time.Duration(seconds) * time.Second).UnixMilli()
	return &at
}

// StartGame deals a board and moves the room from lobby into play. The
// starting team alternates between matches: whoever did not start last
// time starts now, red first.
func (g GameState) StartGame(opts StartOptions, now time.Time, rng *rand.Rand) GameState {
	if g.Phase != PhaseLobby {
		return g
	}

	mode := opts.Mode
	if mode != ModeBlacksite {
		mode = ModeStandard
	}
	theme := opts.Theme
	if theme == "" {
		theme = "dark"
	}

	startingTeam := TeamRed
	if g.LastStarter == TeamRed {
		startingTeam = TeamBlue
	}

	next := g.clone()
	next.Phase = PhasePlaying
	next.Mode = mode
	next.Theme = theme
	next.Turn = startingTeam
	next.LastStarter = startingTeam
	next.Board = generateBoard(rng, wordPool(opts.Category), mode, startingTeam)
	next.Scores = startingScores(startingTeam)
	next.Winner = ""
	next.CurrentClue = nil
	next.TimerDuration = opts.TimerSeconds
	next.TurnEndsAt = deadline(now, opts.TimerSeconds)
	next.CardsRevealedThisTurn = 0
	next.Logs = append(next.Logs, fmt.Sprintf("Mission Started. %s Protocol. %s Team, awaiting orders.",
		strings.ToUpper(string(mode)), startingTeam.Upper()))

	return next
}

// GiveClue records the spymaster's clue. In standard mode a configured
// clock restarts with each clue; blacksite runs one continuous clock per
// turn, so the deadline is left alone.
func (g GameState) GiveClue(word string, number int, now time.Time) GameState {
	if g.Phase != PhasePlaying {
		return g
	}

	next := g.clone()
	next.CurrentClue = &Clue{Word: word, Number: number}

	if next.Mode == ModeStandard && next.TimerDuration > 0 {
		next.TurnEndsAt = deadline(now, next.TimerDuration)
	}

	display := strconv.Itoa(number)
	if number == UnlimitedClue {
		display = "∞"
	}
	next.Logs = append(next.Logs, fmt.Sprintf("%s Spymaster: %s (%s)", next.Turn.Upper(), word, display))

	return next
}

// passTurn hands play to the opponent: clue cleared, reveal counter
// zeroed, deadline recomputed from the configured timer.
func (g GameState) passTurn(now time.Time) GameState {
	next := g
	next.Turn = g.Turn.Opponent()
	next.CurrentClue = nil
	next.CardsRevealedThisTurn = 0
	next.TurnEndsAt = deadline(now, g.TimerDuration)
	return next
}

// EndTurn voluntarily passes play to the other team.
func (g GameState) EndTurn(now time.Time) GameState {
	if g.Phase != PhasePlaying {
		return g
	}

	next := g.clone().passTurn(now)
	next.Logs = append(next.Logs, fmt.Sprintf("%s ended their turn.", g.Turn.Upper()))

	return next
}

// ExpireTurn is the clock-driven variant of EndTurn. It is never gated by
// blacksite's no-retreat rule; a turn that runs out of time always ends.
func (g GameState) ExpireTurn(now time.Time) GameState {
	if g.Phase != PhasePlaying {
		return g
	}

	next := g.clone().passTurn(now)
	next.Logs = append(next.Logs, fmt.Sprintf("%s ran out of time.", g.Turn.Upper()))

	return next
}

// endGame freezes the state at a winner: no further deadline, no clue.
func (g GameState) endGame(winner Team) GameState {
	next := g
	next.Phase = PhaseGameOver
	next.Winner = winner
	next.CurrentClue = nil
	next.TurnEndsAt = nil
	return next
}

// RevealCard flips a card for the acting team and resolves the
// consequences by card color. Unknown IDs and already-revealed cards are
// no-ops, which makes repeated delivery of the same intent harmless.
func (g GameState) RevealCard(cardID string, now time.Time) GameState {
	if g.Phase != PhasePlaying {
		return g
	}

	index := -1
	for i, c := range g.Board {
		if c.ID == cardID {
			index = i
			break
		}
	}
	if index == -1 || g.Board[index].Revealed {
		return g
	}

	next := g.clone()
	next.Board[index].Revealed = true
	next.CardsRevealedThisTurn++

	card := next.Board[index]
	team := next.Turn
	opponent := team.Opponent()

	switch card.Type {
	case CardAssassin:
		next = next.endGame(opponent)
		next.Logs = append(next.Logs, fmt.Sprintf("FATAL ERROR: %s Hit the Assassin! %s Wins.", team.Upper(), opponent.Upper()))

	case CardNeutral:
		next = next.passTurn(now)
		next.Logs = append(next.Logs, fmt.Sprintf("%s hit a civilian. Turn over.", team.Upper()))

	case teamCard(team):
		next.Scores = next.Scores.sub(team)
		next.Logs = append(next.Logs, fmt.Sprintf("%s found an Agent!", team.Upper()))

		if next.Scores.of(team) == 0 {
			next = next.endGame(team)
			next.Logs = append(next.Logs, fmt.Sprintf("MISSION ACCOMPLISHED: %s Wins!", team.Upper()))
		}

	default:
		next.Scores = next.Scores.sub(opponent)
		next = next.passTurn(now)
		next.Logs = append(next.Logs, fmt.Sprintf("%s found an Enemy Spy! Turn over.", team.Upper()))

		if next.Scores.of(opponent) == 0 {
			next = next.endGame(opponent)
			next.Logs = append(next.Logs, fmt.Sprintf("MISSION FAILED: %s Wins!", opponent.Upper()))
		}
	}

	return next
}

// Restart returns the room to the lobby with the roster intact, ready for
// StartGame. LastStarter survives so the next match alternates starters.
// Allowed from any phase.
func (g GameState) Restart(rng *rand.Rand) GameState {
	next := newGame(g.RoomCode, rng)
	next.Players = append([]Player(nil), g.Players...)
	next.LastStarter = g.LastStarter
	next.Theme = g.Theme
	next.Logs = []string{"Mission reset. Waiting for orders..."}
	return next
}
