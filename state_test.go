package main

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

// playingState returns a two-player state mid-match, red to move.
func playingState(t *testing.T, mode Mode, timerSeconds int) GameState {
	t.Helper()

	g := newGame("TEST", testRNG())
	g = g.AddPlayer("p1", "Alice", "dev-1")
	g = g.AddPlayer("p2", "Bob", "dev-2")
	g = g.StartGame(StartOptions{Mode: mode, TimerSeconds: timerSeconds}, time.Now(), testRNG())

	require.Equal(t, PhasePlaying, g.Phase)
	require.Equal(t, TeamRed, g.Turn)

	return g
}

// cardID finds an unrevealed card of the wanted type.
func cardID(t *testing.T, g GameState, ct CardType) string {
	t.Helper()

	for _, c := range g.Board {
		if c.Type == ct && !c.Revealed {
			return c.ID
		}
	}
	t.Fatalf("no unrevealed %s card on the board", ct)
	return ""
}

// unrevealedOf counts hidden cards of a team's color, the quantity the
// score counters must mirror.
func unrevealedOf(g GameState, team Team) int {
	n := 0
	for _, c := range g.Board {
		if c.Type == teamCard(team) && !c.Revealed {
			n++
		}
	}
	return n
}

func TestNewGameDefaults(t *testing.T) {
	t.Parallel()

	g := newGame("ABCD", testRNG())

	assert.Equal(t, "ABCD", g.RoomCode)
	assert.Equal(t, PhaseLobby, g.Phase)
	assert.Equal(t, ModeStandard, g.Mode)
	assert.Equal(t, TeamRed, g.Turn)
	assert.Len(t, g.Board, boardSize)
	assert.Empty(t, g.Players)
	assert.Equal(t, Scores{Red: 9, Blue: 8}, g.Scores)
	assert.Equal(t, []string{"Waiting for players..."}, g.Logs)
	assert.Nil(t, g.CurrentClue)
	assert.Nil(t, g.TurnEndsAt)
}

func TestStartGameUntimed(t *testing.T) {
	t.Parallel()

	g := newGame("TEST", testRNG())
	g = g.StartGame(StartOptions{Mode: ModeStandard}, time.Now(), testRNG())

	assert.Equal(t, PhasePlaying, g.Phase)
	assert.Equal(t, TeamRed, g.Turn)
	assert.Equal(t, TeamRed, g.LastStarter)
	assert.Equal(t, Scores{Red: 9, Blue: 8}, g.Scores)
	assert.Nil(t, g.TurnEndsAt)
	assert.Nil(t, g.CurrentClue)
	assert.Zero(t, g.CardsRevealedThisTurn)
	assert.Contains(t, g.Logs[len(g.Logs)-1], "Mission Started. STANDARD Protocol. RED Team")
}

func TestStartGameTimed(t *testing.T) {
	t.Parallel()

	now := time.Now()
	g := newGame("TEST", testRNG())
	g = g.StartGame(StartOptions{TimerSeconds: 60}, now, testRNG())

	require.NotNil(t, g.TurnEndsAt)
	assert.Equal(t, now.Add(60*time.Second).UnixMilli(), *g.TurnEndsAt)
	assert.Equal(t, 60, g.TimerDuration)
}

func TestStartGameOnlyFromLobby(t *testing.T) {
	t.Parallel()

	g := playingState(t, ModeStandard, 0)
	again := g.StartGame(StartOptions{}, time.Now(), testRNG())

	assert.Equal(t, g, again)
}

func TestStartingTeamAlternates(t *testing.T) {
	t.Parallel()

	rng := testRNG()
	g := newGame("TEST", rng)
	g = g.StartGame(StartOptions{}, time.Now(), rng)
	require.Equal(t, TeamRed, g.Turn)

	g = g.Restart(rng)
	require.Equal(t, PhaseLobby, g.Phase)
	require.Equal(t, TeamRed, g.LastStarter)

	g = g.StartGame(StartOptions{}, time.Now(), rng)
	assert.Equal(t, TeamBlue, g.Turn)
	assert.Equal(t, TeamBlue, g.LastStarter)
	assert.Equal(t, Scores{Red: 8, Blue: 9}, g.Scores)
}

func TestGiveClue(t *testing.T) {
	t.Parallel()

	g := playingState(t, ModeStandard, 0)
	g = g.GiveClue("OCEAN", 2, time.Now())

	require.NotNil(t, g.CurrentClue)
	assert.Equal(t, Clue{Word: "OCEAN", Number: 2}, *g.CurrentClue)
	assert.Contains(t, g.Logs[len(g.Logs)-1], "RED Spymaster: OCEAN (2)")
}

func TestGiveClueRestartsStandardClock(t *testing.T) {
	t.Parallel()

	g := playingState(t, ModeStandard, 60)
	require.NotNil(t, g.TurnEndsAt)

	now := time.Now().Add(30 * time.Second)
	g = g.GiveClue("OCEAN", 2, now)

	require.NotNil(t, g.TurnEndsAt)
	assert.Equal(t, now.Add(60*time.Second).UnixMilli(), *g.TurnEndsAt)
}

func TestGiveClueKeepsBlacksiteClock(t *testing.T) {
	t.Parallel()

	g := playingState(t, ModeBlacksite, 60)
	require.NotNil(t, g.TurnEndsAt)
	armed := *g.TurnEndsAt

	g = g.GiveClue("OCEAN", 2, time.Now().Add(30*time.Second))

	require.NotNil(t, g.TurnEndsAt)
	assert.Equal(t, armed, *g.TurnEndsAt, "blacksite runs one continuous clock per turn")
}

func TestGiveClueUnlimitedSentinel(t *testing.T) {
	t.Parallel()

	g := playingState(t, ModeStandard, 0)
	g = g.GiveClue("EVERYTHING", UnlimitedClue, time.Now())

	require.NotNil(t, g.CurrentClue)
	assert.Equal(t, UnlimitedClue, g.CurrentClue.Number)
	assert.Contains(t, g.Logs[len(g.Logs)-1], "EVERYTHING (∞)")
}

func TestEndTurn(t *testing.T) {
	t.Parallel()

	g := playingState(t, ModeStandard, 0)
	g = g.GiveClue("OCEAN", 2, time.Now())
	g = g.EndTurn(time.Now())

	assert.Equal(t, TeamBlue, g.Turn)
	assert.Nil(t, g.CurrentClue)
	assert.Zero(t, g.CardsRevealedThisTurn)
	assert.Nil(t, g.TurnEndsAt)
	assert.Contains(t, g.Logs[len(g.Logs)-1], "RED ended their turn.")
}

func TestExpireTurn(t *testing.T) {
	t.Parallel()

	g := playingState(t, ModeStandard, 60)
	g = g.ExpireTurn(time.Now())

	assert.Equal(t, TeamBlue, g.Turn)
	assert.Nil(t, g.CurrentClue)
	require.NotNil(t, g.TurnEndsAt, "a timed game re-arms the clock for the next turn")
	assert.Contains(t, g.Logs[len(g.Logs)-1], "RED ran out of time.")
}

func TestRevealOwnAgentKeepsTurn(t *testing.T) {
	t.Parallel()

	g := playingState(t, ModeStandard, 0)
	g = g.RevealCard(cardID(t, g, CardRed), time.Now())

	assert.Equal(t, TeamRed, g.Turn)
	assert.Equal(t, 8, g.Scores.Red)
	assert.Equal(t, 1, g.CardsRevealedThisTurn)
	assert.Equal(t, PhasePlaying, g.Phase)
	assert.Contains(t, g.Logs[len(g.Logs)-1], "RED found an Agent!")
}

func TestRevealNeutralPassesTurn(t *testing.T) {
	t.Parallel()

	g := playingState(t, ModeStandard, 0)
	g = g.GiveClue("OCEAN", 2, time.Now())
	g = g.RevealCard(cardID(t, g, CardNeutral), time.Now())

	assert.Equal(t, TeamBlue, g.Turn)
	assert.Nil(t, g.CurrentClue)
	assert.Zero(t, g.CardsRevealedThisTurn)
	assert.Equal(t, Scores{Red: 9, Blue: 8}, g.Scores)
	assert.Contains(t, g.Logs[len(g.Logs)-1], "RED hit a civilian. Turn over.")
}

func TestRevealAssassinEndsGame(t *testing.T) {
	t.Parallel()

	g := playingState(t, ModeStandard, 60)
	id := cardID(t, g, CardAssassin)
	g = g.RevealCard(id, time.Now())

	assert.Equal(t, PhaseGameOver, g.Phase)
	assert.Equal(t, TeamBlue, g.Winner)
	assert.Nil(t, g.TurnEndsAt)
	for _, c := range g.Board {
		if c.ID == id {
			assert.True(t, c.Revealed)
		}
	}
	assert.Contains(t, g.Logs[len(g.Logs)-1], "FATAL ERROR: RED Hit the Assassin! BLUE Wins.")
}

func TestGameOverClearsClue(t *testing.T) {
	t.Parallel()

	t.Run("assassin", func(t *testing.T) {
		g := playingState(t, ModeStandard, 60)
		g = g.GiveClue("OCEAN", 2, time.Now())
		g = g.RevealCard(cardID(t, g, CardAssassin), time.Now())

		require.Equal(t, PhaseGameOver, g.Phase)
		assert.Nil(t, g.CurrentClue)
		assert.Nil(t, g.TurnEndsAt)
	})

	t.Run("last own agent", func(t *testing.T) {
		g := playingState(t, ModeStandard, 60)
		g.Scores.Red = 1
		g = g.GiveClue("OCEAN", 1, time.Now())
		g = g.RevealCard(cardID(t, g, CardRed), time.Now())

		require.Equal(t, PhaseGameOver, g.Phase)
		assert.Nil(t, g.CurrentClue)
		assert.Nil(t, g.TurnEndsAt)
	})
}

func TestRevealLastOwnAgentWins(t *testing.T) {
	t.Parallel()

	g := playingState(t, ModeStandard, 60)
	g.Scores.Red = 1

	g = g.RevealCard(cardID(t, g, CardRed), time.Now())

	assert.Equal(t, PhaseGameOver, g.Phase)
	assert.Equal(t, TeamRed, g.Winner)
	assert.Zero(t, g.Scores.Red)
	assert.Nil(t, g.TurnEndsAt)
	assert.Contains(t, g.Logs[len(g.Logs)-1], "MISSION ACCOMPLISHED: RED Wins!")
}

func TestRevealEnemyAgentPassesTurn(t *testing.T) {
	t.Parallel()

	g := playingState(t, ModeStandard, 0)
	g = g.GiveClue("OCEAN", 2, time.Now())
	g = g.RevealCard(cardID(t, g, CardBlue), time.Now())

	assert.Equal(t, TeamBlue, g.Turn)
	assert.Equal(t, 7, g.Scores.Blue)
	assert.Nil(t, g.CurrentClue)
	assert.Zero(t, g.CardsRevealedThisTurn)
	assert.Equal(t, PhasePlaying, g.Phase)
	assert.Contains(t, g.Logs[len(g.Logs)-1], "RED found an Enemy Spy! Turn over.")
}

func TestRevealLastEnemyAgentHandsOverWin(t *testing.T) {
	t.Parallel()

	g := playingState(t, ModeStandard, 0)
	g.Scores.Blue = 1

	g = g.RevealCard(cardID(t, g, CardBlue), time.Now())

	assert.Equal(t, PhaseGameOver, g.Phase)
	assert.Equal(t, TeamBlue, g.Winner)
	assert.Zero(t, g.Scores.Blue)
	assert.Contains(t, g.Logs[len(g.Logs)-1], "MISSION FAILED: BLUE Wins!")
}

func TestRevealGuards(t *testing.T) {
	t.Parallel()

	g := playingState(t, ModeStandard, 0)

	t.Run("unknown card", func(t *testing.T) {
		assert.Equal(t, g, g.RevealCard("card-99", time.Now()))
	})

	t.Run("already revealed", func(t *testing.T) {
		id := cardID(t, g, CardNeutral)
		once := g.RevealCard(id, time.Now())
		twice := once.RevealCard(id, time.Now())
		assert.Equal(t, once, twice)
	})
}

func TestPlayingOnlyTransitionsNoOpInLobby(t *testing.T) {
	t.Parallel()

	lobby := newGame("TEST", testRNG())
	now := time.Now()

	testCases := []struct {
		desc string
		next GameState
	}{
		{"give_clue", lobby.GiveClue("OCEAN", 2, now)},
		{"end_turn", lobby.EndTurn(now)},
		{"expire_turn", lobby.ExpireTurn(now)},
		{"reveal_card", lobby.RevealCard("card-0", now)},
	}

	for _, tc := range testCases {
		assert.Equal(t, lobby, tc.next, "%s must not fire in the lobby", tc.desc)
	}
}

func TestGameOverIsTerminalExceptRestart(t *testing.T) {
	t.Parallel()

	g := playingState(t, ModeStandard, 0)
	g = g.RevealCard(cardID(t, g, CardAssassin), time.Now())
	require.Equal(t, PhaseGameOver, g.Phase)

	now := time.Now()
	assert.Equal(t, g, g.GiveClue("OCEAN", 2, now))
	assert.Equal(t, g, g.EndTurn(now))
	assert.Equal(t, g, g.ExpireTurn(now))
	assert.Equal(t, g, g.RevealCard(cardID(t, g, CardBlue), now))
	assert.Equal(t, g, g.StartGame(StartOptions{}, now, testRNG()))

	reset := g.Restart(testRNG())
	assert.Equal(t, PhaseLobby, reset.Phase)
}

func TestTransitionsDoNotMutateInput(t *testing.T) {
	t.Parallel()

	g := playingState(t, ModeStandard, 60)
	snapshot := g.clone()

	_ = g.GiveClue("OCEAN", 2, time.Now())
	_ = g.RevealCard(cardID(t, g, CardRed), time.Now())
	_ = g.EndTurn(time.Now())
	_ = g.AddPlayer("p3", "Carol", "dev-3")
	_ = g.RemovePlayer("p1")

	assert.Equal(t, snapshot, g)
}

func TestScoreMirrorsUnrevealedTiles(t *testing.T) {
	t.Parallel()

	g := playingState(t, ModeStandard, 0)
	rng := rand.New(rand.NewSource(9))

	for i := 0; i < 40 && g.Phase == PhasePlaying; i++ {
		g = g.RevealCard(g.Board[rng.Intn(boardSize)].ID, time.Now())

		assert.Equal(t, unrevealedOf(g, TeamRed), g.Scores.Red)
		assert.Equal(t, unrevealedOf(g, TeamBlue), g.Scores.Blue)
	}
}

func TestRevealsAreMonotonic(t *testing.T) {
	t.Parallel()

	g := playingState(t, ModeStandard, 0)
	id := cardID(t, g, CardRed)
	g = g.RevealCard(id, time.Now())

	g = g.GiveClue("OCEAN", 1, time.Now())
	g = g.EndTurn(time.Now())
	g = g.RevealCard(cardID(t, g, CardBlue), time.Now())

	for _, c := range g.Board {
		if c.ID == id {
			assert.True(t, c.Revealed, "a revealed card never goes back in hiding")
		}
	}
}

func TestRestartKeepsRoster(t *testing.T) {
	t.Parallel()

	g := playingState(t, ModeBlacksite, 60)
	g = g.RevealCard(cardID(t, g, CardAssassin), time.Now())
	require.Equal(t, PhaseGameOver, g.Phase)

	reset := g.Restart(testRNG())

	assert.Equal(t, PhaseLobby, reset.Phase)
	assert.Equal(t, g.RoomCode, reset.RoomCode)
	assert.Equal(t, g.Players, reset.Players)
	assert.Equal(t, g.LastStarter, reset.LastStarter)
	assert.Empty(t, reset.Winner)
	assert.Nil(t, reset.TurnEndsAt)
	assert.Equal(t, []string{"Mission reset. Waiting for orders..."}, reset.Logs)
}
