package main

import (
	"fmt"
	"math/rand"
)

const boardSize = 25

type CardType string

const (
	CardRed      CardType = "red"
	CardBlue     CardType = "blue"
	CardNeutral  CardType = "neutral"
	CardAssassin CardType = "assassin"
)

// Card is immutable once dealt, except for the revealed flag, which
// transitions false to true exactly once.
type Card struct {
	ID       string   `json:"id"`
	Word     string   `json:"word"`
	Type     CardType `json:"type"`
	Revealed bool     `json:"revealed"`
}

func teamCard(t Team) CardType {
	if t == TeamBlue {
		return CardBlue
	}
	return CardRed
}

// colorCounts returns the card type multiset for a mode and starting team:
// standard deals 9/8/7 plus one assassin, blacksite trades two neutrals
// for two extra assassins.
func colorCounts(mode Mode, startingTeam Team) []CardType {
	starter := teamCard(startingTeam)
	other := teamCard(startingTeam.Opponent())

	types := make([]CardType, 0, boardSize)
	for i := 0; i < 9; i++ {
		types = append(types, starter)
	}
	for i := 0; i < 8; i++ {
		types = append(types, other)
	}

	neutrals, assassins := 7, 1
	if mode == ModeBlacksite {
		neutrals, assassins = 5, 3
	}
	for i := 0; i < neutrals; i++ {
		types = append(types, CardNeutral)
	}
	for i := 0; i < assassins; i++ {
		types = append(types, CardAssassin)
	}

	return types
}

// generateBoard deals a fresh 25-card board: 25 distinct words drawn from
// pool, and the mode's color multiset shuffled independently of the word
// draw. Pools too small to fill a board fall back to the master list.
// Pure apart from the injected random source.
func generateBoard(rng *rand.Rand, pool []string, mode Mode, startingTeam Team) []Card {
	if len(pool) < boardSize {
		pool = masterWordList
	}

	words := make([]string, 0, boardSize)
	for _, i := range rng.Perm(len(pool))[:boardSize] {
		words = append(words, pool[i])
	}

	types := colorCounts(mode, startingTeam)
	rng.Shuffle(len(types), func(i, j int) {
		types[i], types[j] = types[j], types[i]
	})

	board := make([]Card, boardSize)
	for i := range board {
		board[i] = Card{
			ID:   fmt.Sprintf("card-%d", i),
			Word: words[i],
			Type: types[i],
		}
	}

	return board
}
