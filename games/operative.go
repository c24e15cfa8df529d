package games

// Two teams, red and blue, each with a Spymaster and any number of Operatives
// The board is a 5x5 grid of code words; each word secretly belongs to one team,
// is a civilian, or is the assassin
// Only the Spymasters see the color key; they take turns giving a one-word clue
// and a number, and their Operatives reveal cards trying to find their own agents
// Revealing an enemy agent or a civilian ends the turn; revealing the assassin
// loses the game on the spot
// First team to reveal all of its agents wins
// The starting team gets nine agents to the other team's eight, and starts first

// Modes:
// Standard: 9/8 agents, 7 civilians, 1 assassin; clue submission restarts the turn clock
// Blacksite: 9/8 agents, 5 civilians, 3 assassins; one continuous clock per turn,
// and a turn cannot be ended manually before at least one reveal

// Implementation details:
// - One websocket per client; rooms created and joined by intent messages
// - Players identified by cookie, so a dropped connection can retake its seat
// - Full game state is broadcast to the whole room after every change
