package main

// Word pools for board generation. Categories with fewer than 25 entries
// cannot fill a board and fall back to the master list at generation time.

var spyWords = []string{
	"AGENT", "SECRET", "CODE", "MISSION", "TARGET", "LASER", "NIGHT", "SHADOW",
	"WIRE", "BOMB", "SAFE", "LOCK", "KEY", "TOKEN", "GLASS", "SOUND", "WAVE",
	"RADIO", "SIGNAL", "WATCH", "CLOCK", "TIME", "GHOST", "MASK", "HOOD",
}

var placeWords = []string{
	"HOTEL", "TOKYO", "BERLIN", "LONDON", "PARIS", "ROME", "CHINA", "EGYPT",
	"SPACE", "MOON", "MARS", "EARTH", "BEACH", "PARK", "SCHOOL", "HOSPITAL",
	"BANK", "OPERA", "THEATER", "LAB", "OFFICE", "BASE", "CAMP", "TOWER",
	"BRIDGE", "STADIUM", "PORT", "SHIP", "TRAIN", "PLANE", "CAR", "TRUCK",
}

var natureWords = []string{
	"TREE", "FOREST", "RIVER", "MOUNTAIN", "LAKE", "OCEAN", "FISH", "SHARK",
	"WHALE", "OCTOPUS", "CRAB", "LOBSTER", "DOG", "CAT", "LION", "TIGER",
	"BEAR", "EAGLE", "HAWK", "OWL", "BAT", "WOLF", "FOX", "SNAKE", "SPIDER",
	"WEB", "FLY", "BUG", "WORM", "ANT", "BEE", "HONEY", "ROSE", "LILY",
}

var objectWords = []string{
	"TABLE", "CHAIR", "BED", "LAMP", "LIGHT", "FAN", "DOOR", "WINDOW", "WALL",
	"FLOOR", "ROOF", "PEN", "PENCIL", "PAPER", "BOOK", "NOTE", "CARD", "DICE",
	"GAME", "TOY", "DOLL", "BALL", "RING", "SHOE", "BOOT", "SOCK", "HAT",
	"COAT", "SHIRT", "PANTS", "DRESS", "SUIT", "TIE", "GLOVE", "GLASSES",
}

var foodWords = []string{
	"APPLE", "BANANA", "ORANGE", "LEMON", "LIME", "GRAPE", "BERRY", "MELON",
	"WATER", "WINE", "BEER", "COFFEE", "TEA", "MILK", "JUICE", "SODA", "BREAD",
	"CAKE", "PIE", "COOKIE", "CANDY", "SUGAR", "SALT", "PEPPER", "SPICE",
	"MEAT", "EGG", "CHEESE", "PIZZA", "BURGER", "FRIES", "SOUP",
}

var abstractWords = []string{
	"LIFE", "DEATH", "LOVE", "HATE", "WAR", "PEACE", "JOY", "LUCK",
	"FATE", "CHANCE", "HOPE", "DREAM", "MIND", "SOUL", "KING", "QUEEN",
	"PRINCE", "KNIGHT", "WITCH", "WIZARD", "MAGIC", "SPELL", "CURSE", "POWER",
	"FORCE", "ENERGY", "HEAT", "COLD", "ICE", "FIRE", "WIND", "RAIN", "SNOW",
}

var technologyWords = []string{
	"ROBOT", "COMPUTER", "PHONE", "SCREEN", "KEYBOARD", "MOUSE", "DISK", "CHIP",
	"DATA", "FILE", "NET", "LINK", "CLICK", "APP", "SERVER", "CIRCUIT",
	"VIRUS", "HACK", "TECH", "GEAR", "ENGINE", "MOTOR", "PUMP", "PIPE", "TUBE",
}

var miscWords = []string{
	"RED", "BLUE", "GREEN", "YELLOW", "BLACK", "WHITE", "GOLD", "SILVER", "BRONZE",
	"IRON", "STEEL", "ROCK", "STONE", "SAND", "DUST", "DIRT", "MUD", "CLAY",
	"ASH", "SMOKE", "FOG", "MIST", "STEAM", "GAS", "OIL", "WAX", "INK", "GLUE",
	"RUN", "JUMP", "WALK", "SWIM", "DRIVE", "RIDE", "SAIL", "ROW",
	"DIVE", "HIT", "KICK", "PUNCH", "FIGHT", "PLAY", "WORK", "SLEEP", "WAKE",
	"EAT", "DRINK", "COOK", "BAKE", "WASH", "CLEAN", "CUT", "SLICE", "CHOP",
}

var categorizedWords = map[string][]string{
	"spy":        spyWords,
	"places":     placeWords,
	"nature":     natureWords,
	"objects":    objectWords,
	"food":       foodWords,
	"abstract":   abstractWords,
	"technology": technologyWords,
	"misc":       miscWords,
}

var masterWordList = func() []string {
	var all []string
	for _, pool := range [][]string{
		spyWords, placeWords, natureWords, objectWords,
		foodWords, abstractWords, technologyWords, miscWords,
	} {
		all = append(all, pool...)
	}
	return all
}()

// wordPool resolves a category name to its word list, falling back to the
// master list for unknown categories or pools too small to fill a board.
func wordPool(category string) []string {
	pool, ok := categorizedWords[category]
	if !ok || len(pool) < boardSize {
		return masterWordList
	}
	return pool
}
