package content

// Dice is the pair of six-faced dice of one intensity
type Dice struct {
	Actions [6]string
	Targets [6]string
}

// DiceIntensities lists the intensities in increasing order
var DiceIntensities = []string{"mild", "medium", "hot"}

var dice = map[string]Dice{
	"mild": {
		Actions: [6]string{"Kiss", "Hug", "Hold", "Compliment", "Massage", "Cuddle"},
		Targets: [6]string{"hands", "forehead", "cheek", "shoulders", "hair", "nose"},
	},
	"medium": {
		Actions: [6]string{"Kiss", "Caress", "Nibble", "Massage", "Whisper to", "Tickle"},
		Targets: [6]string{"neck", "ear", "lips", "back", "collarbone", "wrist"},
	},
	"hot": {
		Actions: [6]string{"Kiss", "Lick", "Blow on", "Bite", "Tease", "Undress"},
		Targets: [6]string{"lips", "neck", "chest", "thighs", "lower back", "anywhere you like"},
	},
}

// DiceFor returns the dice of an intensity
func DiceFor(intensity string) (Dice, bool) {
	d, ok := dice[intensity]
	return d, ok
}

// FantasyItem is one entry of the fantasy catalog
type FantasyItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

// FantasyCatalog is the fixed list of items partners rate yes, maybe or no
var FantasyCatalog = []FantasyItem{
	{ID: "massage", Title: "Give each other a full massage", Category: "sensual"},
	{ID: "bath", Title: "Take a candlelit bath together", Category: "sensual"},
	{ID: "blindfold", Title: "Try a blindfold", Category: "sensual"},
	{ID: "love-letter", Title: "Write each other a love letter", Category: "romantic"},
	{ID: "surprise-date", Title: "Plan a surprise date", Category: "romantic"},
	{ID: "slow-dance", Title: "Slow dance in the kitchen", Category: "romantic"},
	{ID: "roleplay", Title: "Try a roleplay scenario", Category: "adventurous"},
	{ID: "new-place", Title: "Be intimate somewhere new", Category: "adventurous"},
	{ID: "weekend-away", Title: "Spontaneous weekend getaway", Category: "adventurous"},
	{ID: "dress-up", Title: "Dress up for each other", Category: "playful"},
	{ID: "strip-game", Title: "Play a strip card game", Category: "playful"},
	{ID: "sexting", Title: "Send flirty texts all day", Category: "playful"},
}

// FantasyItemByID looks up a catalog item
func FantasyItemByID(id string) (FantasyItem, bool) {
	for _, item := range FantasyCatalog {
		if item.ID == id {
			return item, true
		}
	}
	return FantasyItem{}, false
}
