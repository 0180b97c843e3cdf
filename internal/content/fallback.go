package content

import "fmt"

var fallbackQuestions = map[string][]string{
	"emotional": {
		"What's something you've never told me that you've been wanting to share?",
		"When was the last time you felt truly understood by me?",
		"What emotion do you find hardest to express, and why?",
	},
	"playful": {
		"If we could swap lives for a day, what would you do first?",
		"What's the most embarrassing thing you'd be willing to do for a million dollars?",
		"If you could give me any silly superpower, what would it be?",
	},
	"gratitude": {
		"What's something small I do that makes your day better?",
		"When did you last feel really grateful for our relationship?",
		"What moment together are you most thankful for?",
	},
	"dreams": {
		"If we had unlimited resources, what adventure would you want us to take?",
		"What's a dream you've never shared with anyone?",
		"Where do you see us in 10 years?",
	},
	"communication": {
		"How can I better support you when you're stressed?",
		"What's something you wish I understood better about you?",
		"How do you prefer to receive apologies?",
	},
	"spicy": {
		"What was going through your mind when we first met?",
		"What's your favorite memory of us being spontaneous?",
		"What's something romantic you've always wanted to try together?",
	},
	"hypothetical": {
		"If we could live anywhere in the world for a year, where would you choose?",
		"If you could relive one day from our relationship, which would it be?",
		"If we wrote a book about us, what would the title be?",
	},
}

// FallbackQuestions returns the static questions of a category. Unknown
// categories fall back to the emotional set.
func FallbackQuestions(category string) []string {
	if qs, ok := fallbackQuestions[category]; ok {
		return qs
	}
	return fallbackQuestions["emotional"]
}

// FallbackTrivia returns the static trivia question of a category about subject
func FallbackTrivia(subject, category string) TriviaQuestion {
	switch category {
	case "memories":
		return TriviaQuestion{
			Question: fmt.Sprintf("What made %s laugh the hardest recently?", subject),
			Options:  []string{"A funny video or meme", "Something you said", "A pet doing something silly", "A comedy show or movie"},
		}
	case "preferences":
		return TriviaQuestion{
			Question: fmt.Sprintf("How does %s prefer to unwind after a stressful day?", subject),
			Options:  []string{"Exercise or physical activity", "Quiet time alone", "Talking about their day", "Comfort food and TV"},
		}
	case "dreams":
		return TriviaQuestion{
			Question: fmt.Sprintf("What's on %s's bucket list?", subject),
			Options:  []string{"Traveling to a specific country", "Learning a new skill", "Starting a business", "An adventure activity"},
		}
	case "habits":
		return TriviaQuestion{
			Question: fmt.Sprintf("What's %s's morning routine like?", subject),
			Options:  []string{"Quick shower and out the door", "Coffee first, everything else later", "Full routine with breakfast", "Hit snooze multiple times"},
		}
	case "personality":
		return TriviaQuestion{
			Question: fmt.Sprintf("What's %s's love language?", subject),
			Options:  []string{"Words of affirmation", "Quality time", "Physical touch", "Acts of service"},
		}
	default:
		return TriviaQuestion{
			Question: fmt.Sprintf("What is %s's favorite way to spend a lazy Sunday?", subject),
			Options:  []string{"Sleeping in and watching movies", "Going for a hike or outdoor activity", "Cooking a big brunch", "Reading or relaxing at home"},
		}
	}
}

var fallbackDates = map[string]DateIdea{
	"romantic": {
		Title:       "Sunset Picnic",
		Description: "Pack your favorite snacks and watch the sunset together at a scenic spot.",
		Tips:        []string{"Bring a cozy blanket", "Make a playlist", "Don't forget dessert"},
	},
	"adventurous": {
		Title:       "Hiking Adventure",
		Description: "Explore a new trail together and discover hidden gems in nature.",
		Tips:        []string{"Check the weather", "Pack snacks and water", "Take photos at viewpoints"},
	},
	"relaxed": {
		Title:       "Movie Marathon Night",
		Description: "Create a cozy fort, pick your favorite movies, and spend the evening cuddled up.",
		Tips:        []string{"Prepare snacks beforehand", "Put phones away", "Take breaks to discuss"},
	},
	"fun": {
		Title:       "Game Night Challenge",
		Description: "Compete in board games, video games, or card games with fun stakes.",
		Tips:        []string{"Loser makes dinner", "Try new games", "Keep score for bragging rights"},
	},
}

// FallbackDate returns the static date idea of a mood, romantic when unknown
func FallbackDate(mood string) DateIdea {
	idea, ok := fallbackDates[mood]
	if !ok {
		idea = fallbackDates["romantic"]
	}
	idea.Tips = append([]string(nil), idea.Tips...)
	return idea
}
