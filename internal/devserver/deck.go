package devserver

import (
	"github.com/juanmoyano123/cards-study/internal/remote"
	"github.com/juanmoyano123/cards-study/internal/spacedrep"
)

func newCard(id, question, answer string, difficulty int, tags ...string) remote.Card {
	return remote.Card{
		ID:           id,
		Question:     question,
		Answer:       answer,
		Tags:         tags,
		Difficulty:   difficulty,
		EaseFactor:   2.5,
		MasteryLevel: "new",
	}
}

func reviewed(c remote.Card, reviews, intervalDays int) remote.Card {
	c.ReviewCount = reviews
	c.IntervalDays = intervalDays
	c.MasteryLevel = spacedrep.MasteryFor(reviews, intervalDays)
	return c
}

func explained(c remote.Card, explanation string) remote.Card {
	c.Explanation = &explanation
	return c
}

// SampleDeck returns a small mixed deck: some cards already in review and
// some never seen.
func SampleDeck() []remote.Card {
	return []remote.Card{
		reviewed(explained(
			newCard("card-01", "What does HTTP status 429 mean?", "Too Many Requests", 2, "http"),
			"The client is being rate limited. Retry-After may say when to try again."), 2, 3),
		reviewed(newCard("card-02", "Which Go keyword starts a goroutine?", "go", 1, "go"), 1, 1),
		explained(
			newCard("card-03", "What is the zero value of a Go map?", "nil", 3, "go"),
			"Reading from a nil map works; writing to one panics."),
		newCard("card-04", "What does SQLite's WAL journal mode allow?", "Readers and a writer at the same time", 3, "sqlite"),
		newCard("card-05", "How long is a classic pomodoro work phase?", "25 minutes", 1, "focus"),
		reviewed(newCard("card-06", "What does errors.As do?", "Finds the first error in the chain assignable to a target type", 4, "go"), 5, 10),
	}
}
