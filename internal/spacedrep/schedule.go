package spacedrep

// BaseIntervals defines the expanding interval schedule in days.
// Stage 0 = first successful review.
var BaseIntervals = []int{1, 3, 7, 14, 30, 60}

// MaxStage is the highest stage index in BaseIntervals.
const MaxStage = 5

// GraduationStage is the stage at which a card graduates.
// A card graduates after climbing all 6 stages (0-5) without a lapse.
const GraduationStage = 6

// GraduatedIntervalDays is the review interval for graduated cards.
const GraduatedIntervalDays = 90

// Ratings as sent by the client, 1 (forgot) to 4 (effortless).
const (
	Again = 1
	Hard  = 2
	Good  = 3
	Easy  = 4
)

// ValidRating reports whether r is one of the four ratings.
func ValidRating(r int) bool {
	return r >= Again && r <= Easy
}

// StageFor returns the highest stage whose interval fits within days, used
// to seed cards that already carry an interval.
func StageFor(days int) int {
	stage := 0
	for i, d := range BaseIntervals {
		if d <= days {
			stage = i
		}
	}
	return stage
}

// MasteryFor labels a card by how far its interval has grown.
func MasteryFor(reviews, intervalDays int) string {
	switch {
	case reviews == 0:
		return "new"
	case intervalDays < 3:
		return "learning"
	case intervalDays < 21:
		return "young"
	case intervalDays < 90:
		return "mature"
	default:
		return "mastered"
	}
}
