package dream

import (
	"fmt"
	"strings"
)

// Mood is how the dreamer felt, from a closed set of labels.
type Mood string

const (
	MoodHappy      Mood = "Happy"
	MoodExcited    Mood = "Excited"
	MoodPeaceful   Mood = "Peaceful"
	MoodAnxious    Mood = "Anxious"
	MoodScared     Mood = "Scared"
	MoodWorried    Mood = "Worried"
	MoodSad        Mood = "Sad"
	MoodLonely     Mood = "Lonely"
	MoodDetermined Mood = "Determined"
	MoodConfident  Mood = "Confident"
)

var moods = []Mood{
	MoodHappy, MoodExcited, MoodPeaceful,
	MoodAnxious, MoodScared, MoodWorried,
	MoodSad, MoodLonely,
	MoodDetermined, MoodConfident,
}

// Moods returns the closed set of moods in display order.
func Moods() []Mood {
	out := make([]Mood, len(moods))
	copy(out, moods)
	return out
}

// ParseMood resolves a label to a Mood, ignoring case and surrounding space.
func ParseMood(s string) (Mood, error) {
	s = strings.TrimSpace(s)
	for _, m := range moods {
		if strings.EqualFold(string(m), s) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mood %q (want one of %s)", s, moodList())
}

func moodList() string {
	names := make([]string, len(moods))
	for i, m := range moods {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// Tone groups moods for display.
type Tone string

const (
	TonePositive Tone = "positive"
	ToneUneasy   Tone = "uneasy"
	ToneLow      Tone = "low"
	ToneDriven   Tone = "driven"
	ToneNeutral  Tone = "neutral"
)

// Tone returns the display group of the mood.
func (m Mood) Tone() Tone {
	switch m {
	case MoodHappy, MoodExcited, MoodPeaceful:
		return TonePositive
	case MoodAnxious, MoodScared, MoodWorried:
		return ToneUneasy
	case MoodSad, MoodLonely:
		return ToneLow
	case MoodDetermined, MoodConfident:
		return ToneDriven
	default:
		return ToneNeutral
	}
}
