// Package tutor picks the lines spoken by Otto, the octopus tutor persona.
package tutor

import (
	"fmt"
	"math/rand/v2"
	"time"
)

type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
)

func TimeOfDayAt(t time.Time) TimeOfDay {
	switch h := t.Hour(); {
	case h < 12:
		return Morning
	case h < 18:
		return Afternoon
	default:
		return Evening
	}
}

var greetings = map[TimeOfDay][]string{
	Morning: {
		"Good morning, %s! Otto here, ready to count on all 8 tentacles!",
		"Rise and shine, %s! Let's make some math magic today!",
		"Morning, %s! Otto has fresh problems brewing!",
	},
	Afternoon: {
		"Hey %s! Otto has been swimming around finding the best problems for you!",
		"Afternoon, %s! Ready to flex those brain muscles?",
		"Hi %s! Otto's 8 arms are ready to help you tackle some problems!",
	},
	Evening: {
		"Evening, %s! Otto never sleeps when there's math to be done!",
		"Hey there, %s! Otto is here to light up your brain with math!",
		"Good evening, %s! Let's make tonight mathematically magnificent!",
	},
}

// Greeting welcomes name according to the hour of now.
func Greeting(name string, now time.Time) string {
	if name == "" {
		name = "friend"
	}
	return fmt.Sprintf(pick(greetings[TimeOfDayAt(now)]), name)
}

var (
	streak10 = []string{
		"TEN IN A ROW?! My tentacles are doing a happy dance!",
		"INCREDIBLE! At this rate you'll be teaching ME math!",
		"UNSTOPPABLE! Your brain is faster than I can swim!",
	}
	streak5 = []string{
		"Five correct! You're making Otto proud! Keep riding this wave!",
		"That's a solid streak! Your confidence must be through the reef!",
		"FIVE! You're in the zone! Don't stop now!",
	}
	streak3 = []string{
		"Three in a row! You're building momentum like a rolling wave!",
		"Nice streak! I can see the math gears turning!",
		"THREE! We have a math genius on board!",
	}
	score100 = []string{
		"Over 100 points! Otto's 3 hearts are swelling with pride!",
		"Look at that score! You're a certified math superstar!",
		"Riding high on a wave of success! Keep it up, champion!",
	}
	score50 = []string{
		"You're doing great! Otto believes in you 100%!",
		"Your progress is making waves! Keep swimming forward!",
		"Looking good! Every problem you solve makes you stronger!",
	}
	starter = []string{
		"Every expert was once a beginner! You've got this!",
		"Take your time! Math is a journey, not a race!",
		"Otto's here to help! We'll tackle these together, one tentacle at a time!",
		"Believe in yourself! You're capable of amazing things!",
	}
)

// Motivation favours streak milestones (10, 5, 3) over score milestones
// (100, 50).
func Motivation(streak, score int) string {
	switch {
	case streak >= 10:
		return pick(streak10)
	case streak >= 5:
		return pick(streak5)
	case streak >= 3:
		return pick(streak3)
	case score >= 100:
		return pick(score100)
	case score >= 50:
		return pick(score50)
	default:
		return pick(starter)
	}
}

var (
	cheers = []string{
		"YES! That's exactly right! You nailed it!",
		"CORRECT! My tentacles are giving you a standing ovation!",
		"Brilliant! You've got the mathematical touch!",
		"Perfect! Your brain is sharper than a sea urchin's spines!",
		"BINGO! You're a natural at this!",
		"Spectacular! You're making math look easy!",
	}
	consolations = []string{
		"Not quite, but mistakes are just learning in disguise!",
		"Close one! Every mistake brings you closer to mastery!",
		"Almost! Otto knows you'll get the next one!",
		"That's okay! Even my 9 brains get confused sometimes!",
		"Oops! But that's how we learn! Let's tackle another one!",
	}
)

// Encouragement reacts to a verdict. A streak milestone is appended to
// correct answers.
func Encouragement(correct bool, streak int) string {
	if !correct {
		return pick(consolations)
	}
	line := pick(cheers)
	if streak >= 3 {
		line += " " + Motivation(streak, 0)
	}
	return line
}

var hintIntros = []string{
	"Psst! Otto has a hint for you...",
	"Need a nudge? Let me share a secret...",
	"Here's a little help from one of my brains...",
	"Let Otto shed some light on this...",
}

func HintIntro() string {
	return pick(hintIntros)
}

func pick(lines []string) string {
	return lines[rand.IntN(len(lines))]
}
