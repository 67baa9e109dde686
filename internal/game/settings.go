package game

import "time"

// Advance drivers. Exactly one is active per deployment: either the session
// auto-advances after ResultsDelay, or the host drives it with NEXT_QUESTION.
// In auto mode NEXT_QUESTION still works as a manual override that cancels the
// pending timer, so the two can never double-fire.
const (
	AdvanceAuto = "auto"
	AdvanceHost = "host"
)

// Settings holds per-deployment session tuning.
type Settings struct {
	// AdvanceMode selects the driver that moves from results to the next
	// question: AdvanceAuto or AdvanceHost.
	AdvanceMode string

	// ResultsDelay is how long results stay on screen before auto-advancing.
	ResultsDelay time.Duration

	// AnswerGrace is added to each question's time limit to absorb network
	// delivery of answers sent just before the client-side clock ran out.
	AnswerGrace time.Duration

	// Retention is how long a finished session stays resolvable before its
	// pin is released.
	Retention time.Duration

	// DefaultTimeLimit is applied to questions without one, in seconds.
	DefaultTimeLimit int
}

func DefaultSettings() Settings {
	return Settings{
		AdvanceMode:      AdvanceAuto,
		ResultsDelay:     8 * time.Second,
		AnswerGrace:      500 * time.Millisecond,
		Retention:        60 * time.Second,
		DefaultTimeLimit: 20,
	}
}
