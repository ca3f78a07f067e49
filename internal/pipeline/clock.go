package pipeline

import "github.com/jonboulle/clockwork"

// clock times each conversion run and stamps the last-success gauge.
var clock = clockwork.NewRealClock()

// SetClock replaces the clock behind Result.Elapsed and the last-success
// metric; nil restores wall time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
