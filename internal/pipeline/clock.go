package pipeline

import "github.com/jonboulle/clockwork"

// clock stamps prepared datasets. New copies it into each Pipeline, which also
// drives its refresh ticker from it.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used by Prepare and by pipelines created
// afterwards. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
