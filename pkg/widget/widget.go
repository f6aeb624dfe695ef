package widget

import "time"

// Schedule arms a one shot timer and returns a cancel func. The session
// provides an implementation that runs fn on the decode goroutine, tests
// swap in a manual clock.
type Schedule func(d time.Duration, fn func()) (cancel func())

// Widget colors for the fixed two state buttons.
const (
	ColorRed   = 0xFFFF0000
	ColorGreen = 0xFF00FF00
)
