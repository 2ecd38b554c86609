package street

import "math"

// DefaultWalkSpeed is the walking speed on the street, in px/s.
const DefaultWalkSpeed = 380.0

// Step is the outcome of one MoveAlongStreet call.
type Step struct {
	S       float64
	Reached bool
}

// MoveAlongStreet advances arc-length currentS toward targetS at a constant
// speed for dtMs milliseconds. It knows nothing about path bounds; callers
// clamp targetS first.
//
// Non-finite inputs leave the position unchanged and never report arrival.
// A non-positive speed or dt is a no-op that reports arrival only when
// already on target. Otherwise the step snaps onto the target once it is
// within reach, so the position never overshoots.
func MoveAlongStreet(currentS, targetS, speedPxPerSec, dtMs float64) Step {
	if !finite(currentS) || !finite(targetS) || !finite(speedPxPerSec) || !finite(dtMs) {
		return Step{S: currentS}
	}
	if speedPxPerSec <= 0 || dtMs <= 0 {
		return Step{S: currentS, Reached: currentS == targetS}
	}
	delta := targetS - currentS
	step := speedPxPerSec * dtMs / 1000
	if math.Abs(delta) <= step {
		return Step{S: targetS, Reached: true}
	}
	if delta < 0 {
		step = -step
	}
	return Step{S: currentS + step}
}
