// Package breach implements the breach/trigger sub-machine driven by each
// committed metric round: {NoBreach, Breaching(since), Triggered}.
//
// Grounded on the breach/trigger update block that runs once per committed
// metric round in the reference driver: compare the effective reading
// against the threshold, latch a start time, then test the duration and
// latch triggered permanently.
package breach

// Status labels a round's breach transition for the trace.
type Status string

const (
	StatusNone     Status = "none"
	StatusStart    Status = "start"
	StatusContinue Status = "continue"
)

// Update applies one committed metric round to the breach sub-machine and
// returns the new breach_start_time (nil when not breaching), the new
// triggered flag, and the trace status label.
//
// now must already reflect any clock rounds committed earlier in the same
// envelope. triggered is monotonic: once true it is never cleared.
func Update(breachStartTime *uint64, triggered bool, now, effectiveV, thresholdZ, durationD uint64) (*uint64, bool, Status) {
	if effectiveV < thresholdZ {
		if breachStartTime == nil {
			since := now
			breachStartTime = &since
		}
	} else {
		breachStartTime = nil
	}

	if breachStartTime != nil && now >= *breachStartTime && now-*breachStartTime >= durationD {
		triggered = true
	}

	status := StatusNone
	if breachStartTime != nil {
		if triggered {
			status = StatusContinue
		} else {
			status = StatusStart
		}
	}

	return breachStartTime, triggered, status
}
