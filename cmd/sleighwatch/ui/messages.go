package ui

import "time"

// frameMsg drives one animation tick of the autopilot.
type frameMsg time.Time

// complianceFireMsg is posted by the interrupt scheduler goroutine via
// Program.Send; the actual gating happens inside Update, on the single
// UI thread.
type complianceFireMsg struct{}

// streamDeltaMsg carries one content delta from the drafting stream.
type streamDeltaMsg string

// streamDoneMsg signals normal end of the drafting stream.
type streamDoneMsg struct{}

// streamErrMsg carries a drafting stream failure, surfaced inline in
// the transcript rather than as a fatal error.
type streamErrMsg struct{ err error }

// validationResultMsg carries the validation collaborator's reply.
type validationResultMsg struct {
	reply string
	err   error
}

// sessionResetMsg fires after the submitted acknowledgment window.
type sessionResetMsg struct{}
