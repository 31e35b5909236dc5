// Package compliance drives the interrupt workflow that pauses the
// autopilot: a scheduler raises events, a session walks them through
// alert -> drafting -> ready -> submitted -> idle.
package compliance

import (
	"fmt"
	"math/rand"
	"time"

	"sleighwatch/internal/feed"
	"sleighwatch/internal/logging"
	"sleighwatch/internal/memo"
	"sleighwatch/internal/transcript"
)

// Stage is the compliance session lifecycle stage.
type Stage int

const (
	StageIdle Stage = iota
	StageAlert
	StageDrafting
	StageReady
	StageSubmitted
)

// String returns the display name for each stage.
func (s Stage) String() string {
	names := []string{"idle", "alert", "drafting", "ready", "submitted"}
	if int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// DefaultResetDelay is the submitted->idle acknowledgment window. It
// exists so the UI can show a brief "submitted" state before resetting.
const DefaultResetDelay = 1600 * time.Millisecond

// Session is the single process-wide compliance session. Illegal
// transitions are silent no-ops so duplicate UI triggers are harmless.
// Not safe for concurrent use; every caller runs on the owning loop.
type Session struct {
	stage      Stage
	agency     string
	tr         *transcript.Transcript
	draft      memo.Memo
	feed       *feed.Feed
	rng        *rand.Rand
	resetDelay time.Duration
}

// NewSession returns an idle session writing status lines to f.
func NewSession(f *feed.Feed) *Session {
	return &Session{
		tr:         transcript.New(),
		feed:       f,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		resetDelay: DefaultResetDelay,
	}
}

// SetResetDelay overrides the submitted->idle window.
func (s *Session) SetResetDelay(d time.Duration) {
	if d > 0 {
		s.resetDelay = d
	}
}

// Stage returns the current lifecycle stage.
func (s *Session) Stage() Stage { return s.stage }

// Agency returns the regulator that raised the active event, or "".
func (s *Session) Agency() string { return s.agency }

// Active reports whether a compliance event is in progress. The
// autopilot is suspended for the whole window, including the submitted
// acknowledgment; it resumes only at the submitted->idle reset.
func (s *Session) Active() bool { return s.stage != StageIdle }

// Transcript returns the live conversation for the active event.
func (s *Session) Transcript() *transcript.Transcript { return s.tr }

// Draft returns the memo parsed from the latest assistant text.
func (s *Session) Draft() memo.Memo { return s.draft }

// ResetDelay returns how long the submitted acknowledgment is shown.
func (s *Session) ResetDelay() time.Duration { return s.resetDelay }

// TryStart activates a new compliance event. It succeeds only when the
// session is idle and deliveries remain; otherwise it reports false
// with no effect, and the scheduler silently waits for the next fire.
func (s *Session) TryStart(remaining int) bool {
	if s.stage != StageIdle {
		logging.Compliance("event skipped: session already %s", s.stage)
		return false
	}
	if remaining <= 0 {
		logging.Compliance("event skipped: no deliveries remaining")
		return false
	}

	agencies := Agencies()
	s.agency = agencies[s.rng.Intn(len(agencies))]
	s.stage = StageAlert
	s.draft = memo.Memo{}
	s.tr.Clear()
	s.tr.Append(transcript.RoleAssistant, incidentMessage(s.agency))

	s.feed.Addf("⚠ COMPLIANCE ALERT — %s has grounded the sleigh", s.agency)
	logging.Compliance("event started agency=%q remaining=%d", s.agency, remaining)
	return true
}

// BeginDrafting moves alert -> drafting. It does not send any message;
// the operator drives the conversation from here.
func (s *Session) BeginDrafting() bool {
	if s.stage != StageAlert {
		return false
	}
	s.stage = StageDrafting
	s.feed.Addf("Drafting session opened with counsel for %s", s.agency)
	logging.Compliance("stage alert -> drafting")
	return true
}

// UpdateDraft re-parses draft text into the structured memo. Parsing is
// idempotent, so calling once per stream delta is fine.
func (s *Session) UpdateDraft(text string) {
	s.draft = memo.Parse(text)
}

// MarkReady moves drafting -> ready after a successful validation.
func (s *Session) MarkReady() bool {
	if s.stage != StageDrafting {
		return false
	}
	s.stage = StageReady
	s.feed.Addf("Memo validated — ready to file with %s", s.agency)
	logging.Compliance("stage drafting -> ready")
	return true
}

// Submit files the memo. Accepted only from ready; submitting an
// unvalidated draft is a no-op. The transcript clears immediately, so
// the caller must cancel any in-flight draft stream before calling.
func (s *Session) Submit() bool {
	if s.stage != StageReady {
		return false
	}
	s.stage = StageSubmitted
	s.tr.Clear()
	s.feed.Addf("✓ Compliance case submitted to %s", s.agency)
	logging.Compliance("stage ready -> submitted")
	return true
}

// Reset tears the session down to idle, clearing agency, transcript and
// draft. The owning loop calls this ResetDelay after Submit.
func (s *Session) Reset() {
	if s.stage == StageIdle {
		return
	}
	logging.Compliance("stage %s -> idle", s.stage)
	s.stage = StageIdle
	s.agency = ""
	s.draft = memo.Memo{}
	s.tr.Clear()
	s.feed.Addf("Sleigh cleared for departure")
}

func incidentMessage(agency string) string {
	return fmt.Sprintf(
		"URGENT — %s has flagged tonight's flight plan and grounded the sleigh "+
			"pending a formal compliance memo. I can draft the filing with you: "+
			"describe the incident, or ask me to start the standard four-part memo "+
			"(issue, facts, analysis, recommended actions) with references.",
		agency)
}
