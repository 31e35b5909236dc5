package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"sleighwatch/internal/compliance"
	"sleighwatch/internal/config"
	"sleighwatch/internal/drafting"
	"sleighwatch/internal/feed"
	"sleighwatch/internal/flight"
	"sleighwatch/internal/logging"
	"sleighwatch/internal/validation"
	"sleighwatch/internal/world"
)

// frameInterval is the animation cadence (~30fps).
const frameInterval = 33 * time.Millisecond

// Model is the main model for the sleighwatch interface. Everything it
// owns is mutated only inside Update: the frame timer, the interrupt
// scheduler, the drafting stream and the validation reply all arrive as
// messages on the single bubbletea loop.
type Model struct {
	cfg    *config.Config
	styles Styles

	// Core state
	controller *flight.Controller
	session    *compliance.Session
	events     *feed.Feed

	// Collaborators
	validator *validation.Client

	// UI components
	feedView viewport.Model
	input    textarea.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	width, height int
	lastFrame     time.Time

	// Drafting stream state. One outstanding request at a time; the
	// channels are re-read by waitForStream until they close.
	drafting      bool
	partial       string
	streamContent <-chan string
	streamErrs    <-chan error
	cancelStream  context.CancelFunc

	validating bool
	statusErr  string
	quitting   bool
}

// NewModel wires the core components for an interactive run.
func NewModel(cfg *config.Config) Model {
	waypoints := world.Generate(cfg.Flight.WaypointCount, cfg.Flight.Seed, world.OnLand)
	events := feed.New(cfg.Flight.FeedWindow)

	params := flight.DefaultParams()
	params.Speed = cfg.Flight.Speed
	params.ArrivalRadius = cfg.Flight.ArrivalRadius
	params.MaxTickStep = cfg.Flight.MaxTickStepDuration()

	controller := flight.New(waypoints, events, params)

	session := compliance.NewSession(events)
	session.SetResetDelay(cfg.Compliance.ResetDelayDuration())

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	input := textarea.New()
	input.Placeholder = "Message compliance counsel..."
	input.SetHeight(3)
	input.CharLimit = 4000
	input.ShowLineNumbers = false

	fv := viewport.New(40, 12)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(40),
	)
	if err != nil {
		logging.Boot("glamour renderer unavailable: %v", err)
	}

	events.Addf("Sleigh departing the workshop — %d stops tonight", len(waypoints))

	return Model{
		cfg:        cfg,
		styles:     NewStyles(),
		controller: controller,
		session:    session,
		events:     events,
		validator:  validation.NewClient(cfg.Compliance.ValidationURL),
		feedView:   fv,
		input:      input,
		spinner:    sp,
		renderer:   renderer,
	}
}

// Session exposes the compliance session to the scheduler wiring in Run.
func (m Model) Session() *compliance.Session { return m.session }

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.frameCmd(), m.spinner.Tick)
}

func (m Model) frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// draftingClient resolves the lazy process-wide streaming client.
func (m Model) draftingClient() (*drafting.Client, error) {
	return drafting.Shared(drafting.Config{
		APIKey:  m.cfg.LLM.APIKey,
		BaseURL: m.cfg.LLM.BaseURL,
		Model:   m.cfg.LLM.Model,
		Timeout: m.cfg.LLM.TimeoutDuration(),
	})
}

// Run starts the interactive interface and the interrupt scheduler.
// The scheduler goroutine only posts messages; every state change runs
// on the Update loop.
func Run(cfg *config.Config) error {
	m := NewModel(cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())

	sched := compliance.NewScheduler(
		cfg.Compliance.FirstDelayDuration(),
		cfg.Compliance.IntervalDuration(),
		func() { p.Send(complianceFireMsg{}) },
	)
	sched.Start()
	defer sched.Stop()

	_, err := p.Run()
	return err
}
