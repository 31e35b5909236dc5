package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"sleighwatch/cmd/sleighwatch/ui"
	"sleighwatch/internal/compliance"
	"sleighwatch/internal/config"
	"sleighwatch/internal/feed"
	"sleighwatch/internal/flight"
	"sleighwatch/internal/logging"
	"sleighwatch/internal/memo"
	"sleighwatch/internal/world"
)

const version = "0.3.0"

var (
	// Global flags
	configPath string
	verbose    bool
	apiKey     string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sleighwatch",
	Short: "sleighwatch - sleigh autopilot with compliance interrupts",
	Long: `sleighwatch flies the sleigh between delivery stops on a 2D night map.

Every so often a regulatory agency grounds the flight and a compliance
memo has to be drafted, validated and filed before the route resumes.
Drafting streams from a hosted LLM collaborator.

Run without arguments to start the interactive interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real env vars win either way.
		_ = godotenv.Load()

		if err := logging.Initialize(verbose); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if apiKey != "" {
			cfg.LLM.APIKey = apiKey
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Boot("starting interactive flight (version %s)", version)
		return ui.Run(cfg)
	},
}

// simulateCmd runs the flight headless: no terminal UI, the compliance
// lifecycle is walked automatically and the event feed goes to stdout.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a headless flight, auto-filing compliance memos",
	RunE: func(cmd *cobra.Command, args []string) error {
		duration, err := cmd.Flags().GetDuration("duration")
		if err != nil {
			return err
		}
		return runSimulation(cfg, duration, cmd.OutOrStdout())
	},
}

// parseCmd parses a memo from a file (or stdin) and prints the sections.
var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a drafted memo into its sections",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw []byte
		var err error
		if len(args) == 1 {
			raw, err = os.ReadFile(args[0])
		} else {
			raw, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("failed to read memo: %w", err)
		}

		printMemo(cmd.OutOrStdout(), memo.Parse(string(raw)))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sleighwatch %s\n", version)
	},
}

// runSimulation drives the same controller, scheduler and session the
// interactive interface uses, serialized on one select loop instead of
// the bubbletea Update loop.
func runSimulation(cfg *config.Config, duration time.Duration, out io.Writer) error {
	waypoints := world.Generate(cfg.Flight.WaypointCount, cfg.Flight.Seed, world.OnLand)
	// Oversized window so entries are never trimmed out from under the
	// printing cursor.
	events := feed.New(len(waypoints)*10 + 1000)

	params := flight.DefaultParams()
	params.Speed = cfg.Flight.Speed
	params.ArrivalRadius = cfg.Flight.ArrivalRadius
	params.MaxTickStep = cfg.Flight.MaxTickStepDuration()
	controller := flight.New(waypoints, events, params)

	session := compliance.NewSession(events)
	session.SetResetDelay(cfg.Compliance.ResetDelayDuration())

	fires := make(chan struct{}, 1)
	sched := compliance.NewScheduler(
		cfg.Compliance.FirstDelayDuration(),
		cfg.Compliance.IntervalDuration(),
		func() {
			select {
			case fires <- struct{}{}:
			default:
			}
		},
	)
	sched.Start()
	defer sched.Stop()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if duration > 0 {
		deadline = time.After(duration)
	}

	logging.Boot("simulating %d stops", len(waypoints))
	last := time.Now()
	printed := 0
	var resumeAt time.Time

	for {
		select {
		case <-deadline:
			printed = flushFeed(out, events, printed)
			fmt.Fprintf(out, "-- time limit reached, %d stops remaining\n", controller.Remaining())
			return nil

		case <-fires:
			if session.TryStart(controller.Remaining()) {
				// Headless flights have no operator, so counsel's work is
				// stood in for by a canned filing.
				session.BeginDrafting()
				session.UpdateDraft(cannedMemo(session.Agency()))
				session.MarkReady()
				session.Submit()
				resumeAt = time.Now().Add(session.ResetDelay())
			}

		case now := <-ticker.C:
			if !resumeAt.IsZero() && now.After(resumeAt) {
				session.Reset()
				resumeAt = time.Time{}
			}
			controller.SetSuspended(session.Active())
			controller.Tick(now.Sub(last))
			last = now

			printed = flushFeed(out, events, printed)
			if controller.Remaining() == 0 {
				fmt.Fprintln(out, "-- route complete")
				return nil
			}
		}
	}
}

// flushFeed prints entries appended since the last flush and returns
// the new cursor.
func flushFeed(out io.Writer, events *feed.Feed, printed int) int {
	entries := events.Entries()
	for _, e := range entries[printed:] {
		fmt.Fprintf(out, "%s %s\n", e.At.Format("15:04:05"), e.Text)
	}
	return len(entries)
}

func cannedMemo(agency string) string {
	return strings.Join([]string{
		"PART I: ISSUE",
		fmt.Sprintf("Unscheduled low-altitude transit flagged by %s.", agency),
		"",
		"PART II: FACTS",
		"Sleigh was mid-route between delivery stops when the alert fired.",
		"",
		"PART III: ANALYSIS",
		"Transit falls under the seasonal delivery exemption.",
		"",
		"PART IV: RECOMMENDED ACTIONS",
		"Resume route. No corrective action required.",
		"",
		"REFERENCES",
		"- Seasonal Delivery Exemption, cl. 7",
	}, "\n")
}

func printMemo(out io.Writer, m memo.Memo) {
	section := func(label, body string) {
		fmt.Fprintf(out, "%s\n%s\n\n", label, strings.TrimSpace(body))
	}
	if m.Empty() {
		fmt.Fprintln(out, "(empty memo)")
		return
	}
	section("PART I — ISSUE", m.Issue)
	section("PART II — FACTS", m.Facts)
	section("PART III — ANALYSIS", m.Analysis)
	section("PART IV — RECOMMENDED ACTIONS", m.Actions)
	fmt.Fprintln(out, "REFERENCES")
	if len(m.References) == 0 {
		fmt.Fprintln(out, "(none)")
		return
	}
	for _, ref := range m.References {
		fmt.Fprintf(out, "- %s\n", ref)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default ~/.sleighwatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "drafting collaborator API key (overrides config)")

	simulateCmd.Flags().Duration("duration", 0, "stop after this long (0 = run to route completion)")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
