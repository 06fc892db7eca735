package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/hzerrad/chronowheel/internal/crontab"
	"github.com/hzerrad/chronowheel/internal/cronx"
	"github.com/hzerrad/chronowheel/internal/dispatch"
	"github.com/spf13/cobra"
)

// RunCommand wraps cobra.Command with run-specific functionality: it loads a
// crontab file and drives it live through the hashed wheel scheduler until
// interrupted.
type RunCommand struct {
	*cobra.Command
	file      string
	tick      time.Duration
	wheelSize int
}

func init() {
	rootCmd.AddCommand(newRunCommand().Command)
}

func newRunCommand() *RunCommand {
	rc := &RunCommand{}
	rc.Command = &cobra.Command{
		Use:   "run",
		Args:  cobra.NoArgs,
		RunE:  rc.runRun,
		Short: "Run the jobs in a crontab file live, against the hashed wheel scheduler",
		Long: `Loads a crontab file and schedules every job it contains through the
hashed wheel timer, printing each fire, cancellation, and re-arm event as it
happens. Runs until interrupted (Ctrl-C / SIGTERM), at which point any
unfired jobs are reported before exiting.

Examples:
  chronowheel run --file /etc/crontab
  chronowheel run --file jobs.cron --tick 100ms --wheel-size 512`,
	}

	rc.Command.Flags().StringVar(&rc.file, "file", "", "Path to the crontab file to run (required)")
	rc.Command.Flags().DurationVar(&rc.tick, "tick", 500*time.Millisecond, "Wheel tick duration")
	rc.Command.Flags().IntVar(&rc.wheelSize, "wheel-size", 256, "Number of buckets in the hashed wheel (rounded up to a power of two)")
	_ = rc.Command.MarkFlagRequired("file")

	return rc
}

func (rc *RunCommand) runRun(cmd *cobra.Command, _ []string) error {
	reader := crontab.NewReader()
	jobs, err := reader.ReadFile(rc.file)
	if err != nil {
		return fmt.Errorf("failed to read crontab %q: %w", rc.file, err)
	}

	sched := dispatch.NewScheduler(rc.tick, rc.wheelSize)

	out := cmd.OutOrStdout()
	scheduled := 0
	for _, job := range jobs {
		if !job.Valid {
			fmt.Fprintf(out, "skipping line %d (%s): %s\n", job.LineNumber, job.Expression, job.Error)
			continue
		}

		expr, err := classicToExpression(job.Expression)
		if err != nil {
			fmt.Fprintf(out, "skipping line %d (%s): %v\n", job.LineNumber, job.Expression, err)
			continue
		}

		id := jobID(job)
		command := job.Command
		line := job.LineNumber
		task := dispatch.Task{
			ID:   id,
			Cron: expr,
			Run: func(context.Context) {
				fmt.Fprintf(out, "[%s] fired line %d: %s\n", time.Now().Format(time.RFC3339), line, command)
			},
		}

		if err := sched.Add(task); err != nil {
			fmt.Fprintf(out, "skipping line %d (%s): %v\n", job.LineNumber, job.Expression, err)
			continue
		}
		scheduled++
	}

	fmt.Fprintf(out, "scheduled %d job(s) from %s, tick=%s wheel-size=%d (Ctrl-C to stop)\n",
		scheduled, rc.file, rc.tick, rc.wheelSize)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	unfired := sched.Shutdown()
	fmt.Fprintf(out, "stopped; %d job(s) had not yet fired\n", len(unfired))
	return nil
}

// classicToExpression adapts a classic 5-field crontab expression to the
// 6-field grammar the wheel scheduler speaks. The bridging itself
// (seconds-field prefix, day-of-month/day-of-week "?" exclusivity, numeric
// day-of-week convention shift) lives in cronx.BridgeClassicExpression so
// internal/diff's renderer can reuse it for its own next-fire hints without
// importing this package.
func classicToExpression(classic string) (string, error) {
	return cronx.BridgeClassicExpression(classic)
}

// jobID derives a stable-enough identifier for a crontab line: its line
// number if nonzero, otherwise a fresh UUID for jobs synthesized outside a
// file (kept for callers that build dispatch.Task values without a crontab
// line to key off of).
func jobID(job *crontab.Job) string {
	if job.LineNumber > 0 {
		return "line-" + strconv.Itoa(job.LineNumber)
	}
	return uuid.NewString()
}
