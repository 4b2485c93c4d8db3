package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// schedulerCmd manages the job scheduler.
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage the job scheduler",
	Long: `Starts the scheduler daemon or triggers jobs manually.

Registered jobs:
  daily_routine - ingest + backtest, daily at 19:00

Example:
  go run ./cmd/sentiq scheduler start
  go run ./cmd/sentiq scheduler run daily_routine`,
}

var schedulerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the scheduler daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(schedulerOffline)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.withScheduler(); err != nil {
			return err
		}

		rt.scheduler.Start()
		defer rt.scheduler.Stop()

		PrintSuccess("Scheduler started")
		for _, name := range rt.scheduler.Jobs() {
			fmt.Printf("  - %s\n", name)
		}

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		return nil
	},
}

var schedulerRunCmd = &cobra.Command{
	Use:   "run [job]",
	Short: "Run a job immediately",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(schedulerOffline)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.withScheduler(); err != nil {
			return err
		}

		if err := rt.scheduler.RunJob(args[0]); err != nil {
			return err
		}

		PrintInfo(fmt.Sprintf("Job %s triggered, waiting for completion", args[0]))
		waitForHistory(rt, args[0])
		return nil
	},
}

var schedulerOffline bool

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.PersistentFlags().BoolVar(&schedulerOffline, "offline", false, "use the keyword classifier instead of the inference service")
}

// waitForHistory blocks until the triggered job lands a result.
func waitForHistory(rt *runtime, name string) {
	for {
		time.Sleep(200 * time.Millisecond)
		history, err := rt.scheduler.History(name)
		if err != nil {
			PrintError(err.Error())
			return
		}
		if latest := history.Latest(1); len(latest) > 0 {
			r := latest[0]
			if r.Success {
				PrintSuccess(fmt.Sprintf("Job %s completed in %s", name, r.Duration))
			} else {
				PrintError(fmt.Sprintf("Job %s failed: %s", name, r.Error))
			}
			return
		}
	}
}
