package main

import (
	"context"
	goflag "flag"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/jask/runboard/internal/config"
	"github.com/jask/runboard/internal/runview"
	"github.com/jask/runboard/internal/tracking"
	"github.com/jask/runboard/internal/tui"
)

func main() {
	cmd := newRootCommand()
	defer glog.Flush()

	if err := cmd.Execute(); err != nil {
		glog.Fatalln(err)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "runboard",
		Short:         "Terminal viewer for experiment-tracking runs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	// glog registers -logtostderr, -v, -log_dir and friends on the stdlib
	// flag set; they must live on the root command to be parsed at all
	root.PersistentFlags().AddGoFlagSet(goflag.CommandLine)

	root.AddCommand(newViewCommand())
	return root
}

func newViewCommand() *cobra.Command {
	var (
		runID        string
		experimentID string
		tabName      string
		serverURL    string
	)

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the page for one run",
		Run: func(cmd *cobra.Command, args []string) {
			// both ids are required by contract; a missing one is a caller
			// bug and aborts before any UI starts
			if runID == "" || experimentID == "" {
				log.Fatalf("both --run-id and --experiment-id are required")
			}

			cfg, err := config.Load()
			if err != nil {
				log.Fatalf("config: %v", err)
			}
			if serverURL != "" {
				cfg.Server.URL = serverURL
			}

			client := tracking.New(cfg.Server.URL, time.Duration(cfg.Server.TimeoutSeconds)*time.Second)
			id := runview.Identity{RunID: runID, ExperimentID: experimentID}

			app := tui.New(context.Background(), cfg, client, id, runview.ParseTab(tabName))
			p := tea.NewProgram(app, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				fmt.Printf("error: %v\n", err)
			}
		},
	}

	cmd.Flags().StringVar(&runID, "run-id", "", "run to view (required)")
	cmd.Flags().StringVar(&experimentID, "experiment-id", "", "experiment the run belongs to (required)")
	cmd.Flags().StringVar(&tabName, "tab", "", "initial tab: overview, model-metrics, system-metrics, artifacts, traces")
	cmd.Flags().StringVar(&serverURL, "server", "", "tracking server URL (overrides config)")
	return cmd
}
