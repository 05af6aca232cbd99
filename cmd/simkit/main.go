// Command simkit runs the bundled example models against the sim package,
// the way the teacher repo's own akita CLI wraps its core library for
// manual exploration. Unlike the teacher's generator-style subcommands,
// simkit's only job is to run a model to completion (optionally traced,
// optionally monitored over HTTP) and print its output.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/syifan/goseth"

	"github.com/flowsim/desim/examples"
	"github.com/flowsim/desim/monitoring"
	"github.com/flowsim/desim/sim"
	"github.com/flowsim/desim/tracing"
)

var (
	tracePath   string
	monitorPort int
	openBrowser bool
	dumpState   bool
	seed        int64
	runUntil    float64
)

var rootCmd = &cobra.Command{
	Use:   "simkit",
	Short: "simkit runs example models built on the desim simulation kernel.",
	Long: `simkit runs example models built on the desim simulation kernel. ` +
		`It is a development aid, not part of the kernel itself.`,
	PersistentPreRun: func(*cobra.Command, []string) {
		// A missing .env is expected and not an error; only report load
		// failures for a .env that does exist but is malformed.
		if _, err := os.Stat(".env"); err == nil {
			if err := godotenv.Load(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load .env: %v\n", err)
			}
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one of the bundled example models.",
	Args:  cobra.NoArgs,
	RunE:  func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
}

func init() {
	rootCmd.PersistentFlags().StringVar(&tracePath, "trace", "",
		"record an event trace to the given SQLite file")
	rootCmd.PersistentFlags().IntVar(&monitorPort, "monitor", 0,
		"serve a live monitoring endpoint on the given port (0 disables it)")
	rootCmd.PersistentFlags().BoolVar(&openBrowser, "open", false,
		"open the monitoring endpoint in a browser once it starts")
	rootCmd.PersistentFlags().BoolVar(&dumpState, "dump-state", false,
		"serialize the model's final result to stdout (machineshop only)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 1,
		"random seed for models that use one")
	rootCmd.PersistentFlags().Float64Var(&runUntil, "until", 0,
		"stop at this virtual time instead of running to completion (bank-renege only; 0 means run to completion)")

	rootCmd.AddCommand(runCmd)
	runCmd.AddCommand(clocksCmd, carwashCmd, machineShopCmd, bankRenegeCmd, pingPongCmd, pipelineCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newScheduler builds a Scheduler wired up with an optional trace recorder
// and an optional monitoring HTTP endpoint, per the root command's
// persistent flags. The returned Monitor is nil when --monitor was not
// given.
func newScheduler() (*sim.Scheduler, *monitoring.Monitor, func()) {
	s := sim.New()
	cleanup := func() {}

	if tracePath != "" {
		recorder := tracing.NewRecorder(tracePath)
		s.AcceptHook(tracing.NewEventHook(recorder))
		cleanup = recorder.Flush
	}

	var m *monitoring.Monitor
	if monitorPort != 0 {
		m = monitoring.NewMonitor(s).WithPortNumber(monitorPort)
		url := m.StartServer()

		if openBrowser {
			if err := browser.OpenURL(url); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to open browser: %v\n", err)
			}
		}
	}

	return s, m, cleanup
}

// runUntilOrComplete runs s to completion, unless --until was given, in
// which case it stops exactly at that virtual time.
func runUntilOrComplete(s *sim.Scheduler) {
	if runUntil > 0 {
		s.RunUntil(sim.VTime(runUntil))
		return
	}

	s.Run()
}

func dumpIfRequested(v any) {
	if !dumpState {
		return
	}

	ser := goseth.NewSerializer()
	ser.SetRoot(v)
	ser.SetMaxDepth(3)

	if err := ser.Serialize(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to dump state: %v\n", err)
	}
}

var clocksCmd = &cobra.Command{
	Use:   "clocks",
	Short: "Run the clocks example: two independent periodic processes.",
	Run: func(*cobra.Command, []string) {
		s, _, cleanup := newScheduler()
		defer cleanup()

		examples.Clocks(s, os.Stdout)
		s.RunUntil(5)
		s.Shutdown()
	},
}

var carwashCmd = &cobra.Command{
	Use:   "carwash",
	Short: "Run the carwash example: a two-machine bounded resource queue.",
	Run: func(*cobra.Command, []string) {
		s, m, cleanup := newScheduler()
		defer cleanup()

		conf := examples.DefaultCarwashConfig()
		conf.Seed = seed

		machines := examples.Carwash(s, os.Stdout, conf)
		if m != nil {
			m.RegisterResource("machines", machines)
		}

		s.RunUntil(20)
		s.Shutdown()
	},
}

var bankRenegeCmd = &cobra.Command{
	Use:   "bank-renege",
	Short: "Run the bank-renege example: customers that give up if they wait too long.",
	Run: func(*cobra.Command, []string) {
		s, m, cleanup := newScheduler()
		defer cleanup()

		conf := examples.DefaultBankRenegeConfig()
		conf.Seed = seed

		counters := examples.BankRenege(s, os.Stdout, conf)
		if m != nil {
			m.RegisterResource("counters", counters)
		}

		runUntilOrComplete(s)
		s.Shutdown()
	},
}

var machineShopCmd = &cobra.Command{
	Use:   "machineshop",
	Short: "Run the machine-shop example: machines sharing a repair crew.",
	Run: func(*cobra.Command, []string) {
		s, m, cleanup := newScheduler()
		defer cleanup()

		conf := examples.DefaultMachineShopConfig()
		conf.Seed = seed

		results, repairMan := examples.MachineShop(s, conf)
		if m != nil {
			m.RegisterResource("repair-man", repairMan)
		}

		weeks := 4.0
		s.RunUntil(sim.VTime(weeks * 7 * 24 * 60))
		s.Shutdown()

		fmt.Printf("Machine shop results after %.0f weeks:\n", weeks)
		for _, r := range results {
			fmt.Printf("- Machine %d made %d parts\n", r.ID, r.PartsMade)
		}

		dumpIfRequested(results)
	},
}

var pingPongCmd = &cobra.Command{
	Use:   "pingpong",
	Short: "Run the ping-pong example: two processes handing off a value event.",
	Run: func(*cobra.Command, []string) {
		s, _, cleanup := newScheduler()
		defer cleanup()

		examples.PingPong(s, os.Stdout, 1, 2)
		s.RunUntil(8)
		s.Shutdown()
	},
}

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run the pipeline example: a bounded Store between a producer and a consumer.",
	Run: func(*cobra.Command, []string) {
		s, m, cleanup := newScheduler()
		defer cleanup()

		store := examples.Pipeline(s, os.Stdout, 1, 3, 5)
		if m != nil {
			monitoring.RegisterStore(m, "pipeline", store)
		}

		s.Run()
		s.Shutdown()
	},
}
