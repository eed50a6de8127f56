package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/memsim/rowopen"
	"github.com/memsim/rowopen/request"
	"github.com/memsim/rowopen/rowcoord"
)

// newReplayCmd feeds a trace file of "cycle addr confidence delay" lines
// through a scheduler and prints its final statistics report, the
// offline equivalent of berti_tri.cc's per-cycle row_scheduler->tick
// wiring.
func newReplayCmd() *cobra.Command {
	var traceFile string
	var issueRate float64

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a candidate-address trace through a scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			builder, err := builderFromFlags(cmd)
			if err != nil {
				return err
			}
			sched := rowopen.New(builder.Build())

			atexit.Register(func() {
				fmt.Print(sched.Stats().Report("rowopenctl replay (final, via atexit)", uint64(sched.Size())))
			})

			f, err := os.Open(traceFile)
			if err != nil {
				return fmt.Errorf("opening trace file: %w", err)
			}
			defer f.Close()

			if err := replayTrace(f, sched, issueRate); err != nil {
				return err
			}

			fmt.Print(sched.Stats().Report("rowopenctl replay", uint64(sched.Size())))
			return nil
		},
	}

	cmd.Flags().StringVar(&traceFile, "trace", "", "path to a trace file (required)")
	cmd.Flags().Float64Var(&issueRate, "issue-rate", 0.5, "fraction of issue attempts the replay sink accepts")
	cmd.MarkFlagRequired("trace")

	return cmd
}

// replayTrace parses "cycle addr confidence delay" lines, calling
// AddRequest for each, then ticking the scheduler once per distinct
// cycle seen with a budget of 4 and a sink that accepts a fixed
// issueRate fraction of attempts deterministically (every Nth request).
func replayTrace(f *os.File, sched *rowopen.Scheduler, issueRate float64) error {
	scanner := bufio.NewScanner(f)
	var lastCycle request.Cycle
	attempts := 0

	sink := func(req request.Request) bool {
		attempts++
		threshold := 1.0
		if issueRate > 0 {
			threshold = 1.0 / issueRate
		}
		return float64(attempts%int(threshold+0.5)) == 0
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			continue
		}

		cycle, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return fmt.Errorf("parsing cycle: %w", err)
		}
		addr, err := strconv.ParseUint(strings.TrimPrefix(fields[1], "0x"), 16, 64)
		if err != nil {
			return fmt.Errorf("parsing address: %w", err)
		}
		confidence, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			return fmt.Errorf("parsing confidence: %w", err)
		}
		delay, err := strconv.ParseUint(fields[3], 10, 64)
		if err != nil {
			return fmt.Errorf("parsing delay: %w", err)
		}

		now := request.Cycle(cycle)
		sched.AddRequest(request.Request{
			Addr:       rowcoord.Address(addr),
			Confidence: uint32(confidence),
		}, now, request.Cycle(delay))

		if now != lastCycle {
			sched.Tick(lastCycle, 4, sink)
			lastCycle = now
		}
	}
	sched.Tick(lastCycle, 4, sink)
	return scanner.Err()
}
