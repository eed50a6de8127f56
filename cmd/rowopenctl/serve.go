package main

import (
	"encoding/json"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"sync"

	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/spf13/cobra"

	"github.com/memsim/rowopen"
	"github.com/memsim/rowopen/stats"
)

// newServeCmd runs a scheduler behind an HTTP server that exposes its
// statistics and row-access histogram for live inspection, the role the
// teacher's monitoring web server plays for a running simulation.
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a scheduler's live statistics over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			builder, err := builderFromFlags(cmd)
			if err != nil {
				return err
			}
			sched := rowopen.New(builder.Build())

			router := newStatsRouter(sched)
			log.Printf("rowopenctl serve: listening on %s", addr)
			return http.ListenAndServe(addr, router)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8099", "HTTP listen address")
	return cmd
}

type statsResponse struct {
	Stats           stats.Stats `json:"stats"`
	StillQueued     uint64      `json:"still_queued"`
	AverageDelay    float64     `json:"average_delay"`
	SuccessRate     float64     `json:"issue_success_rate"`
	ProcessRSSBytes uint64      `json:"process_rss_bytes,omitempty"`
	ProcessCPUPct   float64     `json:"process_cpu_percent,omitempty"`
}

// newStatsRouter wires a gorilla/mux router exposing /stats and
// /stats/histogram, plus the standard library's pprof handlers mounted
// under /debug/pprof for profiling the serving process.
func newStatsRouter(sched *rowopen.Scheduler) *mux.Router {
	var mu sync.Mutex

	router := mux.NewRouter()

	router.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		s := sched.Stats()
		still := uint64(sched.Size())
		mu.Unlock()

		resp := statsResponse{
			Stats:        s,
			StillQueued:  still,
			AverageDelay: s.AverageDelay(),
			SuccessRate:  s.IssueSuccessRate(),
		}
		if rss, cpuPct, err := processSelfStats(); err == nil {
			resp.ProcessRSSBytes = rss
			resp.ProcessCPUPct = cpuPct
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}).Methods(http.MethodGet)

	router.HandleFunc("/stats/histogram", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hist := sched.RowAccessHistogram()
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if hist == nil {
			json.NewEncoder(w).Encode(map[string]string{"error": "row history tracking disabled"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"open_buckets":   hist.OpenHist.Buckets(),
			"access_buckets": hist.AccessHist.Buckets(),
		})
	}).Methods(http.MethodGet)

	debug := router.PathPrefix("/debug/pprof").Subrouter()
	debug.HandleFunc("/", pprof.Index)
	debug.HandleFunc("/cmdline", pprof.Cmdline)
	debug.HandleFunc("/profile", pprof.Profile)
	debug.HandleFunc("/symbol", pprof.Symbol)
	debug.HandleFunc("/trace", pprof.Trace)

	return router
}

// processSelfStats reports this process's resident memory and its
// average CPU usage since it started via gopsutil, matching the teacher's monitoring package's
// use of process-level resource stats alongside simulation statistics.
func processSelfStats() (rssBytes uint64, cpuPercent float64, err error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, 0, err
	}
	mem, err := proc.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpu, err := proc.CPUPercent()
	if err != nil {
		return mem.RSS, 0, nil
	}
	return mem.RSS, cpu, nil
}
