// Command isingsat drives the CDCL engine in internal/sat against a
// WCNF-like instance, optionally steering its first decisions with an
// externally supplied continuous relaxation vector. It replaces the
// teacher's bare flag-based main.go with a Cobra command, grounded in
// the pack's own cmd/aleutian usage of spf13/cobra.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/isinghint/cdclsat/internal/metrics"
	"github.com/isinghint/cdclsat/internal/sat"
	"github.com/isinghint/cdclsat/internal/wcnf"
)

var (
	flagThreshold   float64
	flagIsingFile   string
	flagMetricsAddr string
	flagCPUProfile  string
	flagMemProfile  string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "isingsat [instance.wcnf]",
		Short: "CDCL SAT solver steered by an external continuous relaxation",
		Args:  cobra.ExactArgs(1),
		RunE:  runSolve,
	}

	root.Flags().Float64Var(&flagThreshold, "threshold", 0,
		"activity threshold at or below which Decide traps back to the caller")
	root.Flags().StringVar(&flagIsingFile, "ising", "",
		"path to a JSON array of per-variable continuous hint values")
	root.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "",
		"if set, serve Prometheus metrics on this address (e.g. :9090) while solving")
	root.Flags().StringVar(&flagCPUProfile, "cpuprofile", "", "write a pprof CPU profile to this path")
	root.Flags().StringVar(&flagMemProfile, "memprofile", "", "write a pprof heap profile to this path")

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func runSolve(cmd *cobra.Command, args []string) error {
	instanceFile := args[0]

	if flagCPUProfile != "" {
		f, err := os.Create(flagCPUProfile)
		if err != nil {
			return fmt.Errorf("isingsat: creating cpu profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("isingsat: starting cpu profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	inst, err := wcnf.Parse(instanceFile)
	if err != nil {
		return fmt.Errorf("isingsat: could not parse instance: %w", err)
	}
	s := inst.Solver

	collector := metrics.NewCollector(prometheus.DefaultRegisterer)
	s.Hooks = collector

	if flagMetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: flagMetricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("isingsat: metrics server stopped: %v", err)
			}
		}()
	}

	if flagThreshold != 0 {
		s.SetThreshold(flagThreshold)
	}

	if inst.Result == sat.ResultUnsat {
		fmt.Println("c status: UNSAT (conflict found during parse)")
		return nil
	}

	if flagIsingFile != "" {
		hint, err := readIsingHint(flagIsingFile)
		if err != nil {
			return fmt.Errorf("isingsat: could not read ising hint: %w", err)
		}
		if err := s.FromIsing(hint); err != nil {
			return fmt.Errorf("isingsat: %w", err)
		}
	}

	t := time.Now()
	status := s.SolveLimited()
	for status == sat.ResultTrap {
		status = s.SolveLimited()
	}
	elapsed := time.Since(t)

	fmt.Printf("c variables:  %d\n", s.NumVariables())
	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
	fmt.Printf("c status:     %s\n", statusString(status))
	if status == sat.ResultSAT {
		printModel(s)
	}

	if flagMemProfile != "" {
		f, err := os.Create(flagMemProfile)
		if err != nil {
			return fmt.Errorf("isingsat: creating mem profile: %w", err)
		}
		defer f.Close()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("isingsat: writing mem profile: %w", err)
		}
	}

	return nil
}

// printModel prints the satisfying assignment in the conventional SAT
// solver "v <lit>... 0" form, plus a summary count of how many
// variables landed positive, exercising Literal.IsPositive rather than
// re-deriving sign from the raw {-1,0,1} Model() values by hand.
func printModel(s *sat.Solver) {
	model := s.Model()
	lits := make([]sat.Literal, len(model))
	positive := 0
	for i, val := range model {
		v := i + 1
		if val >= 0 {
			lits[i] = sat.Literal(v)
		} else {
			lits[i] = sat.Literal(-v)
		}
		if lits[i].IsPositive() {
			positive++
		}
	}

	fmt.Printf("c positive:   %d/%d\n", positive, len(lits))

	var sb strings.Builder
	sb.WriteString("v")
	for _, l := range lits {
		sb.WriteByte(' ')
		sb.WriteString(l.String())
	}
	sb.WriteString(" 0")
	fmt.Println(sb.String())
}

func statusString(result int) string {
	switch result {
	case sat.ResultSAT:
		return "SAT"
	case sat.ResultUnsat:
		return "UNSAT"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", result)
	}
}

// readIsingHint reads a per-variable continuous hint vector from path.
// It accepts either a JSON array ("[0.3, -1.2, ...]") or a whitespace-
// separated list of floats, so a caller can pipe a relaxation solver's
// raw output straight in without reformatting it.
func readIsingHint(path string) ([]float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var vals []float64
		if err := json.Unmarshal(raw, &vals); err != nil {
			return nil, fmt.Errorf("parsing JSON hint vector: %w", err)
		}
		return vals, nil
	}

	fields := strings.Fields(trimmed)
	vals := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing hint value %q: %w", f, err)
		}
		vals = append(vals, v)
	}
	return vals, nil
}
