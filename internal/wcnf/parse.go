// Package wcnf reads the WCNF-like input format described by spec.md
// §6: a DIMACS-style header line followed by weighted clause lines,
// where clauses whose weight equals the declared "top" weight are hard
// (watched and propagated) and all others are soft (stored only).
//
// The scanning style -- a bufio.Scanner walking whitespace-separated
// integer tokens, building a literal buffer per line -- follows the
// teacher's internal/dimacs package; this package adds weight handling
// and the hard/top distinction that plain DIMACS CNF does not have.
package wcnf

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/isinghint/cdclsat/internal/sat"
)

// builder is the minimal surface Parse needs from a solver. It lets
// this package stay decoupled from the concrete sat.Solver type, the
// same way the teacher's internal/dimacs depends only on a narrow
// dimacsWritter interface.
type builder interface {
	AddClause(literals []sat.Literal) (int, bool)
	AddSoftClause(literals []sat.Literal) int
	FinalizeOriginClauses()
	Propagate() int
}

// Instance is the result of a successful Parse: the constructed solver
// plus the result of the post-parse top-level BCP pass (spec.md §6):
// sat.ResultContinue (0) if it did not conflict, or sat.ResultUnsat (20)
// if the hard clauses are already contradictory at level 0.
type Instance struct {
	Solver *sat.Solver
	Result int
}

// Parse reads the WCNF-like file at path and builds a sat.Solver sized
// to its declared variable count. It returns an error for a missing
// file or a malformed header (the five-token "p <fmt> <V> <M> <top>"
// line); spec.md §6 has the original terminate the process with exit
// code -1 on these conditions, but a library function returning an
// error and letting the caller decide is the idiomatic Go shape -- the
// caller (cmd/isingsat) is where the fatal exit belongs, mirroring the
// teacher's split between internal/dimacs.LoadDIMACS (returns error)
// and main.go (log.Fatal).
func Parse(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wcnf: opening %q: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	top, err := readHeaderAndAlloc(scanner)
	if err != nil {
		return nil, err
	}

	solver := sat.NewSolver(top.numVars)
	conflict, err := readClauses(scanner, top.weight, solver)
	if err != nil {
		return nil, err
	}
	solver.FinalizeOriginClauses()

	result := sat.ResultContinue
	if conflict || solver.Propagate() != -1 {
		result = sat.ResultUnsat
	}
	return &Instance{Solver: solver, Result: result}, nil
}

type header struct {
	numVars int
	numClauses int
	weight  int // the "top" weight marking a clause as hard
}

// readHeaderAndAlloc scans past comment lines for the "p" header line
// and parses its five whitespace-separated tokens. It mirrors the
// original's use of a five-token sscanf to validate the header.
func readHeaderAndAlloc(scanner *bufio.Scanner) (header, error) {
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if line[0] == 'c' {
			continue
		}
		if line[0] != 'p' {
			return header{}, fmt.Errorf("wcnf: expected header line, got %q", line)
		}

		fields := strings.Fields(line)
		if len(fields) != 5 {
			return header{}, fmt.Errorf("wcnf: malformed header %q: want 5 fields, got %d", line, len(fields))
		}
		numVars, err1 := strconv.Atoi(fields[2])
		numClauses, err2 := strconv.Atoi(fields[3])
		top, err3 := strconv.Atoi(fields[4])
		if err1 != nil || err2 != nil || err3 != nil {
			return header{}, fmt.Errorf("wcnf: malformed header %q", line)
		}
		return header{numVars: numVars, numClauses: numClauses, weight: top}, nil
	}
	if err := scanner.Err(); err != nil {
		return header{}, fmt.Errorf("wcnf: reading header: %w", err)
	}
	return header{}, fmt.Errorf("wcnf: header line not found")
}

// readClauses parses every remaining non-comment line as
// "<weight> <lit>+ 0" and routes it to the hard or soft arena depending
// on whether weight equals top. It reports conflict = true if any hard
// clause was rejected as an immediate contradiction (e.g. two opposing
// unit clauses), since that case never reaches the trail for a later
// Propagate call to catch.
func readClauses(scanner *bufio.Scanner, top int, b builder) (conflict bool, err error) {
	litBuffer := make([]sat.Literal, 0, 32)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == 'c' {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		weight, err := strconv.Atoi(fields[0])
		if err != nil {
			return false, fmt.Errorf("wcnf: malformed weight in line %q: %w", line, err)
		}

		litBuffer = litBuffer[:0]
		for _, tok := range fields[1:] {
			l, err := strconv.Atoi(tok)
			if err != nil {
				return false, fmt.Errorf("wcnf: malformed literal in line %q: %w", line, err)
			}
			if l == 0 {
				break
			}
			litBuffer = append(litBuffer, sat.Literal(l))
		}

		if weight == top {
			if _, ok := b.AddClause(litBuffer); !ok {
				conflict = true
			}
		} else {
			b.AddSoftClause(litBuffer)
		}
	}
	if err := scanner.Err(); err != nil {
		return conflict, fmt.Errorf("wcnf: reading clauses: %w", err)
	}
	return conflict, nil
}
