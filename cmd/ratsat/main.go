// Command ratsat reads a DIMACS CNF file, solves it, and reports
// satisfiability, optionally writing an EDRAT proof of unsatisfiability
// or of the derived facts behind a satisfying model (spec §6).
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gokanren/ratsat/internal/cnf"
	"github.com/gokanren/ratsat/internal/proof"
	"github.com/gokanren/ratsat/internal/rlog"
	"github.com/gokanren/ratsat/internal/search"
)

var (
	edratPath string
	verbose   bool
)

func main() {
	root := &cobra.Command{
		Use:           "ratsat <cnf-file>",
		Short:         "Boolean satisfiability solver with DRAT-compatible proof output",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	root.Flags().StringVarP(&edratPath, "edrat", "e", "", "write an EDRAT proof to this path")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log := rlog.New(verbose)
	defer log.Sync()

	cnfPath := args[0]
	f, err := os.Open(cnfPath)
	if err != nil {
		return errors.Wrapf(err, "ratsat: opening %s", cnfPath)
	}
	defer f.Close()

	problem, err := cnf.Parse(f)
	if err != nil {
		return err
	}
	log.Infow("parsed CNF", "file", cnfPath, "vars", problem.NumVars, "clauses", problem.NumClauses)

	var proofOut io.Writer = io.Discard
	if edratPath != "" {
		pf, err := os.Create(edratPath)
		if err != nil {
			return errors.Wrapf(err, "ratsat: creating %s", edratPath)
		}
		defer pf.Close()
		proofOut = pf
	}
	writer := proof.NewWriter(proofOut)

	solver := search.NewSolver(problem.Clauses, writer, log)
	assignment, sat := solver.Solve()
	if err := writer.Flush(); err != nil {
		return errors.Wrap(err, "ratsat: writing proof")
	}

	if !sat {
		fmt.Println("v UNSATISFIABLE")
		return nil
	}

	fmt.Println("v SATISFIABLE")
	for _, lit := range assignment {
		fmt.Printf("%d ", int32(lit))
	}
	fmt.Println("0")
	return nil
}
