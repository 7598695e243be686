// Command edrat2drat rewrites an EDRAT proof into a pure DRAT proof by
// materialising every equivalence directive's substitution, so a
// standard DRAT checker can verify the result without understanding
// equivalences (spec §4.7, §6).
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gokanren/ratsat/internal/cnf"
	"github.com/gokanren/ratsat/internal/proof"
	"github.com/gokanren/ratsat/internal/rlog"
)

var verbose bool

func main() {
	root := &cobra.Command{
		Use:           "edrat2drat <cnf-file> <edrat-file> <drat-file>",
		Short:         "Translate an EDRAT proof into a pure DRAT proof",
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log := rlog.New(verbose)
	defer log.Sync()

	cnfPath, edratPath, dratPath := args[0], args[1], args[2]

	cnfFile, err := os.Open(cnfPath)
	if err != nil {
		return errors.Wrapf(err, "edrat2drat: opening %s", cnfPath)
	}
	defer cnfFile.Close()

	problem, err := cnf.Parse(cnfFile)
	if err != nil {
		return err
	}
	log.Infow("parsed base CNF", "file", cnfPath, "vars", problem.NumVars, "clauses", problem.NumClauses)

	edratFile, err := os.Open(edratPath)
	if err != nil {
		return errors.Wrapf(err, "edrat2drat: opening %s", edratPath)
	}
	defer edratFile.Close()

	dratFile, err := os.Create(dratPath)
	if err != nil {
		return errors.Wrapf(err, "edrat2drat: creating %s", dratPath)
	}
	defer dratFile.Close()

	translator := proof.NewTranslator(problem.Clauses, dratFile)
	if err := translator.Run(proof.NewScanner(edratFile)); err != nil {
		return errors.Wrap(err, "edrat2drat: translating proof")
	}
	log.Infow("translated proof", "edrat", edratPath, "drat", dratPath)
	return nil
}
