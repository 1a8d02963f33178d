package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var queryLimit int

var queryCmd = &cobra.Command{
	Use:   "query [program]",
	Short: "Run a single query against the store and print its answers",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		program, err := readProgram(args)
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		eng, err := openEngine(cfg)
		if err != nil {
			return err
		}
		defer eng.Close()

		res, err := eng.Query(cmd.Context(), program, queryLimit)
		if err != nil {
			return err
		}
		printAnswers(os.Stdout, res)
		return nil
	},
}

func init() {
	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "maximum answers to return (0 uses the configured default)")
}

func readProgram(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	var sb strings.Builder
	if _, err := sb.ReadFrom(os.Stdin); err != nil {
		return "", fmt.Errorf("reading program from stdin: %w", err)
	}
	return sb.String(), nil
}

func printAnswers(w *os.File, res *Result) {
	if len(res.Answers) == 0 {
		fmt.Fprintln(w, "(no answers)")
	}
	for _, a := range res.Answers {
		pairs := make([]string, len(a.Names))
		for i, name := range a.Names {
			pairs[i] = fmt.Sprintf("%s=%s", name, a.Values[i])
		}
		fmt.Fprintln(w, strings.Join(pairs, " "))
	}
	if res.Truncated {
		fmt.Fprintln(w, "... (truncated)")
	}
}
