package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const replHelp = `g1 interactive REPL

Commands:
  limit <n>   Set the maximum number of answers printed per query (0 = default)
  help        Show this help message
  exit / quit Exit the REPL

Any other input is parsed as a G1 query and run against the store, e.g.:
  reachable(X,Y) :- edge(X,Y,_). reachable(X,Y) :- edge(X,Z,_),reachable(Z,Y). ?- reachable("a",Y).
`

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive query REPL against the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		eng, err := openEngine(cfg)
		if err != nil {
			return err
		}
		defer eng.Close()

		limit := 0
		scanner := bufio.NewScanner(os.Stdin)
		fmt.Println("g1 — stratified Datalog over a graph of facts")
		fmt.Println(`Type "help" for available commands.`)
		fmt.Println()

		for {
			fmt.Print("g1> ")
			if !scanner.Scan() {
				return nil
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			switch {
			case line == "exit" || line == "quit":
				return nil
			case line == "help":
				fmt.Print(replHelp)
			case strings.HasPrefix(line, "limit "):
				var n int
				if _, err := fmt.Sscanf(line, "limit %d", &n); err != nil {
					fmt.Fprintf(os.Stderr, "usage: limit <n>\n")
					continue
				}
				limit = n
				fmt.Printf("limit set to %d\n", limit)
			default:
				res, err := eng.Query(cmd.Context(), line, limit)
				if err != nil {
					fmt.Fprintf(os.Stderr, "query error: %v\n", err)
					continue
				}
				printAnswers(os.Stdout, res)
			}
		}
	},
}
