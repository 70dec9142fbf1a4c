// Command fitresults inspects the fit-result store configured through
// HOLOFIT_* environment variables and prints records as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"holofit/internal/core"
)

var exitFunc = os.Exit

func main() {
	exitFunc(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fitresults", flag.ContinueOnError)
	fs.SetOutput(stderr)
	id := fs.String("id", "", "print a single fit result by id")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	store, err := core.OpenPersistentStore(core.NewDefaultRulesEngine())
	if err != nil {
		fmt.Fprintf(stderr, "open store: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")

	if *id != "" {
		record, ok := store.GetResult(*id)
		if !ok {
			fmt.Fprintf(stderr, "fit result %s not found\n", *id)
			return 1
		}
		if err := enc.Encode(record); err != nil {
			fmt.Fprintf(stderr, "encode: %v\n", err)
			return 1
		}
		return 0
	}

	if err := enc.Encode(store.ListResults()); err != nil {
		fmt.Fprintf(stderr, "encode: %v\n", err)
		return 1
	}
	return 0
}
