// Command medisync-check runs an interaction check against a local data directory
// and prints the report as JSON.
//
//	medisync-check [-data dir] [-pretty] drug...
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/giygas/medisync-api/checker"
	"github.com/giygas/medisync-api/data"
	"github.com/giygas/medisync-api/datasets"
)

var defaultDrugs = []string{"Ibuprofen", "Warfarin", "Digoxin"}

type errorOutput struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Drug  string `json:"drug,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("medisync-check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	defaultDir := os.Getenv("DATA_DIR")
	if defaultDir == "" {
		defaultDir = "data"
	}
	dataDir := fs.String("data", defaultDir, "directory holding the dataset files")
	pretty := fs.Bool("pretty", false, "indent the JSON output")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	drugs := fs.Args()
	if len(drugs) == 0 {
		drugs = defaultDrugs
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	bundle, err := datasets.LoadAll(ctx, *dataDir)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load datasets from %s: %v\n", *dataDir, err)
		return 1
	}

	c := checker.NewFromStore(data.NewDataContainer(bundle, *dataDir))
	report, err := c.CheckInteractions(drugs, nil, nil)
	if err != nil {
		out := errorOutput{Error: err.Error()}
		var checkErr *checker.CheckError
		if errors.As(err, &checkErr) {
			out.Kind = string(checkErr.Kind)
			out.Drug = checkErr.Drug
		}
		writeJSON(stdout, out, *pretty)
		return 1
	}

	if err := writeJSON(stdout, report, *pretty); err != nil {
		fmt.Fprintf(stderr, "failed to write report: %v\n", err)
		return 1
	}
	return 0
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
