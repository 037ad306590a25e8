package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	sift "github.com/georgefloros/sift-go"
	"github.com/georgefloros/sift-go/pkg/logging"
)

// newMatchCmd creates the match command.
func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match <query> <document>",
		Short: "Test a single JSON document against a query",
		Long: `Match compiles the query and evaluates one document against it,
printing true or false.`,
		Args: cobra.ExactArgs(2),
		Example: `  sift match '{"age":{"$gte":21}}' '{"age":32}'
  sift match '{"tags":{"$all":["go"]}}' '{"tags":["go","cli"]}'`,
		RunE: runMatch,
	}

	return cmd
}

func runMatch(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	q, err := decodeJSON(args[0])
	if err != nil {
		return fmt.Errorf("invalid query JSON: %w", err)
	}
	doc, err := decodeJSON(args[1])
	if err != nil {
		return fmt.Errorf("invalid document JSON: %w", err)
	}

	compiled, err := compileQuery(q, logger)
	if err != nil {
		return err
	}

	ok, err := compiled.Match(doc)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ok)
	return nil
}

// decodeJSON parses one JSON value, keeping numbers as json.Number so the
// engine can preserve the int/double distinction.
func decodeJSON(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// compileQuery applies the persistent flags to one compilation.
func compileQuery(q any, logger *logging.Logger) (*sift.Compiled, error) {
	opts := []sift.Option{sift.WithLogger(engineLogger(logger))}
	if noWhere {
		opts = append(opts, sift.WithoutWhere())
	}
	return sift.Compile(q, opts...)
}
