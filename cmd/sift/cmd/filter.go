package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/georgefloros/sift-go/pkg/logging"
)

// newFilterCmd creates the filter command.
func newFilterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter <query> [file]",
		Short: "Filter a stream of JSON documents by a query",
		Long: `Filter reads newline-delimited JSON documents from a file or stdin and
writes the matching lines to stdout. The first $where script error aborts
the stream with a nonzero exit.`,
		Args: cobra.RangeArgs(1, 2),
		Example: `  cat users.ndjson | sift filter '{"age":{"$gte":21}}'
  sift filter '{"status":"active"}' users.ndjson`,
		RunE: runFilter,
	}

	return cmd
}

func runFilter(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	trace := logging.NewTraceContext()
	runLog := logger.WithComponent("filter").With(slog.String("request_id", trace.RequestID))

	q, err := decodeJSON(args[0])
	if err != nil {
		return fmt.Errorf("invalid query JSON: %w", err)
	}

	in := cmd.InOrStdin()
	if len(args) == 2 {
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	compiled, err := compileQuery(q, logger)
	if err != nil {
		return err
	}

	matched, scanned, err := filterStream(compiled, in, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	runLog.Debug("filter run finished",
		slog.Int("scanned", scanned),
		slog.Int("matched", matched),
	)
	return nil
}

// filterStream applies the compiled query line by line, echoing matching
// lines with surrounding whitespace trimmed. Blank lines are skipped and are
// not counted in the line numbers of error messages.
func filterStream(compiled matcher, in io.Reader, out io.Writer) (matched, scanned int, err error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		scanned++

		doc, err := decodeJSON(line)
		if err != nil {
			return matched, scanned, fmt.Errorf("line %d: invalid JSON: %w", scanned, err)
		}
		ok, err := compiled.Match(doc)
		if err != nil {
			return matched, scanned, fmt.Errorf("line %d: %w", scanned, err)
		}
		if ok {
			matched++
			if _, err := fmt.Fprintln(out, line); err != nil {
				return matched, scanned, err
			}
		}
	}
	return matched, scanned, scanner.Err()
}

// matcher is the slice of the compiled-filter API filterStream needs.
type matcher interface {
	Match(doc any) (bool, error)
}
