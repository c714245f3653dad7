package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// maxTermLength bounds one stdin line.
const maxTermLength = 1024 * 1024

// Lookuper resolves a single query term.
type Lookuper interface {
	Lookup(ctx context.Context, term string) error
}

// LookupCLI feeds query terms to a Lookuper one at a time.
// Failures of a term are reported by the Lookuper and never stop the run.
type LookupCLI struct {
	lookuper    Lookuper
	stdinReader io.Reader
}

func NewLookupCLI(lookuper Lookuper, stdinReader io.Reader) *LookupCLI {
	return &LookupCLI{
		lookuper:    lookuper,
		stdinReader: stdinReader,
	}
}

// Run looks up every term in terms, or every non-blank stdin line when terms is empty.
func (cli *LookupCLI) Run(ctx context.Context, terms []string) error {
	if len(terms) > 0 {
		for _, term := range terms {
			cli.lookup(ctx, term)
		}
		return nil
	}

	scanner := bufio.NewScanner(cli.stdinReader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxTermLength)
	for scanner.Scan() {
		term := strings.TrimSpace(scanner.Text())
		if term == "" {
			continue
		}
		cli.lookup(ctx, term)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner.Scan > %w", err)
	}
	return nil
}

func (cli *LookupCLI) lookup(ctx context.Context, term string) {
	if err := cli.lookuper.Lookup(ctx, term); err != nil {
		slog.Default().Debug("lookup finished with errors", "term", term, "error", err)
	}
}
