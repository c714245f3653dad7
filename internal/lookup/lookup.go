// Package lookup runs one query term through the local cache and the remote dictionary.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/at-ishikawa/dictcc/internal/dictionary"
	"github.com/at-ishikawa/dictcc/internal/display"
)

//go:generate mockgen -source=lookup.go -destination=../mocks/lookup/mock_lookup.go -package=mock_lookup

// Fetcher retrieves the raw page at a URL.
type Fetcher interface {
	FetchHTML(ctx context.Context, url string) ([]byte, error)
}

// Store is the local record cache.
type Store interface {
	QueryTerm(term string) ([]string, error)
	Merge(records []dictionary.Record) error
}

// Reporter shows progress and problems to the user.
type Reporter interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Fail(format string, args ...any)
}

// Source describes where remote pages are looked up.
type Source struct {
	SearchURL  string
	QueryParam string
}

type Orchestrator struct {
	store    Store
	fetcher  Fetcher
	reporter Reporter
	output   io.Writer
	source   Source
}

func NewOrchestrator(store Store, fetcher Fetcher, reporter Reporter, output io.Writer, source Source) *Orchestrator {
	return &Orchestrator{
		store:    store,
		fetcher:  fetcher,
		reporter: reporter,
		output:   output,
		source:   source,
	}
}

// Lookup prints the cached and the remote results for term and caches new
// remote records. Every failure is reported and processing of the term goes
// on where it can; the returned error joins what went wrong.
func (o *Orchestrator) Lookup(ctx context.Context, term string) error {
	var errs []error

	o.reporter.Info("running local query for %q", term)
	lines, err := o.store.QueryTerm(term)
	if err != nil {
		o.reporter.Fail("local query failed: %v", err)
		errs = append(errs, err)
	} else if err := o.print(display.RenderLines(lines)); err != nil {
		errs = append(errs, err)
	}

	o.reporter.Info("running remote query for %q", term)
	records, err := o.remote(ctx, term)
	if err != nil {
		o.reporter.Fail("remote query failed: %v", err)
		errs = append(errs, err)
	}
	if len(records) == 0 {
		o.reporter.Warn("no remote results for %q", term)
		return errors.Join(errs...)
	}

	if err := o.print(display.Render(records)); err != nil {
		errs = append(errs, err)
	}
	if err := o.store.Merge(records); err != nil {
		o.reporter.Fail("updating the cache failed: %v", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (o *Orchestrator) remote(ctx context.Context, term string) ([]dictionary.Record, error) {
	searchURL, err := dictionary.SearchURL(o.source.SearchURL, o.source.QueryParam, term)
	if err != nil {
		return nil, fmt.Errorf("dictionary.SearchURL > %w", err)
	}

	body, err := o.fetcher.FetchHTML(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("fetcher.FetchHTML > %w", err)
	}

	pair, err := dictionary.Extract(body)
	if err != nil {
		return nil, fmt.Errorf("dictionary.Extract > %w", err)
	}
	records := pair.Records()
	slog.Default().Debug("extracted remote records",
		"term", term,
		"left", len(pair.Left),
		"right", len(pair.Right),
		"records", len(records))
	return records, nil
}

func (o *Orchestrator) print(lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(o.output, line); err != nil {
			return fmt.Errorf("fmt.Fprintln > %w", err)
		}
	}
	return nil
}
