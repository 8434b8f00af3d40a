package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	textcharset "github.com/baditaflorin/go_text_charset"
)

// fileResult is the outcome for one input file.
type fileResult struct {
	Path   string             `json:"path"`
	Size   int64              `json:"size"`
	Report textcharset.Report `json:"report"`
	Err    error              `json:"-"`
	Error  string             `json:"error,omitempty"`
}

// detectFiles inspects every path with at most jobs files open at once.
// Results keep the order of paths. Per-file failures are recorded in the
// result; only cancellation aborts the run.
func detectFiles(ctx context.Context, d *textcharset.Detector, paths []string, jobs int) ([]fileResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]fileResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = detectFile(d, path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func detectFile(d *textcharset.Detector, path string) fileResult {
	res := fileResult{Path: path}

	f, err := os.Open(path)
	if err != nil {
		return res.fail(err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return res.fail(err)
	}
	if info.IsDir() {
		return res.fail(fmt.Errorf("%s is a directory", path))
	}
	res.Size = info.Size()
	res.Report = d.Detect(f)
	return res
}

func (r fileResult) fail(err error) fileResult {
	r.Err = err
	r.Error = err.Error()
	return r
}

// writeResults prints one line (or one JSON object) per file.
func writeResults(w io.Writer, results []fileResult, asJSON, verbose bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		for _, r := range results {
			if !verbose {
				r.Report.Diagnostics = nil
			}
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}

	for _, r := range results {
		if r.Err != nil {
			if _, err := fmt.Fprintf(w, "%s: error: %v\n", r.Path, r.Err); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s: %s (%s, sampled %s)\n",
			r.Path, r.Report.Encoding, humanize.Bytes(uint64(r.Size)), humanize.Bytes(uint64(r.Report.SampleSize))); err != nil {
			return err
		}
		if verbose {
			for _, line := range r.Report.Diagnostics {
				if _, err := fmt.Fprintf(w, "    %s\n", line); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// summarize turns per-file failures into the command's exit status.
func summarize(results []fileResult, failOnUnknown bool) error {
	var failed, unknown int
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
		case r.Report.Encoding == textcharset.EncodingUnknown:
			unknown++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be read", failed, len(results))
	}
	if failOnUnknown && unknown > 0 {
		return fmt.Errorf("%d of %d files have an unrecognised encoding", unknown, len(results))
	}
	return nil
}
