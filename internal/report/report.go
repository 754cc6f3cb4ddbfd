// Package report concatenates the quality reports into a single HTML page.
package report

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/UsatovPavel/RIID/internal/constants"
	"github.com/UsatovPavel/RIID/internal/fileutil"
)

const header = `<html>
<head>
  <meta charset="UTF-8">
  <title>Riid combined reports</title>
  <style>
    body { font-family: Arial, sans-serif; margin: 1.5rem; }
    h1 { margin-bottom: 0.5rem; }
    h2 { margin-top: 2rem; }
    .missing { color: #888; }
    .section { border-top: 1px solid #ccc; padding-top: 1rem; }
  </style>
</head>
<body>
<h1>Combined quality reports</h1>`

const footer = `</body>
</html>`

// Aggregator builds the combined report.
type Aggregator struct {
	reportsDir string
	reports    []string
	stdout     io.Writer
}

// NewAggregator creates an Aggregator over reports, given relative to
// reportsDir. The output path is announced on stdout.
func NewAggregator(reportsDir string, reports []string, stdout io.Writer) *Aggregator {
	if stdout == nil {
		stdout = io.Discard
	}
	return &Aggregator{reportsDir: reportsDir, reports: reports, stdout: stdout}
}

// OutputPath returns the absolute path of the combined report.
func (a *Aggregator) OutputPath() string {
	out := filepath.Join(a.reportsDir, constants.CombinedReport)
	if abs, err := filepath.Abs(out); err == nil {
		return abs
	}
	return out
}

// Render builds the combined document. Missing or unreadable reports are
// rendered as a placeholder.
func (a *Aggregator) Render(ctx context.Context) []byte {
	log := zerolog.Ctx(ctx)

	var b bytes.Buffer
	b.WriteString(header)
	for _, rel := range a.reports {
		b.WriteString(`<div class="section">`)
		b.WriteString("<h2>" + html.EscapeString(rel) + "</h2>")

		data, err := os.ReadFile(filepath.Join(a.reportsDir, filepath.FromSlash(rel))) //nolint:gosec // fixed report paths
		if err != nil {
			if !os.IsNotExist(err) {
				log.Warn().Err(err).Str("report", rel).Msg("report unreadable")
			}
			b.WriteString(`<p class="missing">Report not found: ` + html.EscapeString(rel) + `</p>`)
		} else {
			b.Write(ExtractBody(data))
		}

		b.WriteString("</div>")
	}
	b.WriteString(footer)
	return b.Bytes()
}

// Aggregate renders and writes the combined report. A write failure is
// logged and returned as a warning; it never fails the build.
func (a *Aggregator) Aggregate(ctx context.Context) (warning error) {
	out := a.OutputPath()
	if err := fileutil.AtomicWrite(out, a.Render(ctx)); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", out).Msg("combined report not written")
		return fmt.Errorf("write %s: %w", out, err)
	}
	_, _ = fmt.Fprintf(a.stdout, "Concatenated report generated at %s\n", out)
	return nil
}
