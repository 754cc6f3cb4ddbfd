package quality

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/net/html"

	"github.com/UsatovPavel/RIID/internal/errors"
	"github.com/UsatovPavel/RIID/internal/fileutil"
)

type checkstyleResult struct {
	Version string           `xml:"version,attr"`
	Files   []checkstyleFile `xml:"file"`
}

type checkstyleFile struct {
	Name   string              `xml:"name,attr"`
	Errors []checkstyleFinding `xml:"error"`
}

type checkstyleFinding struct {
	Line     int    `xml:"line,attr"`
	Column   int    `xml:"column,attr"`
	Severity string `xml:"severity,attr"`
	Message  string `xml:"message,attr"`
	Source   string `xml:"source,attr"`
}

// RenderCheckstyle converts the Checkstyle XML report at src into an HTML
// page at dst. Output that does not parse as a Checkstyle report is kept
// verbatim inside a <pre> block.
func RenderCheckstyle(src, dst string) error {
	data, err := os.ReadFile(src) //nolint:gosec // report path under the build directory
	if err != nil {
		return errors.Wrapf(err, "read %s", src)
	}

	var b bytes.Buffer
	b.WriteString("<html>\n<head><title>Checkstyle</title></head>\n<body>\n")

	var result checkstyleResult
	if err := xml.Unmarshal(data, &result); err != nil {
		b.WriteString("<pre>" + html.EscapeString(string(data)) + "</pre>\n")
	} else {
		writeCheckstyleTable(&b, result)
	}

	b.WriteString("</body>\n</html>\n")
	return fileutil.AtomicWrite(dst, b.Bytes())
}

func writeCheckstyleTable(b *bytes.Buffer, r checkstyleResult) {
	total := 0
	for _, f := range r.Files {
		total += len(f.Errors)
	}

	fmt.Fprintf(b, "<p>Checkstyle %s: %d file(s), %d finding(s)</p>\n",
		html.EscapeString(r.Version), len(r.Files), total)
	if total == 0 {
		return
	}

	b.WriteString("<table>\n<tr><th>File</th><th>Line</th><th>Severity</th><th>Message</th><th>Check</th></tr>\n")
	for _, f := range r.Files {
		name := filepath.Base(f.Name)
		for _, e := range f.Errors {
			loc := strconv.Itoa(e.Line)
			if e.Column > 0 {
				loc += ":" + strconv.Itoa(e.Column)
			}
			fmt.Fprintf(b, "<tr><td title=\"%s\">%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
				html.EscapeString(f.Name), html.EscapeString(name), loc,
				html.EscapeString(e.Severity), html.EscapeString(e.Message), html.EscapeString(e.Source))
		}
	}
	b.WriteString("</table>\n")
}
