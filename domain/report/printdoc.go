package report

import (
	"fmt"
	"html"
	"strings"
)

// printDocumentTemplate is the literal HTML document served to the print
// surface. The body text is embedded verbatim inside a monospace block.
const printDocumentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { margin: 40px; font-family: Georgia, serif; color: #111; }
h1 { font-size: 18px; border-bottom: 1px solid #999; padding-bottom: 8px; }
pre { font-family: "Courier New", monospace; font-size: 13px; white-space: pre-wrap; }
</style>
</head>
<body>
<h1>%s</h1>
<pre>%s</pre>
</body>
</html>
`

// PrintDocument wraps printer-friendly text in a self-contained HTML
// document suitable for a print window.
func PrintDocument(title, text string) string {
	escapedTitle := html.EscapeString(strings.TrimSpace(title))
	return fmt.Sprintf(printDocumentTemplate, escapedTitle, escapedTitle, html.EscapeString(text))
}
