package document

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

var (
	paragraphEndRe = regexp.MustCompile(`</w:p>|<w:br/>|<w:tab/>`)
	xmlTagRe       = regexp.MustCompile(`<[^>]+>`)
)

func extractDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return plainTextFromDocumentXML(doc.Editable().GetContent()), nil
}

// plainTextFromDocumentXML flattens WordprocessingML into text, one line per
// paragraph.
func plainTextFromDocumentXML(content string) string {
	content = paragraphEndRe.ReplaceAllStringFunc(content, func(m string) string {
		if m == "<w:tab/>" {
			return "\t"
		}
		return "\n"
	})
	content = xmlTagRe.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}
