package document

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameRe = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces an uploaded file name to a safe ASCII base name.
// Accented letters fold to their base letter. It returns "" when nothing
// usable is left.
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)
	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameRe.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// CandidateName derives a display name from a resume file name:
// "jane_doe.pdf" becomes "Jane Doe".
func CandidateName(filename string) string {
	base := filename
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[:i]
	}
	return titleCase(strings.ReplaceAll(base, "_", " "))
}

// PlaceholderEmail builds the stand-in address used when a resume carries no
// extractable email.
func PlaceholderEmail(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", ".") + "@email.com"
}

func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		prevLetter = false
		b.WriteRune(r)
	}
	return b.String()
}
