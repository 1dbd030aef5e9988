// Package render turns a report into README fragments: a placeholder
// substitution map, SVG graphics and text tables. It never touches the filesystem.
package render

import (
	"regexp"
	"strings"
)

// Default markers delimiting the generated block of a README.
const (
	StartMarker = "<!-- PROGRESS -->"
	EndMarker   = "<!-- END_PROGRESS -->"
)

var placeholderRe = regexp.MustCompile(`\{\{([A-Z0-9_]+)\}\}`)

// Substitute replaces every {{KEY}} in template with values[KEY].
// Placeholders without a value are left untouched.
func Substitute(template string, values map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(m string) string {
		key := m[2 : len(m)-2]
		if v, ok := values[key]; ok {
			return v
		}
		return m
	})
}

// Placeholders lists the distinct keys referenced by template, in order of first use.
func Placeholders(template string) []string {
	var keys []string
	seen := map[string]bool{}
	for _, m := range placeholderRe.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			keys = append(keys, m[1])
		}
	}
	return keys
}

// ReplaceBlock replaces everything from start to end (markers included) with
// start + content + end. When the markers are missing the block is prepended to doc.
func ReplaceBlock(doc, start, end, content string) string {
	block := start + "\n" + strings.TrimSpace(content) + "\n" + end
	i := strings.Index(doc, start)
	if i >= 0 {
		if j := strings.Index(doc[i+len(start):], end); j >= 0 {
			tail := doc[i+len(start)+j+len(end):]
			return doc[:i] + block + tail
		}
	}
	return block + "\n\n" + doc
}
