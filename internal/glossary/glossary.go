// Package glossary renders the model's "Term: Explanation" output.
package glossary

import (
	"html"
	"strings"
)

const termStyle = "color:#1e3a8a"

type Term struct {
	Term        string `json:"term"`
	Explanation string `json:"explanation"`
}

// FormatHTML renders each line of raw independently. A line containing ':'
// is split on the first one; the left side becomes an emphasized term and the
// trimmed remainder follows it. Other lines pass through. Every line ends in <br>.
func FormatHTML(raw string) string {
	var b strings.Builder

	for _, line := range strings.Split(raw, "\n") {
		term, desc, ok := strings.Cut(line, ":")
		if ok {
			b.WriteString("<b style='" + termStyle + "'>")
			b.WriteString(html.EscapeString(strings.TrimSpace(term)))
			b.WriteString("</b>: ")
			b.WriteString(html.EscapeString(strings.TrimSpace(desc)))
		} else {
			b.WriteString(html.EscapeString(line))
		}
		b.WriteString("<br>")
	}

	return b.String()
}

// Parse extracts structured terms. Lines keyed "Term" and "Explanation"
// (the layout the glossary prompt asks for) are paired; any other
// "Name: text" line is a term on its own. Lines without ':' are dropped.
func Parse(raw string) []Term {
	var terms []Term

	for _, line := range strings.Split(raw, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch {
		case key == "":
			continue
		case strings.EqualFold(key, "term"):
			if value != "" {
				terms = append(terms, Term{Term: value})
			}
		case strings.EqualFold(key, "explanation"):
			if n := len(terms); n > 0 && terms[n-1].Explanation == "" {
				terms[n-1].Explanation = value
			}
		default:
			terms = append(terms, Term{Term: key, Explanation: value})
		}
	}

	return terms
}
