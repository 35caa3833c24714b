// Package prompt holds the instruction templates sent to the language models.
package prompt

import (
	"fmt"
	"strings"

	"github.com/BerylCAtieno/legal-document-summarizer/internal/utils"
)

// ExcerptLength is the number of characters of extracted text shared by all
// three analysis prompts.
const ExcerptLength = 3000

type Prompts struct {
	Summary  string
	Glossary string
	Verdict  string
}

const summaryTemplate = `
You are a legal assistant. Read the following legal document and generate a comprehensive summary.

Include: parties involved, key facts, legal issues, arguments, court observations, and likely outcome.

Document:
%s
`

const glossaryTemplate = `
Extract and explain all legal terms, laws, or references. Format:

Term: ...
Explanation: ...

Document:
%s
`

const verdictTemplate = `
Based on the document, predict the likely verdict in 2–3 sentences using standard legal reasoning.

Document:
%s
`

const questionTemplate = `
You are a legal expert. Answer the question below using only the document provided.

Question:
%s

Document:
%s
`

// Excerpt returns the first ExcerptLength characters of text, cut without
// regard for word or sentence boundaries.
func Excerpt(text string) string {
	return utils.Truncate(text, ExcerptLength)
}

// Build interpolates excerpt verbatim into the summary, glossary and verdict templates.
func Build(excerpt string) Prompts {
	return Prompts{
		Summary:  fmt.Sprintf(summaryTemplate, excerpt),
		Glossary: fmt.Sprintf(glossaryTemplate, excerpt),
		Verdict:  fmt.Sprintf(verdictTemplate, excerpt),
	}
}

// Question builds the question-answering prompt over the whole document text.
func Question(documentText, question string) string {
	return fmt.Sprintf(questionTemplate, strings.TrimSpace(question), strings.TrimSpace(documentText))
}
