package assistant

import (
	_ "embed"
	"text/template"
)

//go:embed prompts/ask.md
var askPromptRaw string

// AskTemplate is the parsed prompt for market questions. It receives
// .Context (the text briefing) and .Question.
var AskTemplate = template.Must(template.New("ask").Parse(askPromptRaw))
