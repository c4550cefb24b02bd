package enrich

import (
	"fmt"
	"strings"

	"techscout/internal/lookup"
)

const enhancementPromptTemplate = `You are building an entry for a technology catalog. Produce structured data about the technology "%s".

%sRespond with ONLY a JSON object matching this schema exactly:
{
  "description": "one concise paragraph describing what it is and what it is used for",
  "category": "one of: frontend, backend, database, mobile, devops, language, framework, library, tool",
  "ai_explanation": "a beginner-friendly explanation in two or three sentences",
  "project_suitability": ["short phrases naming project types it suits"],
  "learning_difficulty": {
    "label": "one of: beginner, intermediate, advanced",
    "stars": [true, true, false, false, false],
    "description": "one sentence on the learning curve"
  },
  "logo_url": "direct URL to an SVG logo, or empty string",
  "learning_resources": [
    {"url": "https://...", "type": "one of: documentation, tutorial, video, book", "title": "resource title"}
  ]
}`

// buildEnhancementPrompt assembles the model prompt from whatever context
// the earlier stages managed to gather. Both links and page content are
// optional; the prompt degrades to the bare name.
func buildEnhancementPrompt(name string, info lookup.Info, pageContent string) string {
	var context strings.Builder
	if info.Homepage != "" {
		fmt.Fprintf(&context, "Official homepage: %s\n", info.Homepage)
	}
	if info.Repo != "" {
		fmt.Fprintf(&context, "Source repository: %s\n", info.Repo)
	}
	if pageContent != "" {
		fmt.Fprintf(&context, "Homepage content (markdown):\n%s\n", pageContent)
	}
	if context.Len() > 0 {
		context.WriteString("\n")
	}
	return fmt.Sprintf(enhancementPromptTemplate, name, context.String())
}
