package summarize

import (
	"fmt"
	"strings"
)

// minTextChars is the shortest transcript worth sending to the LLM.
const minTextChars = 50

// errInsufficientContent marks a transcript too short to summarize; it is
// reported through the Summary payload, not as a Go error.
const errInsufficientContent = "insufficient_content"

var languageInstructions = map[string]string{
	"en": "Respond in English.",
	"pt": "Responda em português brasileiro.",
	"es": "Responda en español.",
}

func languageInstruction(lang string) string {
	if instr, ok := languageInstructions[lang]; ok {
		return instr
	}
	return languageInstructions["en"]
}

var promptTemplates = map[Kind]string{
	KindExecutive: `You are an assistant specialized in concise, professional executive summaries.

%s

Write an executive summary of the following text, highlighting the most important points clearly and directly.
%s

Summary format:
- One or at most two paragraphs
- Professional, objective language
- Focus on key results and decisions

Text to summarize:
%s

Executive summary:`,

	KindTechnical: `You are a technical expert writing detailed documentation.

%s

Analyze the following text and write a complete technical summary covering:
1. Technical concepts mentioned
2. Technologies and tools
3. Processes and methodologies
4. Problems and solutions
%s

Text to analyze:
%s

Technical summary:`,

	KindBulletPoints: `List the main points of the text.

%s

Format:
- Use bullet points
- Keep each point short and clear
- Order by importance
%s

Text:
%s

Main points:`,

	KindAcademic: `You are an academic researcher writing a formal abstract.

%s

Write an academic summary following this structure:
1. Introduction / context
2. Main points
3. Methodology (when applicable)
4. Conclusions
%s

Use formal language and name the important concepts.

Text:
%s

Academic summary:`,

	KindSimplified: `Explain the content in very simple terms, as if teaching someone with no technical background.

%s

Use:
- Plain, clear language
- Analogies where they help
- No jargon
%s

Text:
%s

Simple explanation:`,

	KindComprehensive: `Produce a complete, detailed analysis of the text.

%s

Cover:
1. Overall summary
2. Main topics discussed
3. Important details
4. Context and implications
5. Conclusions and insights
%s

Text to analyze:
%s

Full analysis:`,
}

// buildPrompt assembles the LLM prompt for one request. An unset Kind falls
// back to the executive template; ParseKind has already rejected unknowns.
func buildPrompt(text string, opts Options) string {
	tmpl, ok := promptTemplates[opts.Kind]
	if !ok {
		tmpl = promptTemplates[KindExecutive]
	}

	var preamble strings.Builder
	preamble.WriteString(languageInstruction(opts.Language))
	if opts.Context != "" {
		preamble.WriteString("\nAdditional context: ")
		preamble.WriteString(opts.Context)
	}

	var lengthInstr string
	if opts.MaxWords > 0 {
		lengthInstr = fmt.Sprintf("The summary must be at most %d words.", opts.MaxWords)
	}

	return fmt.Sprintf(tmpl, preamble.String(), lengthInstr, text)
}

// insufficientContent builds the short-circuit payload for texts under
// minTextChars.
func insufficientContent(opts Options) *Summary {
	return &Summary{
		Text: "Text too short to summarize.",
		Kind: effectiveKind(opts.Kind),
		Err:  errInsufficientContent,
	}
}

func effectiveKind(k Kind) Kind {
	if k == "" {
		return KindExecutive
	}
	return k
}
