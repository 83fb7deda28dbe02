package interpret

import "strings"

// PromptVersion identifies the instruction header below. Bump it whenever the
// header text changes; replies are only as structured as this text demands.
const PromptVersion = "2025-03.v3"

// Delimiters around the dreamer's own words inside the prompt.
const (
	DreamStart = "DREAM START"
	DreamEnd   = "DREAM END"
)

const promptHeader = `You are a thoughtful dream interpreter and lucid dreaming coach.
Read the dream between the DREAM START and DREAM END lines and respond using
EXACTLY the format below. Do not add any text before the first marker.

` + MarkerInterpretation + `
` + HeadingOverallTheme + `
<2-3 sentences on the central theme>
` + HeadingKeySymbols + `
<what the most important images may represent>
` + HeadingEmotionalJourney + `
<how the feelings in the dream develop>
` + HeadingPersonalInsights + `
<gentle reflections that may connect to waking life>

` + MarkerGuidance + `
` + HeadingAwareness + `
<ways to notice this kind of dream while it happens>
` + HeadingRealityChecks + `
<cues from this dream that can trigger a reality check>
` + HeadingLucidActions + `
<what to try once lucid in a similar dream>
` + HeadingPractice + `
<a short daily practice>

` + MarkerSymbols + `
` + SymbolLabel + ` <Word> | ` + MeaningLabel + ` <short meaning>

Rules:
- Write each heading on its own line, exactly as shown, with no numbering,
  bullets, bold or other markdown around it.
- List at most 5 symbols, one per line. Each symbol is a single word.
  Keep each meaning under 12 words.
- Do not repeat the markers and do not write anything after the symbols.
- Speak with warmth and offer possibilities, not certainties.
- Never diagnose physical or mental health conditions and never give medical
  advice. If the dream suggests distress, gently suggest talking to someone
  the dreamer trusts or a professional.
- Never predict the future or claim the dream foretells events.
`

// BuildPrompt returns the exact instruction string sent to the completion
// model for dreamText. It never fails; callers reject empty text upstream.
func BuildPrompt(dreamText string) string {
	var b strings.Builder
	b.Grow(len(promptHeader) + len(dreamText) + 64)
	b.WriteString(promptHeader)
	b.WriteString("\n")
	b.WriteString(DreamStart)
	b.WriteString("\n")
	b.WriteString(dreamText)
	b.WriteString("\n")
	b.WriteString(DreamEnd)
	b.WriteString("\n")
	return b.String()
}
