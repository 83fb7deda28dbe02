// Package interpret owns the response contract between dreamctl and the
// completion model: the prompt that asks for a marker-delimited reply and the
// parser that recovers a structured Reading from whatever comes back.
package interpret

// Section markers, in the order a compliant reply emits them.
const (
	MarkerInterpretation = "=== INTERPRETATION SECTION ==="
	MarkerGuidance       = "=== LUCID DREAM GUIDANCE ==="
	MarkerSymbols        = "=== SYMBOLS FORMAT ==="
)

// Labels that may prefix the two halves of a symbol line.
const (
	SymbolLabel  = "Symbol:"
	MeaningLabel = "Meaning:"
	symbolSep    = "|"
)

// MaxDisplaySymbols is how many symbols the prompt asks for and the
// presenter shows. The parser itself reports every qualifying line.
const MaxDisplaySymbols = 5

// Sub-section headings recognised inside the interpretation block.
const (
	HeadingOverallTheme     = "Overall Theme"
	HeadingKeySymbols       = "Key Symbols Analysis"
	HeadingEmotionalJourney = "Emotional Journey"
	HeadingPersonalInsights = "Personal Insights"
)

// Sub-section headings recognised inside the guidance block.
const (
	HeadingAwareness     = "Dream Awareness Techniques"
	HeadingRealityChecks = "Reality Check Triggers"
	HeadingLucidActions  = "Lucid Action Suggestions"
	HeadingPractice      = "Practice Recommendations"
)

var interpretationHeadings = []string{
	HeadingOverallTheme,
	HeadingKeySymbols,
	HeadingEmotionalJourney,
	HeadingPersonalInsights,
}

var guidanceHeadings = []string{
	HeadingAwareness,
	HeadingRealityChecks,
	HeadingLucidActions,
	HeadingPractice,
}

// InterpretationHeadings returns the whitelist for the interpretation block.
func InterpretationHeadings() []string {
	return append([]string(nil), interpretationHeadings...)
}

// GuidanceHeadings returns the whitelist for the guidance block.
func GuidanceHeadings() []string {
	return append([]string(nil), guidanceHeadings...)
}
