package mcptools

// RecordInput is the input schema for the record_dream MCP tool.
type RecordInput struct {
	Text  string `json:"text" jsonschema-description:"The dream as told by the dreamer"`
	Title string `json:"title,omitempty" jsonschema-description:"Optional title; derived from the text when empty"`
	Mood  string `json:"mood,omitempty" jsonschema-description:"How the dreamer felt, e.g. Happy, Anxious, Peaceful"`
	Defer bool   `json:"defer,omitempty" jsonschema-description:"Save as a draft without interpreting"`
}

// RecordOutput is the output schema for the record_dream MCP tool.
type RecordOutput struct {
	Dream DreamResult `json:"dream"`
	Error string      `json:"error,omitempty"`
}

// InterpretInput is the input schema for the interpret_dream MCP tool.
type InterpretInput struct {
	ID string `json:"id" jsonschema-description:"ID of the dream to interpret"`
}

// InterpretOutput is the output schema for the interpret_dream MCP tool.
type InterpretOutput struct {
	Dream   DreamResult   `json:"dream"`
	Reading ReadingResult `json:"reading"`
}

// ShowInput is the input schema for the show_dream MCP tool.
type ShowInput struct {
	ID string `json:"id" jsonschema-description:"ID of the dream"`
}

// ShowOutput is the output schema for the show_dream MCP tool.
type ShowOutput struct {
	Dream   DreamResult    `json:"dream"`
	Text    string         `json:"text"`
	Reading *ReadingResult `json:"reading,omitempty"`
}

// ListInput is the input schema for the list_dreams MCP tool.
type ListInput struct {
	Mood       string `json:"mood,omitempty" jsonschema-description:"Only dreams with this mood"`
	DraftsOnly bool   `json:"drafts_only,omitempty" jsonschema-description:"Only dreams waiting for an interpretation"`
	StartDate  string `json:"start_date,omitempty" jsonschema-description:"ISO date lower bound (inclusive)"`
	EndDate    string `json:"end_date,omitempty" jsonschema-description:"ISO date upper bound (inclusive)"`
	Limit      int    `json:"limit,omitempty" jsonschema-description:"Maximum number of results"`
}

// ListOutput is the output schema for the list_dreams MCP tool.
type ListOutput struct {
	Dreams []DreamResult `json:"dreams"`
}

// SearchInput is the input schema for the search_dreams MCP tool.
type SearchInput struct {
	Query string `json:"query" jsonschema-description:"Words to look for in titles, moods and dream text"`
	Limit int    `json:"limit,omitempty" jsonschema-description:"Maximum number of results to return"`
}

// SearchOutput is the output schema for the search_dreams MCP tool.
type SearchOutput struct {
	Dreams []DreamResult `json:"dreams"`
}

// DreamResult is the common output format for dream-related MCP tools.
type DreamResult struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Mood    string `json:"mood"`
	Date    string `json:"date"`
	Draft   bool   `json:"draft"`
	Preview string `json:"preview"`
	Score   int    `json:"score,omitempty"`
}

// ReadingResult is the structured view of an interpretation.
type ReadingResult struct {
	Structured     bool            `json:"structured"`
	Interpretation []SectionResult `json:"interpretation"`
	Symbols        []SymbolResult  `json:"symbols"`
	Guidance       []SectionResult `json:"guidance"`
	Raw            string          `json:"raw"`
}

// SectionResult is one titled part of a reading.
type SectionResult struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// SymbolResult is one dream symbol with its meaning.
type SymbolResult struct {
	Symbol  string `json:"symbol"`
	Meaning string `json:"meaning"`
}
