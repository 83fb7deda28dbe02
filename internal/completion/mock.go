package completion

import (
	"context"
	"strings"
	"sync"
)

// MockReply is a well-formed reply used when no provider is configured.
const MockReply = `=== INTERPRETATION SECTION ===
Overall Theme
This dream reflects a wish for movement and change in your waking life.
Key Symbols Analysis
The central images point to something you are ready to look at more closely.
Emotional Journey
The feelings shift from uncertainty toward curiosity as the dream unfolds.
Personal Insights
Consider where you feel held back right now and what small step could open things up.
=== LUCID DREAM GUIDANCE ===
Dream Awareness Techniques
Keep a journal by your bed and write down dreams as soon as you wake.
Reality Check Triggers
When something in a dream feels impossible, pause and check your hands.
Lucid Action Suggestions
Once lucid, ask the dream what it wants to show you.
Practice Recommendations
Do three reality checks a day and repeat an intention before sleep.
=== SYMBOLS FORMAT ===
Symbol: Path | Meaning: a direction you are choosing
Symbol: Door | Meaning: a new opportunity
Symbol: Light | Meaning: clarity and hope
`

// MockClient answers every prompt with a fixed reply and records what it was
// sent. It is safe for concurrent use.
type MockClient struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

// NewMockClient returns a client that answers with MockReply.
func NewMockClient() *MockClient {
	return &MockClient{reply: MockReply}
}

// WithReply sets the reply returned by Send.
func (m *MockClient) WithReply(reply string) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reply = reply
	return m
}

// WithError makes Send fail with err.
func (m *MockClient) WithError(err error) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Send records prompt and returns the configured reply or error. It honours
// ctx cancellation.
func (m *MockClient) Send(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &Error{Kind: KindTransport, Provider: ProviderMock, Err: err}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return strings.TrimSpace(m.reply), nil
}

// Prompts returns every prompt sent so far.
func (m *MockClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}
