package agent

import "github.com/cloudwego/eino/schema"

// Mode controls where the pipeline stops.
type Mode string

const (
	ModeResearch  Mode = "research"  // stop after the researcher
	ModeSummary   Mode = "summary"   // stop after the summarizer
	ModeVisualize Mode = "visualize" // run through the visualizer
	ModeFull      Mode = "full"      // run everything (default)
)

// ParseMode maps a raw mode string to a Mode, defaulting to ModeFull for
// empty or unknown values.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeResearch, ModeSummary, ModeVisualize:
		return Mode(s)
	default:
		return ModeFull
	}
}

// State is the conversation state threaded through one pipeline run. The
// message sequence is append-only and chronological; a State is owned by a
// single run and must not be shared across concurrent runs.
type State struct {
	Messages  []*schema.Message
	Mode      Mode
	TableText string
}

// NewState builds the state for one pipeline invocation.
func NewState(messages []*schema.Message, mode Mode, tableText string) *State {
	return &State{
		Messages:  append([]*schema.Message(nil), messages...),
		Mode:      mode,
		TableText: tableText,
	}
}

// Append adds messages to the end of the conversation.
func (s *State) Append(msgs ...*schema.Message) {
	s.Messages = append(s.Messages, msgs...)
}

// Last returns the most recent message, or nil when the state is empty.
func (s *State) Last() *schema.Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return s.Messages[len(s.Messages)-1]
}
