package agent

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

// messageText extracts the textual content of a message. Multi-part content
// has its text parts joined with spaces.
func messageText(m *schema.Message) string {
	if m == nil {
		return ""
	}
	if m.Content != "" || len(m.MultiContent) == 0 {
		return m.Content
	}
	var parts []string
	for _, part := range m.MultiContent {
		if part.Text != "" {
			parts = append(parts, part.Text)
		}
	}
	return strings.Join(parts, " ")
}

// LastNonEmptyAIMessage scans messages in order and returns the most recent
// assistant message whose text content is non-blank, or nil if none exists.
// Tool results and human messages are ignored.
func LastNonEmptyAIMessage(messages []*schema.Message) *schema.Message {
	var found *schema.Message
	for _, m := range messages {
		if m == nil || m.Role != schema.Assistant {
			continue
		}
		if strings.TrimSpace(messageText(m)) != "" {
			found = m
		}
	}
	return found
}
