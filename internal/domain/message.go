package domain

// Chat message roles understood by the LLM provider.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one role-tagged chat message.
type Message struct {
	Role    string
	Content string
}
