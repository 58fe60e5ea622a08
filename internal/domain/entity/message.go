package entity

type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message carries one prompt turn. A non-empty ImageURL is sent as an
// inline image part alongside the text content.
type Message struct {
	Role     MessageRole
	Content  string
	ImageURL string
}
