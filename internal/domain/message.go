// Package domain contains the core types shared across the service.
package domain

// Message roles accepted on the wire. The system role is only ever
// produced server-side; client payloads carrying it are dropped.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single conversation turn in the OpenAI chat format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ValidHistoryRole reports whether a client-supplied history entry
// carries a role we are willing to replay to the model.
func ValidHistoryRole(role string) bool {
	return role == RoleUser || role == RoleAssistant
}
