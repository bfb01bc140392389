package chathistory

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Turn struct {
	Role    string `db:"role" json:"role"`
	Content string `db:"content" json:"content"`
}
