package model

type AuditActor struct {
	UserID   int64  `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	Role     Role   `json:"role,omitempty"`
	IP       string `json:"ip,omitempty"`
}

type AuditEntry struct {
	ID         int64      `json:"id,omitempty"`
	Action     string     `json:"action"`
	OccurredAt string     `json:"occurred_at"`
	Actor      AuditActor `json:"actor"`
	Resource   string     `json:"resource,omitempty"`
	Payload    any        `json:"payload,omitempty"`
}

type AuditQuery struct {
	Action  string
	ActorID int64
	From    string
	To      string
	Page    int
	Limit   int
}

type AuditListData struct {
	Items []AuditEntry `json:"items"`
}
