package audit

// Entry is one line in the hash-chained JSONL audit log. All fields are
// scalars or structs (no map[string]any) to guarantee deterministic
// json.Marshal field order for reproducible hashing.
type Entry struct {
	Timestamp  string `json:"ts"`
	SessionID  string `json:"session_id"`
	Source     string `json:"source,omitempty"`
	Domain     string `json:"domain,omitempty"`
	Trust      string `json:"trust,omitempty"` // trusted | untrusted | invalid | none
	Command    string `json:"command,omitempty"`
	Decision   string `json:"decision"` // allow | block | observe
	Reason     string `json:"reason,omitempty"`
	Level      int    `json:"level"`
	Tier       string `json:"tier"`
	ConfigHash string `json:"config_hash"`
	PrevHash   string `json:"prev_hash"`
}
