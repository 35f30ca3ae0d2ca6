package models

// DefaultCitationTitle is used when a citation carries no title.
const DefaultCitationTitle = "(citation)"

// Citation is one source reference attached to an answer. Opaque citations
// carry the raw tool payload in Content and have no title.
type Citation struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
	URL     string `json:"url,omitempty"`
	Source  string `json:"source,omitempty"`
	Opaque  bool   `json:"opaque,omitempty"`
}

// Clickable reports whether the citation links somewhere.
func (c Citation) Clickable() bool {
	return c.URL != ""
}

// Turn is one user prompt and everything up to the next prompt.
type Turn struct {
	Question  string     `json:"question"`
	Answer    *string    `json:"answer"`
	Citations []Citation `json:"citations"`
}

type EntryKind string

const (
	EntryTurn         EntryKind = "turn"
	EntryAnswer       EntryKind = "answer"
	EntryCitations    EntryKind = "citations"
	EntryUnclassified EntryKind = "unclassified"
)

// Entry is one rendered item of a transcript: either a turn or a standalone
// message seen outside any turn.
type Entry struct {
	Kind      EntryKind  `json:"kind"`
	Turn      *Turn      `json:"turn,omitempty"`
	Role      Role       `json:"role,omitempty"`
	Content   string     `json:"content,omitempty"`
	Citations []Citation `json:"citations,omitempty"`
}

// Transcript is a reconstructed conversation.
type Transcript struct {
	ConversationID string    `json:"conversationId"`
	Title          string    `json:"title,omitempty"`
	CreatedAt      Timestamp `json:"createdAt"`
	Entries        []Entry   `json:"entries"`
}
