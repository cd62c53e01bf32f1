package automod

// Attachment is the subset of an uploaded file the detectors inspect.
type Attachment struct {
	ContentType string
	Spoiler     bool
}

// Message is the inbound descriptor the engine evaluates. It is built once
// per gateway event and never mutated by the engine.
type Message struct {
	GuildID   string
	ChannelID string
	MessageID string

	AuthorID      string
	AuthorBot     bool
	AuthorIsOwner bool
	AuthorIsAdmin bool
	AuthorRoles   []string

	Content      string
	Attachments  []Attachment
	MentionUsers int
	MentionRoles int
	StickerCount int
}

// HasRole reports whether the author holds the given role.
func (m *Message) HasRole(roleID string) bool {
	for _, r := range m.AuthorRoles {
		if r == roleID {
			return true
		}
	}
	return false
}

// ImageCount returns the number of image attachments.
func (m *Message) ImageCount() int {
	n := 0
	for _, a := range m.Attachments {
		if len(a.ContentType) >= 6 && a.ContentType[:6] == "image/" {
			n++
		}
	}
	return n
}
