package models

// Member maps a chat-platform identity to a TidyHQ contact. Records are
// appended to the member cache and never removed; a project cannot be
// invoiced until every pledging member has one.
type Member struct {
	ID          string `json:"-"`
	DisplayName string `json:"display_name"`
	Handle      string `json:"handle"`
	ContactID   int    `json:"contact_id"`
}

// Resolved reports whether the member carries a usable TidyHQ contact id.
func (m *Member) Resolved() bool {
	return m != nil && m.ContactID > 0
}
