package models

// ReactionKindThumbsUp is the only reaction kind currently defined.
const ReactionKindThumbsUp int64 = 1

type Reaction struct {
	Kind    int64   `json:"react_id"`
	UserIDs []int64 `json:"u_ids"`
}

// Reacted reports whether userID appears in the reaction's user set.
func (r *Reaction) Reacted(userID int64) bool {
	for _, id := range r.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Message is a single log entry. Every message carries a pre-seeded
// reaction entry per known kind so reaction state is never nil.
type Message struct {
	ID        int64       `json:"message_id"`
	AuthorID  int64       `json:"u_id"`
	Body      string      `json:"message"`
	SentAt    int64       `json:"time_sent"`
	Reactions []*Reaction `json:"reacts"`
	Pinned    bool        `json:"is_pinned"`
}

// NewMessage builds a message with the seeded empty thumbs-up reaction.
func NewMessage(id, authorID int64, body string, sentAt int64) *Message {
	return &Message{
		ID:        id,
		AuthorID:  authorID,
		Body:      body,
		SentAt:    sentAt,
		Reactions: []*Reaction{{Kind: ReactionKindThumbsUp, UserIDs: []int64{}}},
	}
}

// Reaction returns the reaction entry for kind, or nil for an unknown kind.
func (m *Message) Reaction(kind int64) *Reaction {
	for _, r := range m.Reactions {
		if r.Kind == kind {
			return r
		}
	}
	return nil
}

// ReactionView is the per-caller reaction shape returned by reads.
type ReactionView struct {
	Kind           int64   `json:"react_id"`
	UserIDs        []int64 `json:"u_ids"`
	UserHasReacted bool    `json:"is_this_user_reacted"`
}

// MessageView is the read shape of a message, with reaction state resolved
// for the requesting user.
type MessageView struct {
	ID        int64          `json:"message_id"`
	AuthorID  int64          `json:"u_id"`
	Body      string         `json:"message"`
	SentAt    int64          `json:"time_sent"`
	Reactions []ReactionView `json:"reacts"`
	Pinned    bool           `json:"is_pinned"`
}

// View renders the message for the given requesting user.
func (m *Message) View(forUser int64) MessageView {
	v := MessageView{
		ID:       m.ID,
		AuthorID: m.AuthorID,
		Body:     m.Body,
		SentAt:   m.SentAt,
		Pinned:   m.Pinned,
	}
	for _, r := range m.Reactions {
		v.Reactions = append(v.Reactions, ReactionView{
			Kind:           r.Kind,
			UserIDs:        append([]int64{}, r.UserIDs...),
			UserHasReacted: r.Reacted(forUser),
		})
	}
	return v
}
