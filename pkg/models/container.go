package models

// ContainerKind distinguishes the two message-log hosts. Channel ids and DM
// ids live in separate namespaces; message ids are shared across both.
type ContainerKind int

const (
	KindChannel ContainerKind = iota
	KindDM
)

func (k ContainerKind) String() string {
	if k == KindDM {
		return "dm"
	}
	return "channel"
}

// Location identifies the container holding a message.
type Location struct {
	Kind ContainerKind
	ID   int64
}

// Standup is an in-progress standup session. At most one is active per
// channel at a time.
type Standup struct {
	StarterID int64    `json:"starter_id"`
	FinishAt  int64    `json:"time_finish"`
	Buffer    []string `json:"buffer"`
}

// Channel owns an ordered message log, newest first.
type Channel struct {
	ID        int64      `json:"channel_id"`
	Name      string     `json:"name"`
	Public    bool       `json:"is_public"`
	OwnerIDs  []int64    `json:"owner_ids"`
	MemberIDs []int64    `json:"member_ids"`
	Messages  []*Message `json:"messages"`
	Standup   *Standup   `json:"standup,omitempty"`
}

// DM owns an ordered message log, newest first. The creator is the sole
// delete authority; removing a DM empties the member set without erasing
// the log.
type DM struct {
	ID        int64      `json:"dm_id"`
	Name      string     `json:"name"`
	CreatorID int64      `json:"creator_id"`
	MemberIDs []int64    `json:"member_ids"`
	Messages  []*Message `json:"messages"`
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (c *Channel) IsMember(userID int64) bool { return contains(c.MemberIDs, userID) }
func (c *Channel) IsOwner(userID int64) bool  { return contains(c.OwnerIDs, userID) }

func (c *Channel) AddMember(userID int64) {
	if !c.IsMember(userID) {
		c.MemberIDs = append(c.MemberIDs, userID)
	}
}

func (c *Channel) RemoveMember(userID int64) {
	c.MemberIDs = remove(c.MemberIDs, userID)
	c.OwnerIDs = remove(c.OwnerIDs, userID)
}

func (d *DM) IsMember(userID int64) bool { return contains(d.MemberIDs, userID) }

func (d *DM) AddMember(userID int64) {
	if !d.IsMember(userID) {
		d.MemberIDs = append(d.MemberIDs, userID)
	}
}

func (d *DM) RemoveMember(userID int64) {
	d.MemberIDs = remove(d.MemberIDs, userID)
}

// Prepend inserts msg at the newest end of the log (index 0).
func Prepend(log []*Message, msg *Message) []*Message {
	out := make([]*Message, 0, len(log)+1)
	out = append(out, msg)
	return append(out, log...)
}

// Splice removes the message with the given id, preserving the order of the
// remaining entries. The second result reports whether a message was removed.
func Splice(log []*Message, msgID int64) ([]*Message, bool) {
	for i, m := range log {
		if m.ID == msgID {
			return append(log[:i], log[i+1:]...), true
		}
	}
	return log, false
}

// Find returns the message with the given id, or nil.
func Find(log []*Message, msgID int64) *Message {
	for _, m := range log {
		if m.ID == msgID {
			return m
		}
	}
	return nil
}
