package models

// Workspace is the whole shared state: every user, container, session and
// counter. It is owned by a single store and serialized wholesale into
// snapshots.
type Workspace struct {
	Users    []*User    `json:"users"`
	Channels []*Channel `json:"channels"`
	DMs      []*DM      `json:"dms"`

	// Sessions maps opaque tokens to user ids.
	Sessions map[string]int64 `json:"sessions"`

	// NextMessageID is the single monotonic allocator shared across both
	// container kinds. It is never decremented; LiveMessages tracks the
	// count of live messages separately and feeds statistics only.
	NextMessageID int64 `json:"next_message_id"`
	LiveMessages  int64 `json:"live_messages"`

	NextUserID    int64 `json:"next_user_id"`
	NextChannelID int64 `json:"next_channel_id"`
	NextDMID      int64 `json:"next_dm_id"`

	Stats WorkspaceStats `json:"workspace_stats"`
}

// NewWorkspace returns an empty workspace with counters at their starting
// values and a zero stat sample so series are never empty.
func NewWorkspace(now int64) *Workspace {
	return &Workspace{
		Sessions:      map[string]int64{},
		NextMessageID: 1,
		NextUserID:    1,
		NextChannelID: 1,
		NextDMID:      1,
		Stats:         WorkspaceStats{MessagesExist: []StatSample{{Value: 0, TimeStamp: now}}},
	}
}

// UserByID returns the user with the given id, or nil.
func (w *Workspace) UserByID(id int64) *User {
	for _, u := range w.Users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// UserByEmail returns the user with the given email, or nil.
func (w *Workspace) UserByEmail(email string) *User {
	for _, u := range w.Users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

// UserByHandle returns the user with the given handle, or nil.
func (w *Workspace) UserByHandle(handle string) *User {
	for _, u := range w.Users {
		if u.Handle == handle {
			return u
		}
	}
	return nil
}

// ChannelByID returns the channel with the given id, or nil.
func (w *Workspace) ChannelByID(id int64) *Channel {
	for _, c := range w.Channels {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// DMByID returns the DM with the given id, or nil.
func (w *Workspace) DMByID(id int64) *DM {
	for _, d := range w.DMs {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// Log returns the message log of the container at loc, or nil when the
// container does not exist.
func (w *Workspace) Log(loc Location) []*Message {
	if loc.Kind == KindDM {
		if d := w.DMByID(loc.ID); d != nil {
			return d.Messages
		}
		return nil
	}
	if c := w.ChannelByID(loc.ID); c != nil {
		return c.Messages
	}
	return nil
}

// SetLog replaces the message log of the container at loc.
func (w *Workspace) SetLog(loc Location, log []*Message) {
	if loc.Kind == KindDM {
		if d := w.DMByID(loc.ID); d != nil {
			d.Messages = log
		}
		return
	}
	if c := w.ChannelByID(loc.ID); c != nil {
		c.Messages = log
	}
}

// Members returns the member ids of the container at loc.
func (w *Workspace) Members(loc Location) []int64 {
	if loc.Kind == KindDM {
		if d := w.DMByID(loc.ID); d != nil {
			return d.MemberIDs
		}
		return nil
	}
	if c := w.ChannelByID(loc.ID); c != nil {
		return c.MemberIDs
	}
	return nil
}

// ContainerName returns the display name of the container at loc.
func (w *Workspace) ContainerName(loc Location) string {
	if loc.Kind == KindDM {
		if d := w.DMByID(loc.ID); d != nil {
			return d.Name
		}
		return ""
	}
	if c := w.ChannelByID(loc.ID); c != nil {
		return c.Name
	}
	return ""
}
