package models

// Notification is a single fan-out record. ChannelID or DMID is -1
// depending on which container kind produced the event.
type Notification struct {
	ChannelID int64  `json:"channel_id"`
	DMID      int64  `json:"dm_id"`
	Message   string `json:"notification_message"`
}

// StatSample is one point of an append-only time series.
type StatSample struct {
	Value     int64 `json:"num_messages"`
	TimeStamp int64 `json:"time_stamp"`
}

// UserStats is the per-user message time series.
type UserStats struct {
	MessagesSent []StatSample `json:"messages_sent"`
}

// WorkspaceStats is the workspace-wide live message time series.
type WorkspaceStats struct {
	MessagesExist []StatSample `json:"messages_exist"`
}

type User struct {
	ID           int64  `json:"u_id"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	NameFirst    string `json:"name_first"`
	NameLast     string `json:"name_last"`
	Handle       string `json:"handle_str"`
	GlobalOwner  bool   `json:"global_owner"`

	// Notifications is unbounded in storage, newest first; readers take
	// the most recent 20.
	Notifications []Notification `json:"notifications"`
	Stats         UserStats      `json:"stats"`
}

// Notify pushes a notification record to the front of the user's list.
func (u *User) Notify(n Notification) {
	u.Notifications = append([]Notification{n}, u.Notifications...)
}

// Profile is the public read shape of a user.
type Profile struct {
	ID        int64  `json:"u_id"`
	Email     string `json:"email"`
	NameFirst string `json:"name_first"`
	NameLast  string `json:"name_last"`
	Handle    string `json:"handle_str"`
}

func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Email: u.Email, NameFirst: u.NameFirst, NameLast: u.NameLast, Handle: u.Handle}
}
