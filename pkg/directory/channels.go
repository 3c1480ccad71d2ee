package directory

import (
	"fmt"

	"huddle/pkg/errs"
	"huddle/pkg/logger"
	"huddle/pkg/models"
)

// ChannelSummary is the list shape for channels.
type ChannelSummary struct {
	ID   int64  `json:"channel_id"`
	Name string `json:"name"`
}

// ChannelDetails is the read shape for a single channel.
type ChannelDetails struct {
	Name         string           `json:"name"`
	Public       bool             `json:"is_public"`
	OwnerMembers []models.Profile `json:"owner_members"`
	AllMembers   []models.Profile `json:"all_members"`
}

// CreateChannel creates a channel with the caller as sole owner and member.
func (d *Directory) CreateChannel(token, name string, public bool) (int64, error) {
	d.st.Lock()
	defer d.st.Unlock()
	uid, err := d.ResolveSession(token)
	if err != nil {
		return 0, err
	}
	if l := len(name); l < 1 || l > 20 {
		return 0, errs.BadRequest("channel name must be 1..20 characters")
	}
	ws := d.st.Workspace()
	c := &models.Channel{
		ID:        ws.NextChannelID,
		Name:      name,
		Public:    public,
		OwnerIDs:  []int64{uid},
		MemberIDs: []int64{uid},
	}
	ws.NextChannelID++
	ws.Channels = append(ws.Channels, c)
	logger.Info("channel_created", "channel_id", c.ID, "u_id", uid, "public", public)
	return c.ID, nil
}

// JoinChannel adds the caller to a channel. Private channels admit only
// global owners without an invite.
func (d *Directory) JoinChannel(token string, channelID int64) error {
	d.st.Lock()
	defer d.st.Unlock()
	uid, err := d.ResolveSession(token)
	if err != nil {
		return err
	}
	ws := d.st.Workspace()
	c := ws.ChannelByID(channelID)
	if c == nil {
		return errs.BadRequest("channel_id does not refer to a valid channel")
	}
	if c.IsMember(uid) {
		return errs.BadRequest("already a member of the channel")
	}
	u := ws.UserByID(uid)
	if !c.Public && (u == nil || !u.GlobalOwner) {
		return errs.Forbidden("channel is private")
	}
	c.AddMember(uid)
	return nil
}

// InviteChannel adds another user to a channel and notifies them.
func (d *Directory) InviteChannel(token string, channelID, inviteeID int64) error {
	d.st.Lock()
	defer d.st.Unlock()
	uid, err := d.ResolveSession(token)
	if err != nil {
		return err
	}
	ws := d.st.Workspace()
	c := ws.ChannelByID(channelID)
	if c == nil {
		return errs.BadRequest("channel_id does not refer to a valid channel")
	}
	invitee := ws.UserByID(inviteeID)
	if invitee == nil {
		return errs.BadRequest("u_id does not refer to a valid user")
	}
	if c.IsMember(inviteeID) {
		return errs.BadRequest("user is already a member of the channel")
	}
	if !c.IsMember(uid) {
		return errs.Forbidden("not a member of the channel")
	}
	c.AddMember(inviteeID)
	invitee.Notify(models.Notification{
		ChannelID: c.ID,
		DMID:      -1,
		Message:   fmt.Sprintf("@%s added you to %s", d.LookupHandle(uid), c.Name),
	})
	return nil
}

// LeaveChannel removes the caller from a channel, dropping any owner role.
func (d *Directory) LeaveChannel(token string, channelID int64) error {
	d.st.Lock()
	defer d.st.Unlock()
	uid, err := d.ResolveSession(token)
	if err != nil {
		return err
	}
	c := d.st.Workspace().ChannelByID(channelID)
	if c == nil {
		return errs.BadRequest("channel_id does not refer to a valid channel")
	}
	if !c.IsMember(uid) {
		return errs.Forbidden("not a member of the channel")
	}
	c.RemoveMember(uid)
	return nil
}

// Details returns the full channel read shape for a member.
func (d *Directory) Details(token string, channelID int64) (ChannelDetails, error) {
	d.st.Lock()
	defer d.st.Unlock()
	uid, err := d.ResolveSession(token)
	if err != nil {
		return ChannelDetails{}, err
	}
	ws := d.st.Workspace()
	c := ws.ChannelByID(channelID)
	if c == nil {
		return ChannelDetails{}, errs.BadRequest("channel_id does not refer to a valid channel")
	}
	if !c.IsMember(uid) {
		return ChannelDetails{}, errs.Forbidden("not a member of the channel")
	}
	out := ChannelDetails{Name: c.Name, Public: c.Public}
	for _, id := range c.OwnerIDs {
		if u := ws.UserByID(id); u != nil {
			out.OwnerMembers = append(out.OwnerMembers, u.Profile())
		}
	}
	for _, id := range c.MemberIDs {
		if u := ws.UserByID(id); u != nil {
			out.AllMembers = append(out.AllMembers, u.Profile())
		}
	}
	return out, nil
}

// ListChannels returns the channels the caller belongs to.
func (d *Directory) ListChannels(token string) ([]ChannelSummary, error) {
	d.st.Lock()
	defer d.st.Unlock()
	uid, err := d.ResolveSession(token)
	if err != nil {
		return nil, err
	}
	out := []ChannelSummary{}
	for _, c := range d.st.Workspace().Channels {
		if c.IsMember(uid) {
			out = append(out, ChannelSummary{ID: c.ID, Name: c.Name})
		}
	}
	return out, nil
}

// ListAllChannels returns every channel, public or private.
func (d *Directory) ListAllChannels(token string) ([]ChannelSummary, error) {
	d.st.Lock()
	defer d.st.Unlock()
	if _, err := d.ResolveSession(token); err != nil {
		return nil, err
	}
	out := []ChannelSummary{}
	for _, c := range d.st.Workspace().Channels {
		out = append(out, ChannelSummary{ID: c.ID, Name: c.Name})
	}
	return out, nil
}
