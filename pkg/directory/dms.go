package directory

import (
	"fmt"
	"sort"
	"strings"

	"huddle/pkg/errs"
	"huddle/pkg/logger"
	"huddle/pkg/models"
)

// DMSummary is the list shape for DMs.
type DMSummary struct {
	ID   int64  `json:"dm_id"`
	Name string `json:"name"`
}

// DMDetails is the read shape for a single DM.
type DMDetails struct {
	Name    string           `json:"name"`
	Members []models.Profile `json:"members"`
}

// CreateDM creates a DM between the caller and memberIDs. Its name is the
// comma-joined sorted list of all member handles; every invited member is
// notified.
func (d *Directory) CreateDM(token string, memberIDs []int64) (int64, error) {
	d.st.Lock()
	defer d.st.Unlock()
	uid, err := d.ResolveSession(token)
	if err != nil {
		return 0, err
	}
	ws := d.st.Workspace()

	seen := map[int64]bool{uid: true}
	members := []int64{uid}
	for _, id := range memberIDs {
		if ws.UserByID(id) == nil {
			return 0, errs.BadRequest("u_id does not refer to a valid user")
		}
		if seen[id] {
			return 0, errs.BadRequest("duplicate u_id in members")
		}
		seen[id] = true
		members = append(members, id)
	}

	handles := make([]string, 0, len(members))
	for _, id := range members {
		handles = append(handles, ws.UserByID(id).Handle)
	}
	sort.Strings(handles)

	dm := &models.DM{
		ID:        ws.NextDMID,
		Name:      strings.Join(handles, ", "),
		CreatorID: uid,
		MemberIDs: members,
	}
	ws.NextDMID++
	ws.DMs = append(ws.DMs, dm)

	actor := d.LookupHandle(uid)
	for _, id := range members {
		if id == uid {
			continue
		}
		ws.UserByID(id).Notify(models.Notification{
			ChannelID: -1,
			DMID:      dm.ID,
			Message:   fmt.Sprintf("@%s added you to %s", actor, dm.Name),
		})
	}
	logger.Info("dm_created", "dm_id", dm.ID, "creator", uid, "members", len(members))
	return dm.ID, nil
}

// DMDetails returns the read shape for a member.
func (d *Directory) DMDetails(token string, dmID int64) (DMDetails, error) {
	d.st.Lock()
	defer d.st.Unlock()
	uid, err := d.ResolveSession(token)
	if err != nil {
		return DMDetails{}, err
	}
	ws := d.st.Workspace()
	dm := ws.DMByID(dmID)
	if dm == nil {
		return DMDetails{}, errs.BadRequest("dm_id does not refer to a valid dm")
	}
	if !dm.IsMember(uid) {
		return DMDetails{}, errs.Forbidden("not a member of the dm")
	}
	out := DMDetails{Name: dm.Name}
	for _, id := range dm.MemberIDs {
		if u := ws.UserByID(id); u != nil {
			out.Members = append(out.Members, u.Profile())
		}
	}
	return out, nil
}

// ListDMs returns the DMs the caller belongs to.
func (d *Directory) ListDMs(token string) ([]DMSummary, error) {
	d.st.Lock()
	defer d.st.Unlock()
	uid, err := d.ResolveSession(token)
	if err != nil {
		return nil, err
	}
	out := []DMSummary{}
	for _, dm := range d.st.Workspace().DMs {
		if dm.IsMember(uid) {
			out = append(out, DMSummary{ID: dm.ID, Name: dm.Name})
		}
	}
	return out, nil
}

// LeaveDM removes the caller from a DM. The creator may leave; delete
// authority does not transfer.
func (d *Directory) LeaveDM(token string, dmID int64) error {
	d.st.Lock()
	defer d.st.Unlock()
	uid, err := d.ResolveSession(token)
	if err != nil {
		return err
	}
	dm := d.st.Workspace().DMByID(dmID)
	if dm == nil {
		return errs.BadRequest("dm_id does not refer to a valid dm")
	}
	if !dm.IsMember(uid) {
		return errs.Forbidden("not a member of the dm")
	}
	dm.RemoveMember(uid)
	return nil
}

// RemoveDM empties the DM's member set. Only the creator may do this. The
// message log is orphaned, not erased: ids remain resolvable but no user
// can paginate or search them.
func (d *Directory) RemoveDM(token string, dmID int64) error {
	d.st.Lock()
	defer d.st.Unlock()
	uid, err := d.ResolveSession(token)
	if err != nil {
		return err
	}
	dm := d.st.Workspace().DMByID(dmID)
	if dm == nil {
		return errs.BadRequest("dm_id does not refer to a valid dm")
	}
	if dm.CreatorID != uid {
		return errs.Forbidden("only the dm creator may remove it")
	}
	dm.MemberIDs = []int64{}
	logger.Info("dm_removed", "dm_id", dm.ID, "u_id", uid)
	return nil
}
