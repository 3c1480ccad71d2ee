package engine

import (
	"huddle/pkg/errs"
	"huddle/pkg/models"
)

// UnsetID is the sentinel for the container id that a Share is not
// targeting.
const UnsetID int64 = -1

// Share creates a brand-new message in the destination container whose
// body is the original body, optionally extended with a supplement.
// Exactly one of channelID/dmID must be -1. Reactions and pin state are
// not copied; the original message is untouched.
func (e *Engine) Share(token string, ogMessageID int64, supplement string, channelID, dmID int64) (int64, error) {
	e.st.Lock()
	defer e.st.Unlock()

	uid, err := e.roster.ResolveSession(token)
	if err != nil {
		return 0, err
	}
	if (channelID == UnsetID) == (dmID == UnsetID) {
		return 0, errs.BadRequest("exactly one of channel_id and dm_id must be -1")
	}
	dest := models.Location{Kind: models.KindChannel, ID: channelID}
	if channelID == UnsetID {
		dest = models.Location{Kind: models.KindDM, ID: dmID}
	}
	if !e.containerExists(dest) {
		return 0, errs.BadRequest("%s_id does not refer to a valid %s", dest.Kind, dest.Kind)
	}
	og, _, ok := e.st.Lookup(ogMessageID)
	if !ok {
		return 0, errs.BadRequest("og_message_id does not refer to a valid message")
	}
	if len(supplement) > MaxBody {
		return 0, errs.BadRequest("message must be at most %d characters", MaxBody)
	}
	if !e.roster.IsMember(uid, dest) {
		return 0, errs.Forbidden("not a member of the %s", dest.Kind)
	}

	body := og.Body
	if supplement != "" {
		body = og.Body + " " + supplement
	}
	id := e.deliver(uid, dest, body, e.clock().Unix())
	return id, nil
}
