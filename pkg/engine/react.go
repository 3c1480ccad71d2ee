package engine

import (
	"fmt"

	"huddle/pkg/errs"
	"huddle/pkg/models"
)

// React moves the (message, user, kind) pair from NotReacted to Reacted.
// Reacting to an already-reacted pair is a 400, as is reacting from outside
// the owning container: non-membership is treated as a resolution failure
// here, not a privilege failure.
func (e *Engine) React(token string, msgID, kind int64) error {
	return e.setReaction(token, msgID, kind, true)
}

// Unreact moves the pair back to NotReacted, removing exactly one
// occurrence. Unreacting a NotReacted pair is a 400.
func (e *Engine) Unreact(token string, msgID, kind int64) error {
	return e.setReaction(token, msgID, kind, false)
}

func (e *Engine) setReaction(token string, msgID, kind int64, on bool) error {
	e.st.Lock()
	defer e.st.Unlock()

	uid, err := e.roster.ResolveSession(token)
	if err != nil {
		return err
	}
	msg, loc, ok := e.st.Lookup(msgID)
	if !ok {
		return errs.BadRequest("message_id does not refer to a valid message")
	}
	if kind != models.ReactionKindThumbsUp {
		return errs.BadRequest("react_id is not a valid reaction")
	}
	if !e.roster.IsMember(uid, loc) {
		return errs.BadRequest("message is not in a %s the user has joined", loc.Kind)
	}

	r := msg.Reaction(kind)
	if on {
		if r.Reacted(uid) {
			return errs.BadRequest("already reacted to this message")
		}
		r.UserIDs = append(r.UserIDs, uid)
		e.notifyReaction(uid, msg, loc)
		return nil
	}

	if !r.Reacted(uid) {
		return errs.BadRequest("no reaction to remove")
	}
	for i, id := range r.UserIDs {
		if id == uid {
			r.UserIDs = append(r.UserIDs[:i], r.UserIDs[i+1:]...)
			break
		}
	}
	return nil
}

// notifyReaction tells the message author someone reacted. Reacting to
// one's own message does not notify.
func (e *Engine) notifyReaction(actorID int64, msg *models.Message, loc models.Location) {
	if actorID == msg.AuthorID {
		return
	}
	author := e.st.Workspace().UserByID(msg.AuthorID)
	if author == nil {
		return
	}
	note := models.Notification{ChannelID: -1, DMID: -1}
	if loc.Kind == models.KindDM {
		note.DMID = loc.ID
	} else {
		note.ChannelID = loc.ID
	}
	note.Message = fmt.Sprintf("@%s reacted to your message in %s",
		e.roster.LookupHandle(actorID), e.roster.LookupContainerName(loc))
	author.Notify(note)
}
