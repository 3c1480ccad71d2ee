package engine

import (
	"huddle/pkg/errs"
)

// Pin marks a message. The actor must hold owner privilege within the
// owning container: channel owners or global owners for channels, the
// creator alone for DMs.
func (e *Engine) Pin(token string, msgID int64) error {
	return e.setPinned(token, msgID, true)
}

// Unpin clears the mark under the same authorization rules.
func (e *Engine) Unpin(token string, msgID int64) error {
	return e.setPinned(token, msgID, false)
}

func (e *Engine) setPinned(token string, msgID int64, pinned bool) error {
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
	if !e.roster.HasOwnerPrivilege(uid, loc) {
		return errs.Forbidden("no owner privilege in the %s", loc.Kind)
	}
	if msg.Pinned == pinned {
		if pinned {
			return errs.BadRequest("message is already pinned")
		}
		return errs.BadRequest("message is not pinned")
	}
	msg.Pinned = pinned
	return nil
}
