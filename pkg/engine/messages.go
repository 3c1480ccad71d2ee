package engine

import (
	"huddle/pkg/errs"
	"huddle/pkg/logger"
	"huddle/pkg/models"
	"huddle/pkg/telemetry"
)

// Send validates and delivers a message to the container at loc. The
// checks are ordered, not reorderable: callers distinguish 400 from 403 by
// which check tripped first.
func (e *Engine) Send(token string, loc models.Location, body string) (int64, error) {
	e.st.Lock()
	defer e.st.Unlock()

	uid, err := e.roster.ResolveSession(token)
	if err != nil {
		return 0, err
	}
	if !e.containerExists(loc) {
		return 0, errs.BadRequest("%s_id does not refer to a valid %s", loc.Kind, loc.Kind)
	}
	if err := validBody(body); err != nil {
		return 0, err
	}
	if !e.roster.IsMember(uid, loc) {
		return 0, errs.Forbidden("not a member of the %s", loc.Kind)
	}

	id := e.deliver(uid, loc, body, e.clock().Unix())
	return id, nil
}

// deliver allocates an id, prepends the message and runs fan-out. It is the
// single delivery path shared by Send, Share, deferred materialization and
// standup packaging. Callers hold the store lock and have validated input.
func (e *Engine) deliver(authorID int64, loc models.Location, body string, sentAt int64) int64 {
	id := e.st.AllocateMessageID()
	msg := models.NewMessage(id, authorID, body, sentAt)
	e.st.Attach(loc, msg)
	e.fanOut(authorID, msg, loc)
	telemetry.CountMessageDelivered()
	logger.Info("message_sent", "message_id", id, "u_id", authorID, "container", loc.Kind.String(), "container_id", loc.ID)
	return id
}

// Edit overwrites a message body in place. An empty body delegates
// entirely to Remove under the same authorization rules.
func (e *Engine) Edit(token string, msgID int64, newBody string) error {
	if newBody == "" {
		return e.Remove(token, msgID)
	}

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
	if len(newBody) > MaxBody {
		return errs.BadRequest("message must be at most %d characters", MaxBody)
	}
	if !e.canAlter(uid, msg, loc) {
		return errs.Forbidden("no permission to edit this message")
	}
	msg.Body = newBody
	logger.Info("message_edited", "message_id", msgID, "u_id", uid)
	return nil
}

// Remove splices a message out of its container's log. The id is never
// reused; only the live-message statistic shrinks.
func (e *Engine) Remove(token string, msgID int64) error {
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
	if !e.canAlter(uid, msg, loc) {
		return errs.Forbidden("no permission to remove this message")
	}
	e.st.Detach(msgID)
	e.recordWorkspaceSample()
	logger.Info("message_removed", "message_id", msgID, "u_id", uid)
	return nil
}

// Page is one pagination window.
type Page struct {
	Messages []models.MessageView `json:"messages"`
	Start    int                  `json:"start"`
	End      int                  `json:"end"`
}

// Paginate returns a window of up to 50 messages, newest first.
//
// Non-negative start indexes from the newest message; end is start+50 when
// more remain, else -1. Negative start addresses the oldest end: the window
// is log[max(0, n-50, n+start):n], i.e. |start| messages counted from the
// oldest message, with any start <= -50 clamped to the oldest block of up
// to 50. The oldest message is always included then, so end is always -1.
func (e *Engine) Paginate(token string, loc models.Location, start int) (Page, error) {
	e.st.Lock()
	defer e.st.Unlock()

	uid, err := e.roster.ResolveSession(token)
	if err != nil {
		return Page{}, err
	}
	if !e.containerExists(loc) {
		return Page{}, errs.BadRequest("%s_id does not refer to a valid %s", loc.Kind, loc.Kind)
	}
	log := e.st.Workspace().Log(loc)
	n := len(log)
	if start > n {
		return Page{}, errs.BadRequest("start is greater than the number of messages")
	}
	if !e.roster.IsMember(uid, loc) {
		return Page{}, errs.Forbidden("not a member of the %s", loc.Kind)
	}

	page := Page{Messages: []models.MessageView{}, Start: start, End: -1}
	if n == 0 {
		return page, nil
	}

	var window []*models.Message
	if start >= 0 {
		hi := start + Window
		if hi < n {
			page.End = hi
		} else {
			hi = n
		}
		window = log[start:hi]
	} else {
		lo := n + start
		if floor := n - Window; lo < floor {
			lo = floor
		}
		if lo < 0 {
			lo = 0
		}
		window = log[lo:n]
	}

	for _, m := range window {
		page.Messages = append(page.Messages, m.View(uid))
	}
	return page, nil
}
