package engine

import (
	"time"

	"huddle/pkg/errs"
	"huddle/pkg/logger"
	"huddle/pkg/models"
	"huddle/pkg/telemetry"
)

// SendLater validates exactly as Send plus a not-in-the-past target time,
// pre-allocates the message id, and returns immediately. The message stays
// invisible to pagination, search and fan-out until it materializes at the
// target time.
func (e *Engine) SendLater(token string, loc models.Location, body string, sendAt int64) (int64, error) {
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
	if sendAt < e.clock().Unix() {
		return 0, errs.BadRequest("time_sent is in the past")
	}

	id := e.st.AllocateMessageID()
	e.sched.At(time.Unix(sendAt, 0), func() {
		e.materialize(id, uid, loc, body, sendAt)
	})
	logger.Info("message_deferred", "message_id", id, "u_id", uid, "time_sent", sendAt)
	return id, nil
}

// materialize turns a deferred entry into a real log entry at fire time,
// running fan-out exactly as an ordinary Send. The timer shares the store
// lock with request handlers, so it simply waits its turn. A container
// that disappeared in the meantime drops the entry; the pre-allocated id
// is never reused.
func (e *Engine) materialize(msgID, authorID int64, loc models.Location, body string, sentAt int64) {
	e.st.Lock()
	defer e.st.Unlock()

	if !e.containerExists(loc) {
		logger.Warn("deferred_message_dropped", "message_id", msgID, "container", loc.Kind.String(), "container_id", loc.ID)
		return
	}
	msg := models.NewMessage(msgID, authorID, body, sentAt)
	e.st.Attach(loc, msg)
	e.fanOut(authorID, msg, loc)
	telemetry.CountMessageDelivered()
	logger.Info("message_materialized", "message_id", msgID, "u_id", authorID)
}
