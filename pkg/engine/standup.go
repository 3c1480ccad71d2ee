package engine

import (
	"fmt"
	"strings"
	"time"

	"huddle/pkg/errs"
	"huddle/pkg/logger"
	"huddle/pkg/models"
)

// StandupStatus is the read shape of a channel's standup state.
type StandupStatus struct {
	IsActive   bool   `json:"is_active"`
	TimeFinish *int64 `json:"time_finish"`
}

// StandupStart opens a standup session on a channel for length seconds.
// At most one session is active per channel; the packaged summary is sent
// by the starter when the session finishes.
func (e *Engine) StandupStart(token string, channelID, length int64) (int64, error) {
	e.st.Lock()
	defer e.st.Unlock()

	uid, err := e.roster.ResolveSession(token)
	if err != nil {
		return 0, err
	}
	c := e.st.Workspace().ChannelByID(channelID)
	if c == nil {
		return 0, errs.BadRequest("channel_id does not refer to a valid channel")
	}
	if length < 0 {
		return 0, errs.BadRequest("length cannot be negative")
	}
	if c.Standup != nil {
		return 0, errs.BadRequest("an active standup is already running in the channel")
	}
	if !c.IsMember(uid) {
		return 0, errs.Forbidden("not a member of the channel")
	}

	finish := e.clock().Unix() + length
	c.Standup = &models.Standup{StarterID: uid, FinishAt: finish, Buffer: []string{}}
	e.sched.At(time.Unix(finish, 0), func() { e.finishStandup(channelID) })
	logger.Info("standup_started", "channel_id", channelID, "u_id", uid, "time_finish", finish)
	return finish, nil
}

// StandupActive reports whether a standup is running and when it finishes.
func (e *Engine) StandupActive(token string, channelID int64) (StandupStatus, error) {
	e.st.Lock()
	defer e.st.Unlock()

	uid, err := e.roster.ResolveSession(token)
	if err != nil {
		return StandupStatus{}, err
	}
	c := e.st.Workspace().ChannelByID(channelID)
	if c == nil {
		return StandupStatus{}, errs.BadRequest("channel_id does not refer to a valid channel")
	}
	if !c.IsMember(uid) {
		return StandupStatus{}, errs.Forbidden("not a member of the channel")
	}
	if c.Standup == nil {
		return StandupStatus{}, nil
	}
	finish := c.Standup.FinishAt
	return StandupStatus{IsActive: true, TimeFinish: &finish}, nil
}

// StandupSend buffers a "handle: body" line into the active session. The
// buffer is invisible to pagination until the session finishes.
func (e *Engine) StandupSend(token string, channelID int64, body string) error {
	e.st.Lock()
	defer e.st.Unlock()

	uid, err := e.roster.ResolveSession(token)
	if err != nil {
		return err
	}
	c := e.st.Workspace().ChannelByID(channelID)
	if c == nil {
		return errs.BadRequest("channel_id does not refer to a valid channel")
	}
	if err := validBody(body); err != nil {
		return err
	}
	if c.Standup == nil {
		return errs.BadRequest("no active standup in the channel")
	}
	if !c.IsMember(uid) {
		return errs.Forbidden("not a member of the channel")
	}

	line := fmt.Sprintf("%s: %s", e.roster.LookupHandle(uid), body)
	c.Standup.Buffer = append(c.Standup.Buffer, line)
	return nil
}

// finishStandup packages the buffered lines into a single message authored
// by the starter and closes the session. An empty buffer sends nothing.
func (e *Engine) finishStandup(channelID int64) {
	e.st.Lock()
	defer e.st.Unlock()

	c := e.st.Workspace().ChannelByID(channelID)
	if c == nil || c.Standup == nil {
		return
	}
	su := c.Standup
	c.Standup = nil
	if len(su.Buffer) == 0 {
		logger.Info("standup_finished_empty", "channel_id", channelID)
		return
	}
	loc := models.Location{Kind: models.KindChannel, ID: channelID}
	id := e.deliver(su.StarterID, loc, strings.Join(su.Buffer, "\n"), su.FinishAt)
	logger.Info("standup_finished", "channel_id", channelID, "message_id", id, "lines", len(su.Buffer))
}
