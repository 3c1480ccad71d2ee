package engine

import (
	"huddle/pkg/models"
)

// UserStatsReport is the per-user statistics read shape.
type UserStatsReport struct {
	MessagesSent    []models.StatSample `json:"messages_sent"`
	InvolvementRate float64             `json:"involvement_rate"`
}

// WorkspaceStatsReport is the workspace statistics read shape.
type WorkspaceStatsReport struct {
	MessagesExist   []models.StatSample `json:"messages_exist"`
	UtilizationRate float64             `json:"utilization_rate"`
}

// UserStats returns the caller's append-only messages-sent series plus an
// involvement rate: (channels joined + dms joined + messages sent) over
// (channels + dms + live messages), capped at 1.
func (e *Engine) UserStats(token string) (UserStatsReport, error) {
	e.st.Lock()
	defer e.st.Unlock()

	uid, err := e.roster.ResolveSession(token)
	if err != nil {
		return UserStatsReport{}, err
	}
	ws := e.st.Workspace()
	u := ws.UserByID(uid)

	var joined int64
	for _, c := range ws.Channels {
		if c.IsMember(uid) {
			joined++
		}
	}
	for _, d := range ws.DMs {
		if d.IsMember(uid) {
			joined++
		}
	}
	var sent int64
	if n := len(u.Stats.MessagesSent); n > 0 {
		sent = u.Stats.MessagesSent[n-1].Value
	}

	denom := int64(len(ws.Channels)+len(ws.DMs)) + ws.LiveMessages
	rate := 0.0
	if denom > 0 {
		rate = float64(joined+sent) / float64(denom)
		if rate > 1 {
			rate = 1
		}
	}
	return UserStatsReport{
		MessagesSent:    append([]models.StatSample{}, u.Stats.MessagesSent...),
		InvolvementRate: rate,
	}, nil
}

// WorkspaceStats returns the workspace live-message series plus a
// utilization rate: users in at least one channel or DM over all users.
func (e *Engine) WorkspaceStats(token string) (WorkspaceStatsReport, error) {
	e.st.Lock()
	defer e.st.Unlock()

	if _, err := e.roster.ResolveSession(token); err != nil {
		return WorkspaceStatsReport{}, err
	}
	ws := e.st.Workspace()

	var active int
	for _, u := range ws.Users {
		inOne := false
		for _, c := range ws.Channels {
			if c.IsMember(u.ID) {
				inOne = true
				break
			}
		}
		if !inOne {
			for _, d := range ws.DMs {
				if d.IsMember(u.ID) {
					inOne = true
					break
				}
			}
		}
		if inOne {
			active++
		}
	}
	rate := 0.0
	if len(ws.Users) > 0 {
		rate = float64(active) / float64(len(ws.Users))
	}
	return WorkspaceStatsReport{
		MessagesExist:   append([]models.StatSample{}, ws.Stats.MessagesExist...),
		UtilizationRate: rate,
	}, nil
}
