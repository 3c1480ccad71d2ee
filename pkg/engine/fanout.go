package engine

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"huddle/pkg/models"
)

// fanOut runs the synchronous side effects of a delivered message: mention
// notifications and the author/workspace statistic samples. Callers hold
// the store lock; msg is already attached.
func (e *Engine) fanOut(authorID int64, msg *models.Message, loc models.Location) {
	e.notifyMentions(authorID, msg, loc)
	e.recordUserSample(authorID)
	e.recordWorkspaceSample()
}

// notifyMentions scans the final stored body for @handle tokens of current
// container members and pushes one notification per distinct mentioned
// member. Authors mentioning themselves are still notified.
func (e *Engine) notifyMentions(authorID int64, msg *models.Message, loc models.Location) {
	ws := e.st.Workspace()
	members := ws.Members(loc)
	if len(members) == 0 {
		return
	}

	mentioned := scanMentions(msg.Body, e.memberHandles(members))
	if len(mentioned) == 0 {
		return
	}

	note := models.Notification{ChannelID: -1, DMID: -1}
	if loc.Kind == models.KindDM {
		note.DMID = loc.ID
	} else {
		note.ChannelID = loc.ID
	}
	preview := msg.Body
	if len(preview) > previewLen {
		// never split a rune mid-sequence
		cut := previewLen
		for cut > 0 && !utf8.RuneStart(preview[cut]) {
			cut--
		}
		preview = preview[:cut]
	}
	note.Message = fmt.Sprintf("@%s tagged you in %s: %s",
		e.roster.LookupHandle(authorID), e.roster.LookupContainerName(loc), preview)

	for _, uid := range mentioned {
		if u := ws.UserByID(uid); u != nil {
			u.Notify(note)
		}
	}
}

// memberHandles maps the container members' handles to their ids. Callers
// hold the store lock.
func (e *Engine) memberHandles(members []int64) map[string]int64 {
	out := make(map[string]int64, len(members))
	for _, uid := range members {
		if h := e.roster.LookupHandle(uid); h != "" {
			out[h] = uid
		}
	}
	return out
}

// scanMentions walks body left-to-right and longest-matches each @ against
// the member handle set, so a handle that is a prefix of another never
// matches the longer one's mention. Repeats collapse: the result holds
// each user at most once, in first-mention order.
func scanMentions(body string, handles map[string]int64) []int64 {
	var order []int64
	seen := map[int64]bool{}
	for i := 0; i < len(body); i++ {
		if body[i] != '@' {
			continue
		}
		rest := body[i+1:]
		var best string
		for h := range handles {
			if len(h) > len(best) && strings.HasPrefix(rest, h) {
				best = h
			}
		}
		if best == "" {
			continue
		}
		uid := handles[best]
		if !seen[uid] {
			seen[uid] = true
			order = append(order, uid)
		}
	}
	return order
}

// recordUserSample appends the author's next messages-sent sample. Samples
// are append-only and never pruned.
func (e *Engine) recordUserSample(userID int64) {
	u := e.st.Workspace().UserByID(userID)
	if u == nil {
		return
	}
	var prev int64
	if n := len(u.Stats.MessagesSent); n > 0 {
		prev = u.Stats.MessagesSent[n-1].Value
	}
	u.Stats.MessagesSent = append(u.Stats.MessagesSent, models.StatSample{
		Value:     prev + 1,
		TimeStamp: e.clock().Unix(),
	})
}

// recordWorkspaceSample appends the current live message count to the
// workspace series.
func (e *Engine) recordWorkspaceSample() {
	ws := e.st.Workspace()
	ws.Stats.MessagesExist = append(ws.Stats.MessagesExist, models.StatSample{
		Value:     ws.LiveMessages,
		TimeStamp: e.clock().Unix(),
	})
}
