package engine

import (
	"strings"

	"huddle/pkg/errs"
	"huddle/pkg/models"
)

// Search returns every message containing query (case-insensitive) across
// the containers the caller belongs to, newest first within each
// container, channels before DMs. Deferred messages have no log entry yet
// and so never appear.
func (e *Engine) Search(token, query string) ([]models.MessageView, error) {
	e.st.Lock()
	defer e.st.Unlock()

	uid, err := e.roster.ResolveSession(token)
	if err != nil {
		return nil, err
	}
	if len(query) < 1 || len(query) > MaxBody {
		return nil, errs.BadRequest("query must be 1..%d characters", MaxBody)
	}

	needle := strings.ToLower(query)
	out := []models.MessageView{}
	match := func(log []*models.Message) {
		for _, m := range log {
			if strings.Contains(strings.ToLower(m.Body), needle) {
				out = append(out, m.View(uid))
			}
		}
	}

	ws := e.st.Workspace()
	for _, c := range ws.Channels {
		if c.IsMember(uid) {
			match(c.Messages)
		}
	}
	for _, d := range ws.DMs {
		if d.IsMember(uid) {
			match(d.Messages)
		}
	}
	return out, nil
}
