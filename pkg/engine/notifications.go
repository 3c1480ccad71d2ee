package engine

import (
	"huddle/pkg/models"
)

// recentNotifications is how many records a read returns; storage itself
// is unbounded.
const recentNotifications = 20

// Notifications returns the caller's most recent notification records,
// newest first.
func (e *Engine) Notifications(token string) ([]models.Notification, error) {
	e.st.Lock()
	defer e.st.Unlock()

	uid, err := e.roster.ResolveSession(token)
	if err != nil {
		return nil, err
	}
	u := e.st.Workspace().UserByID(uid)
	n := len(u.Notifications)
	if n > recentNotifications {
		n = recentNotifications
	}
	return append([]models.Notification{}, u.Notifications[:n]...), nil
}
