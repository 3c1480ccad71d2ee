// Package engine is the message core: send, edit, remove, share, paginate,
// react, pin, deferred delivery, standups and search, with synchronous
// mention/statistics fan-out on every message event.
package engine

import (
	"time"

	"huddle/pkg/errs"
	"huddle/pkg/models"
	"huddle/pkg/scheduler"
	"huddle/pkg/store"
)

const (
	// Window is the fixed pagination page size.
	Window = 50
	// MaxBody is the maximum message body length in bytes.
	MaxBody = 1000
	// previewLen is the notification body preview length.
	previewLen = 20
)

// Roster supplies identity and membership facts. Implementations read the
// same workspace the engine mutates, so every method is called with the
// store lock already held.
type Roster interface {
	ResolveSession(token string) (int64, error)
	IsMember(userID int64, loc models.Location) bool
	HasOwnerPrivilege(userID int64, loc models.Location) bool
	LookupHandle(userID int64) string
	LookupContainerName(loc models.Location) string
}

type Engine struct {
	st     *store.Store
	roster Roster
	sched  *scheduler.Scheduler
	clock  func() time.Time
}

func New(st *store.Store, roster Roster, sched *scheduler.Scheduler) *Engine {
	return &Engine{st: st, roster: roster, sched: sched, clock: time.Now}
}

// containerExists reports whether loc names a real container. Callers hold
// the store lock.
func (e *Engine) containerExists(loc models.Location) bool {
	ws := e.st.Workspace()
	if loc.Kind == models.KindDM {
		return ws.DMByID(loc.ID) != nil
	}
	return ws.ChannelByID(loc.ID) != nil
}

// canAlter reports edit/remove authority over a message: its author, or an
// owner of the owning container. For channels owner privilege includes
// global owners; for DMs only the creator qualifies.
func (e *Engine) canAlter(userID int64, msg *models.Message, loc models.Location) bool {
	if msg.AuthorID == userID {
		return true
	}
	return e.roster.HasOwnerPrivilege(userID, loc)
}

func validBody(body string) error {
	if len(body) < 1 || len(body) > MaxBody {
		return errs.BadRequest("message must be 1..%d characters", MaxBody)
	}
	return nil
}
