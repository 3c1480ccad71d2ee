package store

import (
	"sync"
	"time"

	"huddle/pkg/models"
)

// Store owns the whole workspace. Every mutation, whether it comes from a
// request handler or a fired timer, must hold the store lock for the full
// read-modify-write; operations are not decomposable because message id
// allocation is shared across both container kinds.
type Store struct {
	sync.Mutex

	ws    *models.Workspace
	index map[int64]models.Location

	snap *snapshotDB
}

// New returns a store with a fresh workspace and no snapshot backing.
// Tests and embedders that do not need persistence use this directly.
func New() *Store {
	return &Store{
		ws:    models.NewWorkspace(time.Now().Unix()),
		index: map[int64]models.Location{},
	}
}

// Workspace returns the shared state. The caller must hold the store lock.
func (s *Store) Workspace() *models.Workspace { return s.ws }

// AllocateMessageID hands out the next message id. Ids are strictly
// increasing across channels and DMs and are never reused, even after
// deletion; the live-message count is tracked separately for statistics.
// The caller must hold the store lock.
func (s *Store) AllocateMessageID() int64 {
	id := s.ws.NextMessageID
	s.ws.NextMessageID++
	return id
}

// Resolve maps a message id to its owning container. Ids are unique so at
// most one location exists. The caller must hold the store lock.
func (s *Store) Resolve(msgID int64) (models.Location, bool) {
	loc, ok := s.index[msgID]
	return loc, ok
}

// Attach prepends msg to the log at loc and indexes it. The caller must
// hold the store lock.
func (s *Store) Attach(loc models.Location, msg *models.Message) {
	s.ws.SetLog(loc, models.Prepend(s.ws.Log(loc), msg))
	s.index[msg.ID] = loc
	s.ws.LiveMessages++
}

// Detach splices the message out of its container's log, preserving the
// order of the remaining entries, and drops it from the index. The caller
// must hold the store lock.
func (s *Store) Detach(msgID int64) (*models.Message, models.Location, bool) {
	loc, ok := s.index[msgID]
	if !ok {
		return nil, models.Location{}, false
	}
	log := s.ws.Log(loc)
	msg := models.Find(log, msgID)
	if msg == nil {
		return nil, models.Location{}, false
	}
	spliced, _ := models.Splice(log, msgID)
	s.ws.SetLog(loc, spliced)
	delete(s.index, msgID)
	s.ws.LiveMessages--
	return msg, loc, true
}

// Lookup returns the message with the given id together with its location.
// The caller must hold the store lock.
func (s *Store) Lookup(msgID int64) (*models.Message, models.Location, bool) {
	loc, ok := s.index[msgID]
	if !ok {
		return nil, models.Location{}, false
	}
	msg := models.Find(s.ws.Log(loc), msgID)
	if msg == nil {
		return nil, models.Location{}, false
	}
	return msg, loc, true
}

// rebuildIndex derives the message index from the container logs. Called
// after a snapshot load.
func (s *Store) rebuildIndex() {
	s.index = map[int64]models.Location{}
	for _, c := range s.ws.Channels {
		for _, m := range c.Messages {
			s.index[m.ID] = models.Location{Kind: models.KindChannel, ID: c.ID}
		}
	}
	for _, d := range s.ws.DMs {
		for _, m := range d.Messages {
			s.index[m.ID] = models.Location{Kind: models.KindDM, ID: d.ID}
		}
	}
}
