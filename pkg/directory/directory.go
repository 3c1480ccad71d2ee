// Package directory implements the account and membership surface: user
// registration, opaque session tokens, handle generation, and channel/DM
// membership. The message engine consumes it through the engine.Roster
// interface.
package directory

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"huddle/pkg/errs"
	"huddle/pkg/logger"
	"huddle/pkg/models"
	"huddle/pkg/store"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9.+_-]+@[a-zA-Z0-9-]+(\.[a-zA-Z0-9-]+)+$`)

// Directory wraps the shared store with account and membership operations.
type Directory struct {
	st    *store.Store
	clock func() time.Time
}

func New(st *store.Store) *Directory {
	return &Directory{st: st, clock: time.Now}
}

// Session is the result of a successful register or login.
type Session struct {
	Token  string `json:"token"`
	UserID int64  `json:"auth_user_id"`
}

func hashPassword(pw string) (string, error) {
	// bcrypt rejects inputs over 72 bytes
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", errs.BadRequest("password too long")
	}
	return string(h), nil
}

// Roster facts consumed by the message engine. Callers hold the store lock.

// ResolveSession maps an opaque token to a user id.
func (d *Directory) ResolveSession(token string) (int64, error) {
	uid, ok := d.st.Workspace().Sessions[token]
	if !ok {
		return 0, errs.Forbidden("invalid token")
	}
	return uid, nil
}

// IsMember reports whether userID belongs to the container at loc.
func (d *Directory) IsMember(userID int64, loc models.Location) bool {
	for _, id := range d.st.Workspace().Members(loc) {
		if id == userID {
			return true
		}
	}
	return false
}

// HasOwnerPrivilege reports owner authority within the specific container.
// Global owners hold owner privilege in every channel but never in DMs;
// a DM's sole authority is its creator.
func (d *Directory) HasOwnerPrivilege(userID int64, loc models.Location) bool {
	ws := d.st.Workspace()
	if loc.Kind == models.KindDM {
		dm := ws.DMByID(loc.ID)
		return dm != nil && dm.CreatorID == userID
	}
	ch := ws.ChannelByID(loc.ID)
	if ch == nil {
		return false
	}
	if ch.IsOwner(userID) {
		return true
	}
	u := ws.UserByID(userID)
	return u != nil && u.GlobalOwner
}

// LookupHandle returns the handle for userID, or the empty string.
func (d *Directory) LookupHandle(userID int64) string {
	if u := d.st.Workspace().UserByID(userID); u != nil {
		return u.Handle
	}
	return ""
}

// LookupContainerName returns the display name of the container at loc.
func (d *Directory) LookupContainerName(loc models.Location) string {
	return d.st.Workspace().ContainerName(loc)
}

// generateHandle builds the lowercased alphanumeric concatenation of the
// names, truncated to 20, deduplicated with a decimal suffix. Caller holds
// the store lock.
func (d *Directory) generateHandle(nameFirst, nameLast string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(nameFirst + nameLast) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	base := b.String()
	if len(base) > 20 {
		base = base[:20]
	}
	ws := d.st.Workspace()
	if ws.UserByHandle(base) == nil {
		return base
	}
	for n := 0; ; n++ {
		h := base + strconv.Itoa(n)
		if ws.UserByHandle(h) == nil {
			return h
		}
	}
}

// Register creates a user and opens a session. The first registered user
// becomes the global owner.
func (d *Directory) Register(email, password, nameFirst, nameLast string) (Session, error) {
	if !emailRe.MatchString(email) {
		return Session{}, errs.BadRequest("invalid email")
	}
	if len(password) < 6 {
		return Session{}, errs.BadRequest("password must be at least 6 characters")
	}
	if l := len(nameFirst); l < 1 || l > 50 {
		return Session{}, errs.BadRequest("name_first must be 1..50 characters")
	}
	if l := len(nameLast); l < 1 || l > 50 {
		return Session{}, errs.BadRequest("name_last must be 1..50 characters")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return Session{}, err
	}

	d.st.Lock()
	defer d.st.Unlock()
	ws := d.st.Workspace()
	if ws.UserByEmail(email) != nil {
		return Session{}, errs.BadRequest("email already registered")
	}

	u := &models.User{
		ID:           ws.NextUserID,
		Email:        email,
		PasswordHash: hash,
		NameFirst:    nameFirst,
		NameLast:     nameLast,
		Handle:       d.generateHandle(nameFirst, nameLast),
		GlobalOwner:  len(ws.Users) == 0,
		Stats:        models.UserStats{MessagesSent: []models.StatSample{{Value: 0, TimeStamp: d.clock().Unix()}}},
	}
	ws.NextUserID++
	ws.Users = append(ws.Users, u)

	token := uuid.NewString()
	ws.Sessions[token] = u.ID
	logger.Info("user_registered", "u_id", u.ID, "handle", u.Handle)
	return Session{Token: token, UserID: u.ID}, nil
}

// Login opens a new session for an existing user.
func (d *Directory) Login(email, password string) (Session, error) {
	d.st.Lock()
	defer d.st.Unlock()
	ws := d.st.Workspace()
	u := ws.UserByEmail(email)
	if u == nil {
		return Session{}, errs.BadRequest("email not registered")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return Session{}, errs.BadRequest("incorrect password")
	}
	token := uuid.NewString()
	ws.Sessions[token] = u.ID
	logger.Info("user_logged_in", "u_id", u.ID)
	return Session{Token: token, UserID: u.ID}, nil
}

// Logout invalidates a session token.
func (d *Directory) Logout(token string) error {
	d.st.Lock()
	defer d.st.Unlock()
	ws := d.st.Workspace()
	if _, ok := ws.Sessions[token]; !ok {
		return errs.Forbidden("invalid token")
	}
	delete(ws.Sessions, token)
	return nil
}

// Profile returns the public profile for a user id.
func (d *Directory) Profile(token string, userID int64) (models.Profile, error) {
	d.st.Lock()
	defer d.st.Unlock()
	if _, err := d.ResolveSession(token); err != nil {
		return models.Profile{}, err
	}
	u := d.st.Workspace().UserByID(userID)
	if u == nil {
		return models.Profile{}, errs.BadRequest("u_id does not refer to a valid user")
	}
	return u.Profile(), nil
}
