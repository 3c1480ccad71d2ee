// Package api exposes the workspace over HTTP. Handlers are thin: they
// decode the request, call into the directory or engine, and map errors to
// the status carried by the error value.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"huddle/pkg/auth"
	"huddle/pkg/directory"
	"huddle/pkg/engine"
	"huddle/pkg/errs"
	"huddle/pkg/models"
	"huddle/pkg/utils"
)

// API bundles the handler dependencies.
type API struct {
	Dir *directory.Directory
	Eng *engine.Engine
}

func New(dir *directory.Directory, eng *engine.Engine) *API {
	return &API{Dir: dir, Eng: eng}
}

// Router builds the versioned route table.
func (a *API) Router() *mux.Router {
	r := mux.NewRouter()
	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/auth/register", a.register).Methods(http.MethodPost)
	v1.HandleFunc("/auth/login", a.login).Methods(http.MethodPost)
	v1.HandleFunc("/auth/logout", a.logout).Methods(http.MethodPost)

	v1.HandleFunc("/channels", a.createChannel).Methods(http.MethodPost)
	v1.HandleFunc("/channels", a.listChannels).Methods(http.MethodGet)
	v1.HandleFunc("/channels/all", a.listAllChannels).Methods(http.MethodGet)
	v1.HandleFunc("/channels/{id:[0-9]+}", a.channelDetails).Methods(http.MethodGet)
	v1.HandleFunc("/channels/{id:[0-9]+}/join", a.joinChannel).Methods(http.MethodPost)
	v1.HandleFunc("/channels/{id:[0-9]+}/invite", a.inviteChannel).Methods(http.MethodPost)
	v1.HandleFunc("/channels/{id:[0-9]+}/leave", a.leaveChannel).Methods(http.MethodPost)
	v1.HandleFunc("/channels/{id:[0-9]+}/messages", a.channelMessages).Methods(http.MethodGet)
	v1.HandleFunc("/channels/{id:[0-9]+}/messages", a.sendChannelMessage).Methods(http.MethodPost)
	v1.HandleFunc("/channels/{id:[0-9]+}/messages/later", a.sendChannelMessageLater).Methods(http.MethodPost)
	v1.HandleFunc("/channels/{id:[0-9]+}/standup/start", a.standupStart).Methods(http.MethodPost)
	v1.HandleFunc("/channels/{id:[0-9]+}/standup", a.standupActive).Methods(http.MethodGet)
	v1.HandleFunc("/channels/{id:[0-9]+}/standup/send", a.standupSend).Methods(http.MethodPost)

	v1.HandleFunc("/dms", a.createDM).Methods(http.MethodPost)
	v1.HandleFunc("/dms", a.listDMs).Methods(http.MethodGet)
	v1.HandleFunc("/dms/{id:[0-9]+}", a.dmDetails).Methods(http.MethodGet)
	v1.HandleFunc("/dms/{id:[0-9]+}", a.removeDM).Methods(http.MethodDelete)
	v1.HandleFunc("/dms/{id:[0-9]+}/leave", a.leaveDM).Methods(http.MethodPost)
	v1.HandleFunc("/dms/{id:[0-9]+}/messages", a.dmMessages).Methods(http.MethodGet)
	v1.HandleFunc("/dms/{id:[0-9]+}/messages", a.sendDMMessage).Methods(http.MethodPost)
	v1.HandleFunc("/dms/{id:[0-9]+}/messages/later", a.sendDMMessageLater).Methods(http.MethodPost)

	v1.HandleFunc("/messages/{id:[0-9]+}", a.editMessage).Methods(http.MethodPut)
	v1.HandleFunc("/messages/{id:[0-9]+}", a.removeMessage).Methods(http.MethodDelete)
	v1.HandleFunc("/messages/{id:[0-9]+}/share", a.shareMessage).Methods(http.MethodPost)
	v1.HandleFunc("/messages/{id:[0-9]+}/react", a.reactMessage).Methods(http.MethodPost)
	v1.HandleFunc("/messages/{id:[0-9]+}/unreact", a.unreactMessage).Methods(http.MethodPost)
	v1.HandleFunc("/messages/{id:[0-9]+}/pin", a.pinMessage).Methods(http.MethodPost)
	v1.HandleFunc("/messages/{id:[0-9]+}/unpin", a.unpinMessage).Methods(http.MethodPost)

	v1.HandleFunc("/search", a.search).Methods(http.MethodGet)
	v1.HandleFunc("/notifications", a.notifications).Methods(http.MethodGet)
	v1.HandleFunc("/users/{id:[0-9]+}/profile", a.profile).Methods(http.MethodGet)
	v1.HandleFunc("/users/stats", a.userStats).Methods(http.MethodGet)
	v1.HandleFunc("/workspace/stats", a.workspaceStats).Methods(http.MethodGet)

	return r
}

// writeErr maps the error's carried status onto the response.
func writeErr(w http.ResponseWriter, err error) {
	utils.JSONError(w, errs.StatusOf(err), err.Error())
}

// decode reads the JSON request body into v. A malformed body is a 400.
func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.BadRequest("invalid json")
	}
	return nil
}

// pathID parses the {id} route variable. The router's pattern guarantees
// digits, so failures only occur on overflow.
func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errs.BadRequest("invalid id %q", raw)
	}
	return id, nil
}

func channelLoc(id int64) models.Location {
	return models.Location{Kind: models.KindChannel, ID: id}
}

func dmLoc(id int64) models.Location {
	return models.Location{Kind: models.KindDM, ID: id}
}

func token(r *http.Request) string {
	return auth.BearerToken(r)
}
