package api

import (
	"net/http"

	"huddle/pkg/utils"
)

func (a *API) standupStart(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var in struct {
		Length int64 `json:"length"`
	}
	if err := decode(r, &in); err != nil {
		writeErr(w, err)
		return
	}
	finish, err := a.Eng.StandupStart(token(r), id, in.Length)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		TimeFinish int64 `json:"time_finish"`
	}{TimeFinish: finish})
}

func (a *API) standupActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	out, err := a.Eng.StandupActive(token(r), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, out)
}

func (a *API) standupSend(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var in struct {
		Message string `json:"message"`
	}
	if err := decode(r, &in); err != nil {
		writeErr(w, err)
		return
	}
	if err := a.Eng.StandupSend(token(r), id, in.Message); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}

func (a *API) search(w http.ResponseWriter, r *http.Request) {
	out, err := a.Eng.Search(token(r), r.URL.Query().Get("query_str"))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Messages interface{} `json:"messages"`
	}{Messages: out})
}

func (a *API) notifications(w http.ResponseWriter, r *http.Request) {
	out, err := a.Eng.Notifications(token(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Notifications interface{} `json:"notifications"`
	}{Notifications: out})
}

func (a *API) userStats(w http.ResponseWriter, r *http.Request) {
	out, err := a.Eng.UserStats(token(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		UserStats interface{} `json:"user_stats"`
	}{UserStats: out})
}

func (a *API) workspaceStats(w http.ResponseWriter, r *http.Request) {
	out, err := a.Eng.WorkspaceStats(token(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		WorkspaceStats interface{} `json:"workspace_stats"`
	}{WorkspaceStats: out})
}
