package api

import (
	"net/http"

	"huddle/pkg/utils"
)

func (a *API) createDM(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserIDs []int64 `json:"u_ids"`
	}
	if err := decode(r, &in); err != nil {
		writeErr(w, err)
		return
	}
	id, err := a.Dir.CreateDM(token(r), in.UserIDs)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		DMID int64 `json:"dm_id"`
	}{DMID: id})
}

func (a *API) listDMs(w http.ResponseWriter, r *http.Request) {
	out, err := a.Dir.ListDMs(token(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		DMs interface{} `json:"dms"`
	}{DMs: out})
}

func (a *API) dmDetails(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	out, err := a.Dir.DMDetails(token(r), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, out)
}

func (a *API) leaveDM(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := a.Dir.LeaveDM(token(r), id); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}

func (a *API) removeDM(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := a.Dir.RemoveDM(token(r), id); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}
