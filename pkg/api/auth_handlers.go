package api

import (
	"net/http"

	"huddle/pkg/utils"
)

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		NameFirst string `json:"name_first"`
		NameLast  string `json:"name_last"`
	}
	if err := decode(r, &in); err != nil {
		writeErr(w, err)
		return
	}
	sess, err := a.Dir.Register(in.Email, in.Password, in.NameFirst, in.NameLast)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, sess)
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &in); err != nil {
		writeErr(w, err)
		return
	}
	sess, err := a.Dir.Login(in.Email, in.Password)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, sess)
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	if err := a.Dir.Logout(token(r)); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}

func (a *API) profile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	p, err := a.Dir.Profile(token(r), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		User interface{} `json:"user"`
	}{User: p})
}
