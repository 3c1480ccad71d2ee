package api

import (
	"net/http"

	"huddle/pkg/utils"
)

func (a *API) createChannel(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name   string `json:"name"`
		Public bool   `json:"is_public"`
	}
	if err := decode(r, &in); err != nil {
		writeErr(w, err)
		return
	}
	id, err := a.Dir.CreateChannel(token(r), in.Name, in.Public)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		ChannelID int64 `json:"channel_id"`
	}{ChannelID: id})
}

func (a *API) listChannels(w http.ResponseWriter, r *http.Request) {
	out, err := a.Dir.ListChannels(token(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Channels interface{} `json:"channels"`
	}{Channels: out})
}

func (a *API) listAllChannels(w http.ResponseWriter, r *http.Request) {
	out, err := a.Dir.ListAllChannels(token(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Channels interface{} `json:"channels"`
	}{Channels: out})
}

func (a *API) channelDetails(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	out, err := a.Dir.Details(token(r), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, out)
}

func (a *API) joinChannel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := a.Dir.JoinChannel(token(r), id); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}

func (a *API) inviteChannel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var in struct {
		UserID int64 `json:"u_id"`
	}
	if err := decode(r, &in); err != nil {
		writeErr(w, err)
		return
	}
	if err := a.Dir.InviteChannel(token(r), id, in.UserID); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}

func (a *API) leaveChannel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := a.Dir.LeaveChannel(token(r), id); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}
