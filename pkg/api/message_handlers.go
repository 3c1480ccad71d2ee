package api

import (
	"net/http"
	"strconv"

	"huddle/pkg/engine"
	"huddle/pkg/errs"
	"huddle/pkg/models"
	"huddle/pkg/utils"
)

// paginate serves GET …/messages?start=N for both container kinds.
func (a *API) paginate(w http.ResponseWriter, r *http.Request, loc models.Location) {
	start := 0
	if raw := r.URL.Query().Get("start"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeErr(w, errs.BadRequest("start must be an integer"))
			return
		}
		start = n
	}
	page, err := a.Eng.Paginate(token(r), loc, start)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, page)
}

func (a *API) send(w http.ResponseWriter, r *http.Request, loc models.Location) {
	var in struct {
		Message string `json:"message"`
	}
	if err := decode(r, &in); err != nil {
		writeErr(w, err)
		return
	}
	id, err := a.Eng.Send(token(r), loc, in.Message)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		MessageID int64 `json:"message_id"`
	}{MessageID: id})
}

func (a *API) sendLater(w http.ResponseWriter, r *http.Request, loc models.Location) {
	var in struct {
		Message string `json:"message"`
		SendAt  int64  `json:"time_sent"`
	}
	if err := decode(r, &in); err != nil {
		writeErr(w, err)
		return
	}
	id, err := a.Eng.SendLater(token(r), loc, in.Message, in.SendAt)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		MessageID int64 `json:"message_id"`
	}{MessageID: id})
}

func (a *API) channelMessages(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	a.paginate(w, r, channelLoc(id))
}

func (a *API) sendChannelMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	a.send(w, r, channelLoc(id))
}

func (a *API) sendChannelMessageLater(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	a.sendLater(w, r, channelLoc(id))
}

func (a *API) dmMessages(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	a.paginate(w, r, dmLoc(id))
}

func (a *API) sendDMMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	a.send(w, r, dmLoc(id))
}

func (a *API) sendDMMessageLater(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	a.sendLater(w, r, dmLoc(id))
}

func (a *API) editMessage(w http.ResponseWriter, r *http.Request) {
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
	if err := a.Eng.Edit(token(r), id, in.Message); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}

func (a *API) removeMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := a.Eng.Remove(token(r), id); err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}

func (a *API) shareMessage(w http.ResponseWriter, r *http.Request) {
	ogID, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	in := struct {
		Message   string `json:"message"`
		ChannelID int64  `json:"channel_id"`
		DMID      int64  `json:"dm_id"`
	}{ChannelID: engine.UnsetID, DMID: engine.UnsetID}
	if err := decode(r, &in); err != nil {
		writeErr(w, err)
		return
	}
	id, err := a.Eng.Share(token(r), ogID, in.Message, in.ChannelID, in.DMID)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		SharedMessageID int64 `json:"shared_message_id"`
	}{SharedMessageID: id})
}

func (a *API) setReaction(w http.ResponseWriter, r *http.Request, on bool) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var in struct {
		ReactID int64 `json:"react_id"`
	}
	if err := decode(r, &in); err != nil {
		writeErr(w, err)
		return
	}
	if on {
		err = a.Eng.React(token(r), id, in.ReactID)
	} else {
		err = a.Eng.Unreact(token(r), id, in.ReactID)
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}

func (a *API) reactMessage(w http.ResponseWriter, r *http.Request)   { a.setReaction(w, r, true) }
func (a *API) unreactMessage(w http.ResponseWriter, r *http.Request) { a.setReaction(w, r, false) }

func (a *API) setPin(w http.ResponseWriter, r *http.Request, on bool) {
	id, err := pathID(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	if on {
		err = a.Eng.Pin(token(r), id)
	} else {
		err = a.Eng.Unpin(token(r), id)
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct{}{})
}

func (a *API) pinMessage(w http.ResponseWriter, r *http.Request)   { a.setPin(w, r, true) }
func (a *API) unpinMessage(w http.ResponseWriter, r *http.Request) { a.setPin(w, r, false) }
