package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"huddle/pkg/directory"
	"huddle/pkg/engine"
	"huddle/pkg/scheduler"
	"huddle/pkg/store"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	st := store.New()
	dir := directory.New(st)
	sched := scheduler.New()
	t.Cleanup(sched.Stop)
	srv := httptest.NewServer(New(dir, engine.New(st, dir, sched)).Router())
	t.Cleanup(srv.Close)
	return srv
}

// call issues a JSON request and decodes the response body into out when
// out is non-nil. It returns the response status code.
func call(t *testing.T, srv *httptest.Server, method, path, token string, body, out interface{}) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func registerUser(t *testing.T, srv *httptest.Server, email string) (string, int64) {
	t.Helper()
	var sess struct {
		Token  string `json:"token"`
		UserID int64  `json:"auth_user_id"`
	}
	code := call(t, srv, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": email, "password": "password", "name_first": "Al", "name_last": "Ice",
	}, &sess)
	if code != http.StatusOK {
		t.Fatalf("register %s: status %d", email, code)
	}
	return sess.Token, sess.UserID
}

func TestAuthFlow(t *testing.T) {
	srv := newServer(t)

	tok, _ := registerUser(t, srv, "a@b.com")

	if code := call(t, srv, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": "bad", "password": "password", "name_first": "A", "name_last": "B",
	}, nil); code != http.StatusBadRequest {
		t.Fatalf("bad email register: status %d", code)
	}

	var login struct {
		Token string `json:"token"`
	}
	if code := call(t, srv, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "a@b.com", "password": "password",
	}, &login); code != http.StatusOK {
		t.Fatalf("login: status %d", code)
	}

	if code := call(t, srv, http.MethodPost, "/v1/auth/logout", tok, nil, nil); code != http.StatusOK {
		t.Fatalf("logout: status %d", code)
	}
	// The token is dead; the login session is not.
	if code := call(t, srv, http.MethodGet, "/v1/channels", tok, nil, nil); code != http.StatusForbidden {
		t.Fatalf("dead token list: status %d", code)
	}
	if code := call(t, srv, http.MethodGet, "/v1/channels", login.Token, nil, nil); code != http.StatusOK {
		t.Fatalf("live token list: status %d", code)
	}
}

func TestMessageRoundTrip(t *testing.T) {
	srv := newServer(t)
	tok, _ := registerUser(t, srv, "a@b.com")

	var created struct {
		ChannelID int64 `json:"channel_id"`
	}
	if code := call(t, srv, http.MethodPost, "/v1/channels", tok, map[string]interface{}{
		"name": "general", "is_public": true,
	}, &created); code != http.StatusOK {
		t.Fatalf("create channel: status %d", code)
	}

	var sent struct {
		MessageID int64 `json:"message_id"`
	}
	msgPath := fmt.Sprintf("/v1/channels/%d/messages", created.ChannelID)
	if code := call(t, srv, http.MethodPost, msgPath, tok, map[string]string{
		"message": "hello world",
	}, &sent); code != http.StatusOK {
		t.Fatalf("send: status %d", code)
	}

	var page struct {
		Messages []struct {
			ID   int64  `json:"message_id"`
			Body string `json:"message"`
		} `json:"messages"`
		Start int `json:"start"`
		End   int `json:"end"`
	}
	if code := call(t, srv, http.MethodGet, msgPath+"?start=0", tok, nil, &page); code != http.StatusOK {
		t.Fatalf("paginate: status %d", code)
	}
	if len(page.Messages) != 1 || page.Messages[0].ID != sent.MessageID || page.Messages[0].Body != "hello world" {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.End != -1 {
		t.Fatalf("page end %d, want -1", page.End)
	}

	editPath := fmt.Sprintf("/v1/messages/%d", sent.MessageID)
	if code := call(t, srv, http.MethodPut, editPath, tok, map[string]string{"message": "edited"}, nil); code != http.StatusOK {
		t.Fatalf("edit: status %d", code)
	}
	if code := call(t, srv, http.MethodDelete, editPath, tok, nil, nil); code != http.StatusOK {
		t.Fatalf("delete: status %d", code)
	}
	if code := call(t, srv, http.MethodDelete, editPath, tok, nil, nil); code != http.StatusBadRequest {
		t.Fatalf("double delete: status %d", code)
	}
}

func TestStatusMapping(t *testing.T) {
	srv := newServer(t)
	alice, _ := registerUser(t, srv, "a@b.com")
	bob, _ := registerUser(t, srv, "b@b.com")

	var created struct {
		ChannelID int64 `json:"channel_id"`
	}
	call(t, srv, http.MethodPost, "/v1/channels", alice, map[string]interface{}{
		"name": "general", "is_public": true,
	}, &created)
	msgPath := fmt.Sprintf("/v1/channels/%d/messages", created.ChannelID)

	// Unauthenticated is always 403.
	if code := call(t, srv, http.MethodPost, msgPath, "", map[string]string{"message": "x"}, nil); code != http.StatusForbidden {
		t.Fatalf("no token send: status %d", code)
	}
	// Unknown container is 400.
	if code := call(t, srv, http.MethodPost, "/v1/channels/999/messages", alice, map[string]string{"message": "x"}, nil); code != http.StatusBadRequest {
		t.Fatalf("bad channel send: status %d", code)
	}
	// Non-member is 403.
	if code := call(t, srv, http.MethodPost, msgPath, bob, map[string]string{"message": "x"}, nil); code != http.StatusForbidden {
		t.Fatalf("non-member send: status %d", code)
	}

	var sent struct {
		MessageID int64 `json:"message_id"`
	}
	call(t, srv, http.MethodPost, msgPath, alice, map[string]string{"message": "react bait"}, &sent)

	reactPath := fmt.Sprintf("/v1/messages/%d/react", sent.MessageID)
	// Non-member react is the taxonomy's deliberate 400.
	if code := call(t, srv, http.MethodPost, reactPath, bob, map[string]int64{"react_id": 1}, nil); code != http.StatusBadRequest {
		t.Fatalf("non-member react: status %d", code)
	}
	if code := call(t, srv, http.MethodPost, reactPath, alice, map[string]int64{"react_id": 1}, nil); code != http.StatusOK {
		t.Fatalf("react: status %d", code)
	}
	if code := call(t, srv, http.MethodPost, reactPath, alice, map[string]int64{"react_id": 1}, nil); code != http.StatusBadRequest {
		t.Fatalf("double react: status %d", code)
	}
}

func TestShareAndNotifications(t *testing.T) {
	srv := newServer(t)
	alice, aliceID := registerUser(t, srv, "a@b.com")
	bob, bobID := registerUser(t, srv, "b@b.com")
	_ = aliceID

	var ch struct {
		ChannelID int64 `json:"channel_id"`
	}
	call(t, srv, http.MethodPost, "/v1/channels", alice, map[string]interface{}{
		"name": "general", "is_public": true,
	}, &ch)

	var dm struct {
		DMID int64 `json:"dm_id"`
	}
	if code := call(t, srv, http.MethodPost, "/v1/dms", alice, map[string][]int64{
		"u_ids": {bobID},
	}, &dm); code != http.StatusOK {
		t.Fatalf("create dm: status %d", code)
	}

	var sent struct {
		MessageID int64 `json:"message_id"`
	}
	call(t, srv, http.MethodPost, fmt.Sprintf("/v1/channels/%d/messages", ch.ChannelID), alice,
		map[string]string{"message": "worth sharing"}, &sent)

	var shared struct {
		SharedMessageID int64 `json:"shared_message_id"`
	}
	if code := call(t, srv, http.MethodPost, fmt.Sprintf("/v1/messages/%d/share", sent.MessageID), alice,
		map[string]interface{}{"message": "fyi", "channel_id": -1, "dm_id": dm.DMID}, &shared); code != http.StatusOK {
		t.Fatalf("share: status %d", code)
	}
	if shared.SharedMessageID == sent.MessageID {
		t.Fatal("share reused the original id")
	}

	var notes struct {
		Notifications []struct {
			DMID    int64  `json:"dm_id"`
			Message string `json:"notification_message"`
		} `json:"notifications"`
	}
	if code := call(t, srv, http.MethodGet, "/v1/notifications", bob, nil, &notes); code != http.StatusOK {
		t.Fatalf("notifications: status %d", code)
	}
	if len(notes.Notifications) != 1 || notes.Notifications[0].DMID != dm.DMID {
		t.Fatalf("unexpected notifications %+v", notes.Notifications)
	}
}

func TestSearchAndStatsRoutes(t *testing.T) {
	srv := newServer(t)
	tok, _ := registerUser(t, srv, "a@b.com")

	var ch struct {
		ChannelID int64 `json:"channel_id"`
	}
	call(t, srv, http.MethodPost, "/v1/channels", tok, map[string]interface{}{
		"name": "general", "is_public": true,
	}, &ch)
	call(t, srv, http.MethodPost, fmt.Sprintf("/v1/channels/%d/messages", ch.ChannelID), tok,
		map[string]string{"message": "find me later"}, nil)

	var found struct {
		Messages []struct {
			Body string `json:"message"`
		} `json:"messages"`
	}
	if code := call(t, srv, http.MethodGet, "/v1/search?query_str=find", tok, nil, &found); code != http.StatusOK {
		t.Fatalf("search: status %d", code)
	}
	if len(found.Messages) != 1 || found.Messages[0].Body != "find me later" {
		t.Fatalf("unexpected search result %+v", found.Messages)
	}
	if code := call(t, srv, http.MethodGet, "/v1/search?query_str=", tok, nil, nil); code != http.StatusBadRequest {
		t.Fatalf("empty query: status %d", code)
	}

	var us struct {
		UserStats struct {
			InvolvementRate float64 `json:"involvement_rate"`
		} `json:"user_stats"`
	}
	if code := call(t, srv, http.MethodGet, "/v1/users/stats", tok, nil, &us); code != http.StatusOK {
		t.Fatalf("user stats: status %d", code)
	}
	if us.UserStats.InvolvementRate != 1 {
		t.Fatalf("involvement %v, want 1", us.UserStats.InvolvementRate)
	}

	var wsStats struct {
		WorkspaceStats struct {
			UtilizationRate float64 `json:"utilization_rate"`
		} `json:"workspace_stats"`
	}
	if code := call(t, srv, http.MethodGet, "/v1/workspace/stats", tok, nil, &wsStats); code != http.StatusOK {
		t.Fatalf("workspace stats: status %d", code)
	}
	if wsStats.WorkspaceStats.UtilizationRate != 1 {
		t.Fatalf("utilization %v, want 1", wsStats.WorkspaceStats.UtilizationRate)
	}
}
