package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/takaryo1010/OneTimeChat/client/domain"
	"github.com/takaryo1010/OneTimeChat/client/usecase"
)

// Cookie names the server uses to carry the session identity.
const (
	cookieSessionID = "session_id"
	cookieRoomID    = "room_id"
	cookieUserName  = "user_name"
	cookieIsOwner   = "is_owner"
)

// Repository talks to the room lifecycle REST API. Requests go out with
// the shared cookie jar so the session cookie travels on every call, the
// same way the browser client sends credentials.
type Repository struct {
	base *url.URL
	http *http.Client
	log  *slog.Logger
}

// New builds a lifecycle client for the API at baseURL. The returned
// cookie jar must be shared with the realtime channel dialer so both
// transports present the same session.
func New(baseURL string, log *slog.Logger) (*Repository, http.CookieJar, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing base URL: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	return &Repository{
		base: base,
		http: &http.Client{Jar: jar},
		log:  log,
	}, jar, nil
}

var _ usecase.Lifecycle = (*Repository)(nil)

// Identity reads the session identity the server deposited in the cookie
// jar. The zero value means no session has been established yet.
func (r *Repository) Identity() domain.SessionIdentity {
	var id domain.SessionIdentity
	for _, c := range r.http.Jar.Cookies(r.base) {
		switch c.Name {
		case cookieSessionID:
			id.SessionID = c.Value
		case cookieRoomID:
			id.RoomID = c.Value
		case cookieUserName:
			if name, err := url.QueryUnescape(c.Value); err == nil {
				id.UserName = name
			} else {
				id.UserName = c.Value
			}
		case cookieIsOwner:
			id.IsOwner = c.Value == "true"
		}
	}
	return id
}

// RestoreIdentity seeds the cookie jar with a previously persisted
// session, so a fresh process can resume where create/join left off.
func (r *Repository) RestoreIdentity(id domain.SessionIdentity) {
	r.http.Jar.SetCookies(r.base, []*http.Cookie{
		{Name: cookieSessionID, Value: id.SessionID, Path: "/"},
		{Name: cookieRoomID, Value: id.RoomID, Path: "/"},
		{Name: cookieUserName, Value: url.QueryEscape(id.UserName), Path: "/"},
		{Name: cookieIsOwner, Value: fmt.Sprintf("%t", id.IsOwner), Path: "/"},
	})
}

func (r *Repository) CreateRoom(ctx context.Context, cfg domain.RoomConfig) (domain.Room, error) {
	var room domain.Room
	if err := r.do(ctx, http.MethodPost, "/room", cfg, &room, "create room"); err != nil {
		return domain.Room{}, err
	}
	return room, nil
}

func (r *Repository) JoinRoom(ctx context.Context, roomID, clientName string) (domain.JoinResult, error) {
	body := struct {
		ClientName string `json:"client_name"`
	}{ClientName: clientName}

	var resp struct {
		RoomID    string `json:"roomID"`
		SessionID string `json:"sessionID"`
	}
	if err := r.do(ctx, http.MethodPost, "/room/"+url.PathEscape(roomID), body, &resp, "join room"); err != nil {
		return domain.JoinResult{}, err
	}
	return domain.JoinResult{
		RoomID:         resp.RoomID,
		SessionID:      resp.SessionID,
		SessionGranted: resp.SessionID != "",
	}, nil
}

func (r *Repository) GetRoom(ctx context.Context, roomID string) (domain.Room, error) {
	var room domain.Room
	if err := r.do(ctx, http.MethodGet, "/room/"+url.PathEscape(roomID), nil, &room, "get room"); err != nil {
		return domain.Room{}, err
	}
	return room, nil
}

func (r *Repository) CheckAuthorized(ctx context.Context, roomID string) (bool, error) {
	var resp struct {
		IsAuth bool `json:"isAuth"`
	}
	if err := r.do(ctx, http.MethodGet, "/room/"+url.PathEscape(roomID)+"/isAuth", nil, &resp, "check authorization"); err != nil {
		return false, err
	}
	return resp.IsAuth, nil
}

func (r *Repository) ListParticipants(ctx context.Context, roomID string) (domain.Roster, error) {
	var roster domain.Roster
	if err := r.do(ctx, http.MethodGet, "/room/"+url.PathEscape(roomID)+"/participants", nil, &roster, "list participants"); err != nil {
		return domain.Roster{}, err
	}
	return roster, nil
}

func (r *Repository) Approve(ctx context.Context, roomID, clientID string) error {
	path := "/room/" + url.PathEscape(roomID) + "/auth?client_id=" + url.QueryEscape(clientID)
	return r.do(ctx, http.MethodPost, path, nil, nil, "approve participant")
}

// Kick removes a participant. The server answers 404 for a client that is
// already gone; kicking an absent client is not an error.
func (r *Repository) Kick(ctx context.Context, roomID, clientID string) error {
	path := "/room/" + url.PathEscape(roomID) + "/kick?client_id=" + url.QueryEscape(clientID)
	err := r.do(ctx, http.MethodDelete, path, nil, nil, "kick participant")
	var herr *domain.HTTPError
	if errors.As(err, &herr) && (herr.Status == http.StatusNotFound || herr.Status == http.StatusGone) {
		return nil
	}
	return err
}

func (r *Repository) Leave(ctx context.Context, roomID string) error {
	return r.do(ctx, http.MethodDelete, "/room/"+url.PathEscape(roomID)+"/leave", nil, nil, "leave room")
}

func (r *Repository) UpdateSettings(ctx context.Context, roomID string, cfg domain.RoomConfig) (domain.Room, error) {
	var room domain.Room
	if err := r.do(ctx, http.MethodPatch, "/room/"+url.PathEscape(roomID)+"/settings", cfg, &room, "update settings"); err != nil {
		return domain.Room{}, err
	}
	return room, nil
}

func (r *Repository) DeleteRoom(ctx context.Context, roomID string) error {
	return r.do(ctx, http.MethodDelete, "/room/"+url.PathEscape(roomID), nil, nil, "delete room")
}

// do runs one JSON request. A request that never completes maps to
// *domain.NetworkError, a rejected one to *domain.HTTPError; out may be
// nil for calls whose body is irrelevant.
func (r *Repository) do(ctx context.Context, method, path string, in, out any, op string) error {
	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("%s: parsing path: %w", op, err)
	}
	target := r.base.ResolveReference(ref)

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encoding body: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return fmt.Errorf("%s: building request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	reqID := uuid.NewString()
	start := time.Now()
	resp, err := r.http.Do(req)
	if err != nil {
		r.log.Debug("request failed", "op", op, "req_id", reqID, "err", err)
		return &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	r.log.Debug("request done",
		"op", op, "req_id", reqID, "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &domain.HTTPError{Op: op, Status: resp.StatusCode}
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return nil
}
