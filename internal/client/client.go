// Package client talks to a ticklist sync server. It satisfies the same
// adapter contract as the local store, so the CLI can point at either
// backend without changing any command logic.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ticklist/internal/model"
)

// ErrUnauthorized marks a rejected or expired session; callers should
// prompt for a fresh login.
var ErrUnauthorized = errors.New("not logged in or session expired")

type Client struct {
	BaseURL string
	Token   string

	// HTTPClient defaults to a client with a request timeout.
	HTTPClient *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Session mirrors the server's signup/login response.
type Session struct {
	Token      string            `json:"token"`
	User       model.User        `json:"user"`
	Checklists []model.Checklist `json:"checklists"`
}

type apiError struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	hc := c.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server: %s", apiErr.Error)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) Signup(ctx context.Context, name, email, password string) (Session, error) {
	var sess Session
	err := c.do(ctx, http.MethodPost, "/auth/signup", map[string]string{
		"name": name, "email": email, "password": password,
	}, &sess)
	if err != nil {
		return Session{}, err
	}
	c.Token = sess.Token
	return sess, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var sess Session
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email": email, "password": password,
	}, &sess)
	if err != nil {
		return Session{}, err
	}
	c.Token = sess.Token
	return sess, nil
}

func (c *Client) Me(ctx context.Context) (model.User, error) {
	var resp struct {
		User model.User `json:"user"`
	}
	err := c.do(ctx, http.MethodGet, "/me", nil, &resp)
	return resp.User, err
}

// AccountUpdate carries only the fields being changed; nil fields are left
// untouched on the server.
type AccountUpdate struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

func (c *Client) UpdateMe(ctx context.Context, upd AccountUpdate) (model.User, error) {
	var u model.User
	err := c.do(ctx, http.MethodPut, "/me", upd, &u)
	return u, err
}

// LoadChecklists implements the store adapter contract against the remote
// account.
func (c *Client) LoadChecklists() ([]model.Checklist, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	var lists []model.Checklist
	if err := c.do(ctx, http.MethodGet, "/checklists", nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// SaveChecklists replaces the remote collection with the given snapshot,
// the same full-replacement semantics the local store uses.
func (c *Client) SaveChecklists(lists []model.Checklist) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return c.do(ctx, http.MethodPut, "/checklists", lists, nil)
}

func (c *Client) CreateChecklist(ctx context.Context, list model.Checklist) (model.Checklist, error) {
	var out model.Checklist
	err := c.do(ctx, http.MethodPost, "/checklists", list, &out)
	return out, err
}

func (c *Client) PutChecklist(ctx context.Context, list model.Checklist) (model.Checklist, error) {
	var out model.Checklist
	err := c.do(ctx, http.MethodPut, "/checklists/"+list.ID, list, &out)
	return out, err
}

func (c *Client) DeleteChecklist(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/checklists/"+id, nil, nil)
}
