package users

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

	"github.com/aDevMister/my-assesment/internal/models"
)

// HTTPRemote talks JSON to a REST users resource rooted at BaseURL + "/users".
type HTTPRemote struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPRemote builds a client for baseURL. A zero timeout leaves the client
// without one; callers still bound each call with their context.
func NewHTTPRemote(baseURL, token string, timeout time.Duration) *HTTPRemote {
	return &HTTPRemote{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient swaps the underlying client, e.g. for an httptest server.
func (r *HTTPRemote) WithHTTPClient(c *http.Client) *HTTPRemote {
	r.httpClient = c
	return r
}

func (r *HTTPRemote) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	body, err := r.do(ctx, "fetch", http.MethodGet, "/users", nil)
	if err != nil {
		return nil, err
	}
	if err := decode("fetch", body, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.User{}
	}
	return out, nil
}

func (r *HTTPRemote) Create(ctx context.Context, c models.Candidate) (models.User, error) {
	var out models.User
	body, err := r.do(ctx, "add", http.MethodPost, "/users", c)
	if err != nil {
		return out, err
	}
	if err := decode("add", body, &out); err != nil {
		return out, err
	}
	if out.ID == 0 {
		return out, &RemoteError{Op: "add", Kind: KindDecode, Err: errors.New("created user has no id")}
	}
	return out, nil
}

func (r *HTTPRemote) Replace(ctx context.Context, u models.User) (*models.User, error) {
	body, err := r.do(ctx, "update", http.MethodPut, fmt.Sprintf("/users/%d", u.ID), u)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var out models.User
	if err := decode("update", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *HTTPRemote) Delete(ctx context.Context, id int) error {
	_, err := r.do(ctx, "delete", http.MethodDelete, fmt.Sprintf("/users/%d", id), nil)
	return err
}

func (r *HTTPRemote) do(ctx context.Context, op, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, &RemoteError{Op: op, Kind: KindTransport, Err: fmt.Errorf("encode request: %w", err)}
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reqBody)
	if err != nil {
		return nil, &RemoteError{Op: op, Kind: KindTransport, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &RemoteError{Op: op, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteError{Op: op, Kind: KindTransport, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteError{Op: op, Kind: KindStatus, StatusCode: resp.StatusCode}
	}
	return body, nil
}

func decode(op string, body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &RemoteError{Op: op, Kind: KindDecode, Err: err}
	}
	return nil
}
