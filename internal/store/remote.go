package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gardenmap/internal/model"
)

// APIError is the JSON error body returned by the gardenmap REST API.
type APIError struct {
	Message string `json:"error"`
	Kind    string `json:"kind"`
	Field   string `json:"field,omitempty"`
	ID      string `json:"id,omitempty"`
}

const (
	APIErrorValidation = "validation"
	APIErrorNotFound   = "not_found"
	APIErrorConflict   = "conflict"
	APIErrorStore      = "store"
	APIErrorInternal   = "internal"
)

// RemoteStore is a client for another gardenmap server's /api/plants endpoints.
type RemoteStore struct {
	base   *url.URL
	client *http.Client
}

func NewRemote(baseURL string, client *http.Client) (*RemoteStore, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("remote store: missing url")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("remote store: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("remote store: unsupported scheme %q", u.Scheme)
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &RemoteStore{base: u, client: client}, nil
}

func (s *RemoteStore) endpoint(parts ...string) string {
	u := *s.base
	segs := []string{strings.TrimSuffix(u.Path, "/"), "api", "plants"}
	for _, p := range parts {
		segs = append(segs, url.PathEscape(p))
	}
	u.Path = strings.Join(segs, "/")
	u.RawPath = ""
	return u.String()
}

func (s *RemoteStore) do(ctx context.Context, method, target string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var apiErr APIError
	if err := json.Unmarshal(b, &apiErr); err != nil || apiErr.Kind == "" {
		return fmt.Errorf("remote store: %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}
	switch apiErr.Kind {
	case APIErrorNotFound:
		return model.NotFoundError{Kind: "plant", ID: apiErr.ID}
	case APIErrorValidation:
		return model.ValidationError{Field: apiErr.Field, Reason: apiErr.Message}
	default:
		return fmt.Errorf("remote store: %s: %s", resp.Status, apiErr.Message)
	}
}

func (s *RemoteStore) GetAll(ctx context.Context) ([]model.Plant, error) {
	var out []model.Plant
	if err := s.do(ctx, http.MethodGet, s.endpoint(), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Plant{}
	}
	return out, nil
}

func (s *RemoteStore) Insert(ctx context.Context, p model.Plant) error {
	return s.do(ctx, http.MethodPost, s.endpoint(), p, nil)
}

func (s *RemoteStore) Update(ctx context.Context, p model.Plant) error {
	return s.do(ctx, http.MethodPut, s.endpoint(p.ID), p, nil)
}

func (s *RemoteStore) Delete(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, s.endpoint(id), nil, nil)
}

func (s *RemoteStore) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
