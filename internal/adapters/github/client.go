package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/classdash/core/internal/domain/entities"
	"github.com/classdash/core/internal/infrastructure/config"
	"github.com/classdash/core/internal/infrastructure/logger"
	"github.com/classdash/core/internal/ports"
)

// Client talks to the GitHub contents API and the raw-content mirror
type Client struct {
	http   *http.Client
	cfg    config.RemoteConfig
	logger *logger.Logger
}

// NewClient creates a contents API client. A nil httpClient gets one with cfg.Timeout.
func NewClient(cfg config.RemoteConfig, httpClient *http.Client, log *logger.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		http:   httpClient,
		cfg:    cfg,
		logger: log.WithComponent("github"),
	}
}

var _ ports.RemoteContent = (*Client)(nil)

// RawURL returns the raw-content address of the dataset on the configured branch.
func (c *Client) RawURL(creds entities.RepoCredentials) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s",
		strings.TrimRight(c.cfg.RawBaseURL, "/"),
		url.PathEscape(creds.Owner),
		url.PathEscape(creds.Repo),
		c.cfg.Branch,
		strings.TrimLeft(c.cfg.Path, "/"),
	)
}

func (c *Client) contentsURL(creds entities.RepoCredentials) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		strings.TrimRight(c.cfg.APIBaseURL, "/"),
		url.PathEscape(creds.Owner),
		url.PathEscape(creds.Repo),
		strings.TrimLeft(c.cfg.Path, "/"),
	)
}

// authorized returns a client sending "Authorization: Bearer <token>".
func (c *Client) authorized(ctx context.Context, token string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	client.Timeout = c.http.Timeout
	return client
}

// GetFile reads the metadata of the dataset file.
func (c *Client) GetFile(ctx context.Context, creds entities.RepoCredentials) (*ports.RemoteFile, error) {
	target := c.contentsURL(creds)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build metadata request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, body, err := c.do(ctx, creds.Token, req)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ports.ErrRemoteNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, remoteError(resp.StatusCode, body)
	}

	var file ports.RemoteFile
	if err := json.Unmarshal(body, &file); err != nil {
		return nil, fmt.Errorf("decode metadata response: %w", err)
	}
	return &file, nil
}

type putFileBody struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
}

type putFileResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

// PutFile creates or overwrites the dataset file. With a SHA the write only succeeds if
// the file still has that revision.
func (c *Client) PutFile(ctx context.Context, creds entities.RepoCredentials, put ports.PutFileRequest) (*ports.PutFileResult, error) {
	payload, err := json.Marshal(putFileBody{
		Message: put.Message,
		Content: EncodeContent(put.Content),
		SHA:     put.SHA,
	})
	if err != nil {
		return nil, fmt.Errorf("encode put request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.contentsURL(creds), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build put request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")

	resp, body, err := c.do(ctx, creds.Token, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, remoteError(resp.StatusCode, body)
	}

	var out putFileResponse
	if err := json.Unmarshal(body, &out); err != nil {
		// the write happened; only the echo of the new revision is unreadable
		c.logger.Warnw("Unreadable put response", "error", err)
		return &ports.PutFileResult{}, nil
	}
	return &ports.PutFileResult{ContentSHA: out.Content.SHA, CommitSHA: out.Commit.SHA}, nil
}

func (c *Client) do(ctx context.Context, token string, req *http.Request) (*http.Response, []byte, error) {
	start := time.Now()
	resp, err := c.authorized(ctx, token).Do(req)
	if err != nil {
		c.logger.LogRemoteCall(req.Method, req.URL.String(), 0, msSince(start), err)
		return nil, nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	c.logger.LogRemoteCall(req.Method, req.URL.String(), resp.StatusCode, msSince(start), err)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s response: %w", req.Method, err)
	}
	return resp, body, nil
}

func remoteError(status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)
	return &ports.RemoteError{StatusCode: status, Message: payload.Message}
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Nanoseconds()) / 1e6
}
