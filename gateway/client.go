package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"clubci-checkin/models"
)

// Gateway is the station's view of the registration backend.
type Gateway interface {
	Event(ctx context.Context, eventID string) (*models.Event, error)
	Registrations(ctx context.Context, eventID string) ([]models.Registration, error)
	CommitAttendance(ctx context.Context, eventID, username string) error
}

type commitRoute struct {
	name string
	path func(eventID, username string) string
}

// Client talks to the backend over its REST API. Attendance commits walk
// an ordered route list: the v1 route first, then the legacy route older
// deployments expose. Adding a further fallback is appending a route.
type Client struct {
	baseURL      string
	token        string
	http         *http.Client
	commitRoutes []commitRoute
}

func NewClient(baseURL, token string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	c.commitRoutes = []commitRoute{
		{name: "v1", path: func(eventID, username string) string {
			return "/events/" + eventID + "/attendance/" + url.PathEscape(username)
		}},
		{name: "legacy", path: func(eventID, username string) string {
			return "/events/" + eventID + "/attendance"
		}},
	}
	return c
}

func (c *Client) Event(ctx context.Context, eventID string) (*models.Event, error) {
	var ev models.Event
	if err := c.getJSON(ctx, "/events/"+eventID, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (c *Client) Registrations(ctx context.Context, eventID string) ([]models.Registration, error) {
	var regs []models.Registration
	if err := c.getJSON(ctx, "/events/"+eventID+"/registrations", &regs); err != nil {
		return nil, err
	}
	return regs, nil
}

// CommitAttendance marks the user attended, trying each commit route in
// order and stopping at the first success. The routes share one payload
// shape: {username, eventId, timestamp}.
func (c *Client) CommitAttendance(ctx context.Context, eventID, username string) error {
	body := models.AttendanceRequest{
		Username:  username,
		EventID:   eventID,
		Timestamp: time.Now().UnixMilli(),
	}

	var lastErr error
	for _, route := range c.commitRoutes {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := c.postJSON(ctx, route.path(eventID, username), body)
		if err == nil {
			if route.name != c.commitRoutes[0].name {
				log.Printf("gateway: attendance committed via %s route for %s", route.name, username)
			}
			return nil
		}
		lastErr = err
		log.Printf("gateway: %s attendance route failed: %v", route.name, err)
	}
	return lastErr
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("gateway: GET %s: %w", path, err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError("GET", path, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("gateway: GET %s: decode response: %w", path, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body interface{}) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("gateway: POST %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("gateway: POST %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError("POST", path, resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// statusError converts a non-2xx response into an error carrying the
// server's message, so callers never see raw transport details.
func statusError(method, path string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := ""
	if err := json.Unmarshal(b, &payload); err == nil {
		if payload.Error != "" {
			msg = payload.Error
		} else if payload.Message != "" {
			msg = payload.Message
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(string(b))
	}
	if msg == "" {
		msg = resp.Status
	}
	return fmt.Errorf("gateway: %s %s: %s (status %d)", method, path, msg, resp.StatusCode)
}
