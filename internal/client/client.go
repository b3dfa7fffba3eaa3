// Package client implements the HTTP and WebSocket calls used by the
// terminal chat client.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Lg0ma/MessagesVS/internal/server/relay"
	"github.com/gorilla/websocket"
)

// Client talks to one MessagesVS server.
type Client struct {
	baseURL string
	wsURL   string
	http    *http.Client
	conn    *websocket.Conn
}

// New builds a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		wsURL:   "ws" + baseURL[len("http"):] + "/ws",
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// LoginResult is the payload of a successful login.
type LoginResult struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Register creates an account. Non-200 responses surface the server's
// message verbatim.
func (c *Client) Register(username, email, password string) error {
	body, status, err := c.postJSON("/api/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%s", body)
	}
	return nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(email, password string) (*LoginResult, error) {
	body, status, err := c.postJSON("/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%s", body)
	}

	result := &LoginResult{}
	if err := json.Unmarshal(body, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) postJSON(path string, payload any) ([]byte, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

// Connect opens the chat connection and announces identity as a join.
func (c *Client) Connect(identity string) error {
	conn, _, err := websocket.DefaultDialer.Dial(c.wsURL, nil)
	if err != nil {
		return err
	}
	c.conn = conn
	return conn.WriteJSON(relay.Event{Sender: identity, Type: relay.EventJoin})
}

// Send broadcasts a chat message under identity.
func (c *Client) Send(identity, content string) error {
	if c.conn == nil {
		return fmt.Errorf("not connected")
	}
	return c.conn.WriteJSON(relay.Event{Sender: identity, Content: content, Type: relay.EventChat})
}

// Leave announces departure and closes the connection.
func (c *Client) Leave(identity string) error {
	if c.conn == nil {
		return nil
	}
	_ = c.conn.WriteJSON(relay.Event{Sender: identity, Type: relay.EventLeave})
	return c.conn.Close()
}

// Receive blocks until the next event arrives.
func (c *Client) Receive() (*relay.Event, error) {
	if c.conn == nil {
		return nil, fmt.Errorf("not connected")
	}
	ev := &relay.Event{}
	if err := c.conn.ReadJSON(ev); err != nil {
		return nil, err
	}
	return ev, nil
}
