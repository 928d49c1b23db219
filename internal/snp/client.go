package snp

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// DefaultAddress is where the notification daemon listens.
const DefaultAddress = "127.0.0.1:9887"

// ErrNotConnected is returned when a send is attempted without an open connection.
var ErrNotConnected = errors.New("not connected to notification daemon")

// Config contains connection options for Client.
type Config struct {
	App     string
	Address string
	Timeout time.Duration
}

// Client holds at most one connection to the daemon.
// It is not safe for concurrent use; the dispatch loop owns it.
type Client struct {
	config     Config
	conn       net.Conn
	registered bool
	dial       func(network, address string, timeout time.Duration) (net.Conn, error)
}

// NewClient creates an unregistered client.
func NewClient(config Config) *Client {
	if config.Address == "" {
		config.Address = DefaultAddress
	}
	if config.Timeout <= 0 {
		config.Timeout = 2 * time.Second
	}
	return &Client{
		config: config,
		dial:   net.DialTimeout,
	}
}

// Registered reports whether the last registration succeeded and no send failed since.
func (client *Client) Registered() bool {
	return client.registered
}

// Register opens a fresh connection and announces the application.
// It is a no-op when already registered.
func (client *Client) Register() error {
	if client.registered {
		return nil
	}
	client.closeConn()

	conn, err := client.dial("tcp", client.config.Address, client.config.Timeout)
	if err != nil {
		return fmt.Errorf("register: dial %s: %w", client.config.Address, err)
	}
	client.conn = conn

	if err := client.send(RegisterMessage(client.config.App)); err != nil {
		client.closeConn()
		return fmt.Errorf("register: %w", err)
	}
	client.registered = true
	return nil
}

// Notify sends a notification over the current connection. timeout is in seconds.
// A failed send does not change the registration state; callers decide via Drop.
// title and text containing "#?" or a line break are refused with ErrMalformedLine.
func (client *Client) Notify(title, text string, timeout int) error {
	if err := client.send(NotificationMessage(client.config.App, title, text, timeout)); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}

// Unregister makes a single attempt to withdraw the application.
func (client *Client) Unregister() error {
	if err := client.send(UnregisterMessage(client.config.App)); err != nil {
		return fmt.Errorf("unregister: %w", err)
	}
	client.registered = false
	return nil
}

// Drop forgets the registration so the next Register reconnects.
func (client *Client) Drop() {
	client.registered = false
	client.closeConn()
}

// Close releases the connection.
func (client *Client) Close() error {
	client.registered = false
	if client.conn == nil {
		return nil
	}
	err := client.conn.Close()
	client.conn = nil
	return err
}

func (client *Client) send(message Message) error {
	if err := message.Validate(); err != nil {
		return err
	}
	if client.conn == nil {
		return ErrNotConnected
	}
	if err := client.conn.SetWriteDeadline(time.Now().Add(client.config.Timeout)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if _, err := client.conn.Write([]byte(message.Encode())); err != nil {
		return fmt.Errorf("write %s: %w", message.Action, err)
	}
	return nil
}

func (client *Client) closeConn() {
	if client.conn == nil {
		return
	}
	_ = client.conn.Close()
	client.conn = nil
}
