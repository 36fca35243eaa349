// Package cdp connects rod's cdp client to a remote browser over gorilla/websocket.
package cdp

import (
	"context"
	"net/http"

	"github.com/go-rod/rod/lib/cdp"
	"github.com/gorilla/websocket"
)

// WsClient dials the devtools websocket of a browser
type WsClient struct {
	WriteBufferSize int
	Header          http.Header
}

// NewWsClient instance
func NewWsClient() *WsClient {
	return &WsClient{
		WriteBufferSize: 1 * 1024 * 1024,
	}
}

// WsConn implements cdp.WebSocketable
type WsConn struct {
	close func()
	conn  *websocket.Conn
}

var _ cdp.WebSocketable = &WsConn{}

// Connect to the websocket url, such as "ws://127.0.0.1:9222/devtools/browser/xxx"
func (c *WsClient) Connect(ctx context.Context, url string) (*WsConn, error) {
	ctx, cancel := context.WithCancel(ctx)
	dialer := *websocket.DefaultDialer
	dialer.WriteBufferSize = c.WriteBufferSize

	conn, _, err := dialer.DialContext(ctx, url, c.Header)
	if err != nil {
		defer cancel()
		return nil, err
	}

	// The ctx will be ignored after the Connection is established,
	// therefore we need extra code to close it.
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	return &WsConn{close: cancel, conn: conn}, nil
}

// Send a message
func (c *WsConn) Send(data []byte) error {
	err := c.conn.WriteMessage(websocket.TextMessage, data)
	c.checkClose(err)
	return err
}

// Read a message
func (c *WsConn) Read() (data []byte, err error) {
	var msgType = -1
	for msgType != websocket.TextMessage && err == nil {
		msgType, data, err = c.conn.ReadMessage()
		c.checkClose(err)
	}
	return
}

// Close the connection
func (c *WsConn) Close() {
	c.close()
}

func (c *WsConn) checkClose(err error) {
	if err != nil {
		c.close()
	}
}

// Client connects a rod cdp client to the websocket url
func Client(ctx context.Context, url string) (*cdp.Client, *WsConn, error) {
	ws, err := NewWsClient().Connect(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	return cdp.New().Start(ws), ws, nil
}
