package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iulianpascalau/live-dashboard/services/dashboard/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("transport")

const closeWriteTimeout = time.Second

var errNilSink = errors.New("nil sink")

var errEmptyURL = errors.New("empty stream URL")

var errAlreadyStarted = errors.New("stream already started")

// ArgsWebsocketStream is the DTO used to create a new websocket stream
type ArgsWebsocketStream struct {
	URL              string
	HandshakeTimeout time.Duration
	AuthToken        string
	Sink             Sink
}

// websocketStream reads the telemetry push channel and forwards every message to the sink.
// It never sends anything upstream apart from the close frame and it does not reconnect.
type websocketStream struct {
	url    string
	header http.Header
	dialer *websocket.Dialer
	sink   Sink

	mut     sync.Mutex
	conn    *websocket.Conn
	started bool
	closed  bool
	loopWg  sync.WaitGroup
}

// NewWebsocketStream creates a new websocket stream
func NewWebsocketStream(args ArgsWebsocketStream) (*websocketStream, error) {
	if len(args.URL) == 0 {
		return nil, errEmptyURL
	}
	if check.IfNil(args.Sink) {
		return nil, errNilSink
	}

	header := http.Header{}
	if len(args.AuthToken) > 0 {
		header.Set("Authorization", "Bearer "+args.AuthToken)
	}

	return &websocketStream{
		url:    args.URL,
		header: header,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: args.HandshakeTimeout,
		},
		sink: args.Sink,
	}, nil
}

// Start dials the push channel and launches the read loop. A failed dial marks the channel as lost.
func (ws *websocketStream) Start(ctx context.Context) error {
	ws.mut.Lock()
	defer ws.mut.Unlock()

	if ws.started {
		return errAlreadyStarted
	}
	ws.started = true

	ws.sink.SetChannelState(common.ChannelConnecting)
	log.Info("dialing telemetry stream", "url", ws.url)

	conn, _, err := ws.dialer.DialContext(ctx, ws.url, ws.header)
	if err != nil {
		ws.sink.SetChannelState(common.ChannelLost)
		return fmt.Errorf("websocket dial failed: %w", err)
	}

	ws.conn = conn
	ws.sink.SetChannelState(common.ChannelConnected)

	ws.loopWg.Add(1)
	go ws.readLoop(conn)

	return nil
}

func (ws *websocketStream) readLoop(conn *websocket.Conn) {
	defer ws.loopWg.Done()

	for {
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			ws.onReadError(err)
			return
		}
		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			continue
		}

		if !ws.sink.Submit(payload) {
			log.Debug("sink no longer accepts messages, stopping the read loop", "url", ws.url)
			return
		}
	}
}

func (ws *websocketStream) onReadError(err error) {
	ws.mut.Lock()
	closed := ws.closed
	ws.mut.Unlock()
	if closed {
		return
	}

	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		log.Warn("telemetry stream closed by the producer", "url", ws.url, "reason", err.Error())
	} else {
		log.Error("telemetry stream read failed", "url", ws.url, "error", err)
	}
	ws.sink.SetChannelState(common.ChannelLost)
}

// Close sends the close frame, closes the connection and waits for the read loop to finish
func (ws *websocketStream) Close() error {
	ws.mut.Lock()
	if ws.closed {
		ws.mut.Unlock()
		return nil
	}
	ws.closed = true
	conn := ws.conn
	ws.mut.Unlock()

	if conn == nil {
		return nil
	}

	message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	errWrite := conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(closeWriteTimeout))
	if errWrite != nil {
		log.Debug("can not send the close frame", "error", errWrite)
	}

	err := conn.Close()
	ws.loopWg.Wait()

	return err
}

// IsInterfaceNil returns true if the value under the interface is nil
func (ws *websocketStream) IsInterfaceNil() bool {
	return ws == nil
}
