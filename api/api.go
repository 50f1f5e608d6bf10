// Package api exposes the control catalog over a websocket so external
// tools can watch and edit values while the host application runs. Remote
// writes are queued and applied on the host's update thread, never from a
// connection goroutine.
package api

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"tweakpanel/tweak"
	"tweakpanel/typedef"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local tooling endpoint
	},
}

// WSClient represents one connected websocket client.
type WSClient struct {
	conn *websocket.Conn
	send chan WSMessage
	id   string
}

// Server is the websocket hub. It broadcasts value updates fed by the
// refresher and collects set requests for the host to apply.
type Server struct {
	addr string
	reg  *tweak.Registry

	clients    map[*WSClient]bool
	register   chan *WSClient
	unregister chan *WSClient
	broadcast  chan WSMessage

	mu      sync.Mutex
	catalog []ControlInfo
	latest  map[string]ValueUpdate
	order   []string
	pending []SetRequest

	handlers map[MessageType]func(*WSClient, WSMessage)
	httpSrv  *http.Server
}

// NewServer creates a server for the given listen address and registry.
// The catalog is snapshotted here, so register all controls first.
func NewServer(addr string, reg *tweak.Registry) *Server {
	s := &Server{
		addr:       addr,
		reg:        reg,
		clients:    make(map[*WSClient]bool),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
		broadcast:  make(chan WSMessage, 256),
		latest:     make(map[string]ValueUpdate),
		handlers:   make(map[MessageType]func(*WSClient, WSMessage)),
	}
	for _, c := range reg.Controls() {
		s.catalog = append(s.catalog, infoFromControl(c))
	}
	s.handlers[MessageTypeSet] = s.handleSet
	s.handlers[MessageTypeCatalog] = s.handleCatalog
	return s
}

// WatchAll registers the server as a display for every control, so value
// broadcasts ride the same dirty-diff pass as the panel widgets.
func (s *Server) WatchAll(r *tweak.Refresher) {
	for _, c := range s.reg.Controls() {
		r.Watch(c, &remoteDisplay{server: s, control: c})
	}
}

// Start launches the hub and the HTTP listener. It returns immediately;
// listen errors are logged.
func (s *Server) Start() {
	go s.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	s.httpSrv = &http.Server{Addr: s.addr, Handler: mux}

	go func() {
		log.Printf("[API] listening on %s", s.addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[API] listen error: %v", err)
		}
	}()
}

// Stop shuts the HTTP listener down.
func (s *Server) Stop() {
	if s.httpSrv != nil {
		_ = s.httpSrv.Close()
	}
}

// ApplyPending applies queued remote set requests through the registry.
// Call it from the host's update loop; it returns how many writes landed.
func (s *Server) ApplyPending() int {
	s.mu.Lock()
	queued := s.pending
	s.pending = nil
	s.mu.Unlock()

	applied := 0
	for _, req := range queued {
		c := s.reg.Lookup(req.Tab, req.Name)
		if c == nil {
			log.Printf("[API] set for unknown control %s/%s", req.Tab, req.Name)
			continue
		}
		if !c.Editable() {
			log.Printf("[API] set for read-only control %s/%s", req.Tab, req.Name)
			continue
		}
		v, err := req.Value.toValue()
		if err != nil {
			log.Printf("[API] set for %s/%s: %v", req.Tab, req.Name, err)
			continue
		}
		s.reg.SetValue(c, v)
		applied++
	}
	return applied
}

// remoteDisplay adapts the server to the refresher's display interface for
// one control. PushValue runs on the host thread.
type remoteDisplay struct {
	server  *Server
	control *tweak.Control
}

func (d *remoteDisplay) PushValue(v typedef.Value) {
	update := ValueUpdate{
		Tab:   d.control.TabName(),
		Name:  d.control.Name,
		Value: payloadFromValue(v),
	}
	key := update.Tab + "/" + update.Name

	s := d.server
	s.mu.Lock()
	if _, seen := s.latest[key]; !seen {
		s.order = append(s.order, key)
	}
	s.latest[key] = update
	s.mu.Unlock()

	msg := WSMessage{Type: MessageTypeUpdate, Data: update, Timestamp: time.Now()}
	select {
	case s.broadcast <- msg:
	default:
		// Broadcast backlog full; the client will catch up on reconnect.
	}
}

func (s *Server) run() {
	for {
		select {
		case client := <-s.register:
			s.clients[client] = true
			log.Printf("[API] client %s connected (%d total)", client.id, len(s.clients))
			s.sendSnapshot(client)

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
				log.Printf("[API] client %s disconnected (%d total)", client.id, len(s.clients))
			}

		case msg := <-s.broadcast:
			for client := range s.clients {
				select {
				case client.send <- msg:
				default:
					// Slow client; drop it rather than stall the hub.
					delete(s.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// sendSnapshot delivers the catalog plus the latest known value of every
// watched control to a freshly connected client.
func (s *Server) sendSnapshot(client *WSClient) {
	s.mu.Lock()
	catalog := make([]ControlInfo, len(s.catalog))
	copy(catalog, s.catalog)
	updates := make([]ValueUpdate, 0, len(s.order))
	for _, key := range s.order {
		updates = append(updates, s.latest[key])
	}
	s.mu.Unlock()

	now := time.Now()
	client.send <- WSMessage{Type: MessageTypeCatalog, Data: catalog, Timestamp: now}
	for _, update := range updates {
		client.send <- WSMessage{Type: MessageTypeUpdate, Data: update, Timestamp: now}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[API] upgrade failed: %v", err)
		return
	}

	client := &WSClient{
		conn: conn,
		send: make(chan WSMessage, 256),
		id:   fmt.Sprintf("%s-%d", r.RemoteAddr, time.Now().UnixNano()),
	}
	s.register <- client

	go s.writePump(client)
	go s.readPump(client)
}

func (s *Server) writePump(client *WSClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) readPump(client *WSClient) {
	defer func() {
		s.unregister <- client
		client.conn.Close()
	}()

	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg WSMessage
		if err := client.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[API] client %s read error: %v", client.id, err)
			}
			return
		}
		s.handleMessage(client, msg)
	}
}

func (s *Server) handleMessage(client *WSClient, msg WSMessage) {
	handler, ok := s.handlers[msg.Type]
	if !ok {
		s.reply(client, WSMessage{
			Type:      MessageTypeError,
			Error:     fmt.Sprintf("unknown message type %q", msg.Type),
			Timestamp: time.Now(),
		})
		return
	}
	handler(client, msg)
}

// handleCatalog re-sends the catalog and latest values on request.
func (s *Server) handleCatalog(client *WSClient, _ WSMessage) {
	s.sendSnapshot(client)
}

// handleSet validates and queues a remote write. The value lands on the
// next host update tick, so the usual observers see it.
func (s *Server) handleSet(client *WSClient, msg WSMessage) {
	req, err := decodeSetRequest(msg.Data)
	if err != nil {
		s.reply(client, WSMessage{Type: MessageTypeError, Error: err.Error(), Timestamp: time.Now()})
		return
	}

	c := s.reg.Lookup(req.Tab, req.Name)
	if c == nil {
		s.reply(client, WSMessage{
			Type:      MessageTypeError,
			Error:     fmt.Sprintf("unknown control %s/%s", req.Tab, req.Name),
			Timestamp: time.Now(),
		})
		return
	}
	if !c.Editable() {
		s.reply(client, WSMessage{
			Type:      MessageTypeError,
			Error:     fmt.Sprintf("control %s/%s is read-only", req.Tab, req.Name),
			Timestamp: time.Now(),
		})
		return
	}
	if _, err := req.Value.toValue(); err != nil {
		s.reply(client, WSMessage{Type: MessageTypeError, Error: err.Error(), Timestamp: time.Now()})
		return
	}

	s.mu.Lock()
	s.pending = append(s.pending, req)
	s.mu.Unlock()

	s.reply(client, WSMessage{Type: MessageTypeAck, Data: req, Timestamp: time.Now()})
}

func (s *Server) reply(client *WSClient, msg WSMessage) {
	select {
	case client.send <- msg:
	default:
	}
}
