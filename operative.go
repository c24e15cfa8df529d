// Operative game transport
//
// Two teams of field agents race to identify their own operatives on a
// 5x5 grid of code words. Each team's Spymaster sees which words belong
// to whom and gives one-word clues; Operatives reveal cards one at a
// time, trying to clear their team's nine (or eight) agents without
// touching the assassin.
//
// Features:
// - One WebSocket endpoint: /operative/ws; rooms are created and joined
//   by intent messages, not by URL
// - Short uppercase room codes with server-side collision check
// - Full game state broadcast to the whole room on every change
// - Device identity by cookie, so a reconnecting player keeps their seat
// - "Room not found" is the only error surfaced to a client; every other
//   invalid intent is silently dropped and the state rebroadcast
// - Optional per-turn clock; standard mode restarts it on each clue,
//   blacksite mode runs one continuous clock per turn
// - In-browser QR button to share a room link, backed by go-qrcode
// - Rooms auto-reaped after a configurable idle timeout

package main

import (
	"crypto/rand"
	_ "embed"
	"encoding/hex"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// Messages coming from clients
type ClientMessage struct {
	Type         string  `json:"type"`                   // intent name
	RoomCode     string  `json:"roomCode,omitempty"`     // join_game
	HostName     string  `json:"hostName,omitempty"`     // create_game
	PlayerName   string  `json:"playerName,omitempty"`   // join_game
	DeviceToken  string  `json:"deviceToken,omitempty"`  // create_game / join_game
	Team         string  `json:"team,omitempty"`         // change_team
	Role         string  `json:"role,omitempty"`         // change_role
	Word         string  `json:"word,omitempty"`         // give_clue
	Number       int     `json:"number,omitempty"`       // give_clue
	CardID       *string `json:"cardId,omitempty"`       // reveal_card / set_target
	Category     string  `json:"category,omitempty"`     // start_game
	TimerSeconds int     `json:"timerSeconds,omitempty"` // start_game
	Mode         string  `json:"mode,omitempty"`         // start_game
	Theme        string  `json:"theme,omitempty"`        // start_game
}

// Messages sent to clients
type serverMessage struct {
	Type    string     `json:"type"`              // "game_updated" or "error"
	State   *GameState `json:"state,omitempty"`   // full room state
	HostID  string     `json:"hostId,omitempty"`  // current room host
	Message string     `json:"message,omitempty"` // user-facing text
}

type client struct {
	conn        *websocket.Conn
	send        chan any
	done        chan struct{}
	once        sync.Once
	id          string
	deviceToken string
}

// shutdown signals the write pump to exit and closes the socket. The send
// channel itself is never closed, so a late send to a gone client is
// dropped instead of panicking.
func (c *client) shutdown() {
	c.once.Do(func() {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const deviceCookieName = "operative_id"

func getOrSetDeviceToken(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(deviceCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		log.Println("rand.Read error:", err)
		return ""
	}
	token := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     deviceCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return token
}

func serveWS(cfg *Config, rl *roomList) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		deviceToken := getOrSetDeviceToken(w, r)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		c := &client{
			conn:        conn,
			send:        make(chan any, 8),
			done:        make(chan struct{}),
			id:          uuid.NewString(),
			deviceToken: deviceToken,
		}

		go c.writePump()
		c.readPump(cfg, rl)
	}
}

// readPump decodes intents off the wire and routes them: create/join talk
// to the registry, everything else goes to the connection's current room.
// Malformed or out-of-place intents are dropped here, before the state
// machine ever sees them.
func (c *client) readPump(cfg *Config, rl *roomList) {
	defer func() {
		if room, ok := rl.roomFor(c.id); ok {
			select {
			case room.unreg <- c:
			case <-room.done:
			}
		}
		rl.unbind(c.id)
		c.shutdown()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "create_game":
			if msg.HostName == "" {
				continue
			}
			if _, ok := rl.roomFor(c.id); ok {
				continue
			}

			room := rl.create()
			rl.bind(c.id, room.code)
			room.joins <- joinRequest{
				client:      c,
				name:        msg.HostName,
				deviceToken: c.token(msg),
			}
			logf(cfg, "GAMES: Created game %s", room.code)

		case "join_game":
			if msg.PlayerName == "" {
				continue
			}
			if _, ok := rl.roomFor(c.id); ok {
				continue
			}

			code := strings.ToUpper(strings.TrimSpace(msg.RoomCode))
			room, ok := rl.get(code)
			if !ok {
				// The one rejection a client is told about.
				select {
				case c.send <- serverMessage{
					Type:    "error",
					Message: "Room not found",
				}:
				default:
				}
				continue
			}

			rl.bind(c.id, code)
			select {
			case room.joins <- joinRequest{
				client:      c,
				name:        msg.PlayerName,
				deviceToken: c.token(msg),
			}:
			case <-room.done:
				rl.unbind(c.id)
			}

		default:
			room, ok := rl.roomFor(c.id)
			if !ok {
				continue
			}
			select {
			case room.intents <- intent{client: c, msg: msg}:
			case <-room.done:
			}
		}
	}
}

// token prefers an explicit deviceToken in the payload over the cookie.
func (c *client) token(msg ClientMessage) string {
	if msg.DeviceToken != "" {
		return msg.DeviceToken
	}
	return c.deviceToken
}

func (c *client) writePump() {
	defer c.conn.Close()

	for {
		select {
		case msg := <-c.send:
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// QR handler: generates a PNG QR code for a room link using go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code := ps.ByName("code")
	if code == "" {
		http.Error(w, "missing room code", http.StatusBadRequest)
		return
	}

	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /.../room/:code/qr; strip trailing "/qr" to get the room URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// ---- Static file paths ----

//go:embed operative/index.html
var indexHTML []byte

//go:embed operative/app.css
var operativeCSS []byte

//go:embed operative/app.js
var operativeJS []byte

func getIndexHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_ = getOrSetDeviceToken(w, r)

		_, _ = w.Write(indexHTML)
	}
}

func getCssHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(operativeCSS)
	}
}

func getJsHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(operativeJS)
	}
}

// registerOperativeGame sets up routes so that:
//   - $path                  → HTML client
//   - $path/ws               → WebSocket shared by all rooms
//   - $path/room/:code       → HTML client (shareable room link)
//   - $path/room/:code/qr    → PNG QR code for that room link
func registerOperativeGame(cfg *Config, path string, mux *httprouter.Router) {
	rl := newRoomList(cfg)

	// Client view (HTML)
	mux.GET(cfg.prefix+path, getIndexHandler(cfg))
	mux.GET(cfg.prefix+path+"/room/:code", getIndexHandler(cfg))

	// Shared assets (no room code in route)
	mux.GET(cfg.prefix+"/assets/operative/app.css", getCssHandler(cfg))
	mux.GET(cfg.prefix+"/assets/operative/app.js", getJsHandler(cfg))

	// Shared websocket
	mux.GET(cfg.prefix+path+"/ws", serveWS(cfg, rl))

	// Per-room QR code
	mux.GET(cfg.prefix+path+"/room/:code/qr", qrHandler)
}
