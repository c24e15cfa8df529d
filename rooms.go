package main

import (
	"crypto/rand"
	"sync"
	"time"
)

// roomList holds every live room keyed by its short code, plus an index
// from connection ID to the room it currently belongs to. It is the only
// process-wide mutable structure; rooms themselves serialize their own
// state through their run loops.
type roomList struct {
	cfg *Config

	mu    sync.Mutex
	rooms map[string]*room
	conns map[string]string
}

func newRoomList(cfg *Config) *roomList {
	rl := &roomList{
		cfg:   cfg,
		rooms: make(map[string]*room),
		conns: make(map[string]string),
	}
	if cfg.sessionTimeout > 0 {
		go rl.reaperLoop()
	}
	return rl
}

// create inserts a fresh lobby-phase room under a new code and starts its
// run loop.
func (rl *roomList) create() *room {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	code := rl.newRoomCodeLocked()
	r := newRoom(code, rl)
	rl.rooms[code] = r
	go r.run(rl.cfg)

	return r
}

func (rl *roomList) get(code string) (*room, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	r, ok := rl.rooms[code]
	return r, ok
}

// bind records which room a connection has joined.
func (rl *roomList) bind(connID, code string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.conns[connID] = code
}

func (rl *roomList) unbind(connID string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.conns, connID)
}

// roomFor resolves a connection to its current room, if any.
func (rl *roomList) roomFor(connID string) (*room, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	code, ok := rl.conns[connID]
	if !ok {
		return nil, false
	}
	r, ok := rl.rooms[code]
	return r, ok
}

// dropIfEmpty garbage-collects a room once its roster has emptied. Rooms
// with players remaining are left alone.
func (rl *roomList) dropIfEmpty(code string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	r, ok := rl.rooms[code]
	if !ok || r.playerCount() > 0 {
		return
	}

	delete(rl.rooms, code)
	r.stop()
}

const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const roomCodeLength = 4

// newRoomCodeLocked generates a crypto-random room code and ensures it
// doesn't collide with a live room. Codes are not globally unique over
// time; collision against live rooms only is enough at this scale.
func (rl *roomList) newRoomCodeLocked() string {
	for {
		buf := make([]byte, roomCodeLength)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, roomCodeLength)
		for i := range out {
			out[i] = roomCodeAlphabet[int(buf[i])%len(roomCodeAlphabet)]
		}
		code := string(out)

		if _, exists := rl.rooms[code]; !exists {
			return code
		}
	}
}

// reaperLoop periodically removes rooms that have been idle longer than
// the configured session timeout.
func (rl *roomList) reaperLoop() {
	ticker := time.NewTicker(rl.cfg.sessionTimeout / 2)
	for range ticker.C {
		cutoff := time.Now().Add(-rl.cfg.sessionTimeout)

		rl.mu.Lock()
		for code, r := range rl.rooms {
			if r.idleSince().Before(cutoff) {
				delete(rl.rooms, code)
				go r.closeAll()
			}
		}
		rl.mu.Unlock()
	}
}
