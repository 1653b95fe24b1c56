package ctrlserver

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// Telemetry streaming over websockets: each connected client gets the
// published control output and link counters at its chosen period.

type socketIndexResp struct {
	Sockets []string `json:"sockets"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type socketRegistry struct {
	sync.Mutex
	names map[string]bool
	maxID uint
}

func (s *Server) socketsInitRoute(r *mux.Router) {
	s.sockets = &socketRegistry{names: map[string]bool{}}

	r.HandleFunc("/sockets", s.socketsIndex).Methods("GET")
	r.HandleFunc("/sockets/websocket", s.websocketHandle).Methods("GET")
}

func (s *Server) socketsIndex(w http.ResponseWriter, r *http.Request) {
	s.sockets.Lock()
	resp := socketIndexResp{Sockets: make([]string, 0, len(s.sockets.names))}
	for name := range s.sockets.names {
		resp.Sockets = append(resp.Sockets, name)
	}
	s.sockets.Unlock()

	respondOK(w, resp)
}

type telemetryMessage struct {
	U      [4]float64 `json:"u"`
	Flying bool       `json:"flying"`

	MissedCycles int     `json:"missed_cycles"`
	PacketRate   float64 `json:"packet_rate"`
}

func (s *Server) websocketHandle(w http.ResponseWriter, r *http.Request) {
	if _, ok := r.Header["Upgrade"]; !ok {
		respondError(w, r, http.StatusBadRequest, "Websocket upgrade expected")
		return
	}

	period := 100 * time.Millisecond
	if p := r.URL.Query().Get("period"); p != "" {
		ms := 0
		if _, err := fmt.Sscanf(p, "%d", &ms); err == nil && ms > 0 {
			period = time.Duration(ms) * time.Millisecond
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	s.sockets.Lock()
	name := fmt.Sprintf("websocket%d", s.sockets.maxID)
	s.sockets.maxID++
	s.sockets.names[name] = true
	s.sockets.Unlock()

	go func() {
		defer func() {
			conn.Close()
			s.sockets.Lock()
			delete(s.sockets.names, name)
			s.sockets.Unlock()
		}()

		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for range ticker.C {
			tele := s.ctrl.Telemetry()
			msg := telemetryMessage{U: tele.U, Flying: tele.Flying}
			if f := s.ctrl.Filter(); f != nil {
				msg.MissedCycles = f.MissedCycles()
				msg.PacketRate = f.PacketRate()
			}

			if err := conn.WriteJSON(msg); err != nil {
				log.Println(name, "OUT error, disconnecting!")
				return
			}
		}
	}()
}
