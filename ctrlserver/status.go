package ctrlserver

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) statusInitRoute(r *mux.Router) {
	r.HandleFunc("/status", s.statusIndex).Methods("GET")
}

type statusResponse struct {
	Law    string     `json:"law"`
	Filter string     `json:"filter"`
	Flying bool       `json:"flying"`
	U      [4]float64 `json:"u"`

	MissedCycles int     `json:"missed_cycles"`
	PacketRate   float64 `json:"packet_rate"`
	Iters        uint16  `json:"iters"`
}

func (s *Server) statusIndex(w http.ResponseWriter, r *http.Request) {
	tele := s.ctrl.Telemetry()

	resp := statusResponse{
		Law:    s.ctrl.Law().String(),
		Filter: "off",
		Flying: tele.Flying,
		U:      tele.U,
	}

	if f := s.ctrl.Filter(); f != nil {
		resp.Filter = f.Mode().String()
		resp.MissedCycles = f.MissedCycles()
		resp.PacketRate = f.PacketRate()
		resp.Iters = f.Iters()
	}

	respondOK(w, resp)
}
