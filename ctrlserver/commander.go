package ctrlserver

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mikehamer/crazycontrol/controller"
)

func (s *Server) commanderInitRoute(r *mux.Router) {
	r.HandleFunc("/setpoint", s.commanderSet).Methods("PUT")
}

type commanderRequest struct {
	X         float64 `json:"x"` // m
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Vx        float64 `json:"vx"` // m/s
	Vy        float64 `json:"vy"`
	Vz        float64 `json:"vz"`
	Roll      float64 `json:"roll"` // rad
	Pitch     float64 `json:"pitch"`
	Yaw       float64 `json:"yaw"`
	RollRate  float64 `json:"roll_rate"` // rad/s
	PitchRate float64 `json:"pitch_rate"`
	YawRate   float64 `json:"yaw_rate"`
	Thrust    float64 `json:"thrust"` // m/s^2
}

func (s *Server) commanderSet(w http.ResponseWriter, r *http.Request) {
	var req commanderRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "Bad request!")
		return
	}

	s.setpoints.Set(controller.Setpoint{
		Position:     controller.Vector3{X: req.X, Y: req.Y, Z: req.Z},
		Velocity:     controller.Vector3{X: req.Vx, Y: req.Vy, Z: req.Vz},
		Attitude:     controller.Attitude{Roll: req.Roll, Pitch: req.Pitch, Yaw: req.Yaw},
		AttitudeRate: controller.Attitude{Roll: req.RollRate, Pitch: req.PitchRate, Yaw: req.YawRate},
		Thrust:       req.Thrust,
	})

	respondOK(w, nil)
}
