package ctrlserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mikehamer/crazycontrol/cache"
	"github.com/mikehamer/crazycontrol/controller"
)

func (s *Server) gainsInitRoute(r *mux.Router) {
	r.HandleFunc("/gains", s.gainsIndex).Methods("GET")
	r.HandleFunc("/gains/{matrix:d[69]}/{i:[0-9]+}/{j:[0-9]+}", s.gainsSetEntry).Methods("PUT")
	r.HandleFunc("/gains/profiles/{profile:[a-zA-Z0-9_-]+}", s.gainsSaveProfile).Methods("POST")
	r.HandleFunc("/gains/profiles/{profile:[a-zA-Z0-9_-]+}", s.gainsLoadProfile).Methods("PUT")
}

type gainsIndexResponse struct {
	K9 [4][9]float64 `json:"k9"`
	K6 [4][6]float64 `json:"k6"`
}

func (s *Server) gainsIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.ctrl.Gains().Snapshot()
	respondOK(w, gainsIndexResponse{K9: snap.K9, K6: snap.K6})
}

type gainsSetRequest struct {
	Value *float64 `json:"value"`
}

func (s *Server) gainsSetEntry(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	matrix, err := controller.ParseGainMatrix(vars["matrix"])
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	i, j := -1, -1
	fmt.Sscanf(vars["i"], "%d", &i)
	fmt.Sscanf(vars["j"], "%d", &j)

	var req gainsSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		respondError(w, r, http.StatusBadRequest, "Bad request!")
		return
	}

	if err := s.ctrl.Gains().SetEntry(matrix, i, j, *req.Value); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	respondOK(w, nil)
}

func (s *Server) gainsSaveProfile(w http.ResponseWriter, r *http.Request) {
	profile := mux.Vars(r)["profile"]

	snap := s.ctrl.Gains().Snapshot()
	if err := cache.SaveGains(profile, &snap); err != nil {
		respondError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	respondOK(w, nil)
}

func (s *Server) gainsLoadProfile(w http.ResponseWriter, r *http.Request) {
	profile := mux.Vars(r)["profile"]

	var snap controller.Snapshot
	if err := cache.LoadGains(profile, &snap); err != nil {
		respondError(w, r, http.StatusNotFound, err.Error())
		return
	}
	s.ctrl.Gains().Restore(snap)

	respondOK(w, nil)
}
