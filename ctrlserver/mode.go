package ctrlserver

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mikehamer/crazycontrol/controller"
)

func (s *Server) modeInitRoute(r *mux.Router) {
	r.HandleFunc("/mode", s.modeGet).Methods("GET")
	r.HandleFunc("/mode", s.modeSet).Methods("PUT")
}

type modeResponse struct {
	Law string `json:"law"`
}

func (s *Server) modeGet(w http.ResponseWriter, r *http.Request) {
	respondOK(w, modeResponse{Law: s.ctrl.Law().String()})
}

func (s *Server) modeSet(w http.ResponseWriter, r *http.Request) {
	var req modeResponse

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Bad request!")
		return
	}

	law, err := controller.ParseLawMode(req.Law)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.ctrl.SetLaw(law); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	respondOK(w, modeResponse{Law: law.String()})
}
