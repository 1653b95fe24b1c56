package ctrlserver

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mikehamer/crazycontrol/controller"
)

// Server exposes the tuning and telemetry surface of one control core:
// mode selection, per-entry gain writes, setpoint injection and the
// read-only observability counters.
type Server struct {
	ctrl      *controller.Controller
	setpoints *controller.SetpointStore
	sockets   *socketRegistry
}

func New(ctrl *controller.Controller, setpoints *controller.SetpointStore) *Server {
	return &Server{
		ctrl:      ctrl,
		setpoints: setpoints,
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	s.statusInitRoute(r)
	s.modeInitRoute(r)
	s.gainsInitRoute(r)
	s.commanderInitRoute(r)
	s.socketsInitRoute(r)

	return r
}

// Serve blocks on the HTTP listener.
func (s *Server) Serve(addr string) error {
	fmt.Println("Starting the server ...")
	fmt.Printf("Listenning on %s\n", addr)
	return http.ListenAndServe(addr, s.Router())
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, r *http.Request, httpStatus int, msg string) {
	resp := errorResponse{
		Error: msg,
	}

	w.Header().Set("Content-type", "application/json; charset=UTF-8")
	w.WriteHeader(httpStatus)

	json.NewEncoder(w).Encode(resp)
}

func respondOK(w http.ResponseWriter, resp interface{}) {
	w.Header().Set("Content-type", "application/json; charset=UTF-8")
	w.WriteHeader(http.StatusOK)

	if resp == nil {
		fmt.Fprint(w, "{}")
		return
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Println(err)
	}
}
