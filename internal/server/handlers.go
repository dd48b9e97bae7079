package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Makepad-fr/clientdash/internal/errors"
	"github.com/Makepad-fr/clientdash/internal/event"
	"github.com/Makepad-fr/clientdash/internal/model"
	"github.com/Makepad-fr/clientdash/internal/store/httpstore"
)

type patchRequest struct {
	Status model.Status `json:"status"`
}

type createRequest struct {
	PhoneNumber string       `json:"phoneNumber"`
	Name        string       `json:"name,omitempty"`
	Status      model.Status `json:"status,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, httpstore.ErrorBody{Error: msg})
}

// listClients handles GET /clients?status=&search=
func (s *Server) listClients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status, err := model.ParseStatusFilter(q.Get("status"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rs, err := s.store.Query(r.Context(), model.Filter{Status: status, Search: q.Get("search")})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rs == nil {
		rs = []model.Record{}
	}
	writeJSON(w, http.StatusOK, rs)
}

// patchClient handles PATCH /clients/{id}
func (s *Server) patchClient(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req patchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "status must be pending or confirmed")
		return
	}
	rec, err := s.store.Mutate(r.Context(), id, model.StatusPatch(req.Status))
	switch {
	case errors.IsNotFound(err):
		writeError(w, http.StatusNotFound, "client not found")
		return
	case errors.Is(err, errors.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.log.Info("client updated", "id", rec.ID, "status", string(rec.Status))
	s.bus.Publish(event.NewRecordUpdated(rec))
	writeJSON(w, http.StatusOK, rec)
}

// createClient handles POST /clients
func (s *Server) createClient(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	rec, err := s.store.Create(r.Context(), model.Record{
		PhoneNumber: req.PhoneNumber,
		Name:        req.Name,
		Status:      req.Status,
	})
	if err != nil {
		if errors.Is(err, errors.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.log.Info("client created", "id", rec.ID)
	s.bus.Publish(event.NewRecordCreated(rec))
	writeJSON(w, http.StatusCreated, rec)
}
