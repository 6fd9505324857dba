/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"uni-lj.si/cora-z7/go-daq/pkg/config"
	"uni-lj.si/cora-z7/go-daq/pkg/log"
	"uni-lj.si/cora-z7/go-daq/pkg/srv/acquire"
	"uni-lj.si/cora-z7/go-daq/pkg/store"
)

const (
	shutdownTimeout = 5 * time.Second
)

type ApiServer struct {
	context.Context
	*config.ApiConfig
	*mux.Router
	state *store.State
}

func NewApiServer(ctx context.Context, cfg *config.ApiConfig, state *store.State) *ApiServer {
	log.Info("Initializing API server with address: %s port: %d", cfg.Address, cfg.Port)
	s := &ApiServer{
		Context:   ctx,
		ApiConfig: cfg,
		state:     state,
	}
	s.configureRouter()
	return s
}

// Handler wraps the router with request logging and panic recovery
func (s *ApiServer) Handler() http.Handler {
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(log.Printer{}),
		handlers.PrintRecoveryStack(true),
	)
	return handlers.LoggingHandler(log.Writer(), recovery(s.Router))
}

// Run serves until the context is cancelled
func (s *ApiServer) Run() error {
	addr := fmt.Sprintf("%s:%d", s.Address, s.Port)
	log.Info("Starting API server: address: %s", addr)
	httpServer := &http.Server{
		Handler: s.Handler(),
		Addr:    addr,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-s.Done():
		log.Info("Stopping API server")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	subRouter.HandleFunc("/runs", s.handleRuns()).Methods("GET")
	subRouter.HandleFunc("/runs/{id}", s.handleRun()).Methods("GET")
	subRouter.HandleFunc("/runs/{id}", s.handleDeleteRun()).Methods("DELETE")
	subRouter.HandleFunc("/runs/{id}/samples", s.handleSamples()).Methods("GET")
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Error while encoding response: %s", err)
	}
}

func storeError(w http.ResponseWriter, err error) {
	var notFound store.ErrRunNotFound
	if errors.As(err, &notFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (s *ApiServer) handleRuns() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling runs request")
		runs, err := s.state.GetAllRuns()
		if err != nil {
			storeError(w, err)
			return
		}
		if runs == nil {
			runs = []*store.Run{}
		}
		writeJSON(w, runs)
	}
}

func (s *ApiServer) handleRun() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		log.Debug("Handling run request: %s", id)
		run, err := s.state.GetRun(id)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, run)
	}
}

func (s *ApiServer) handleDeleteRun() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		log.Debug("Handling delete run request: %s", id)
		if err := s.state.DeleteRun(id); err != nil {
			storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleSamples returns decoded samples as json (default), csv or npy
func (s *ApiServer) handleSamples() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		format := r.URL.Query().Get("format")
		log.Debug("Handling samples request: %s format: %s", id, format)
		samples, err := s.state.GetSamples(id)
		if err != nil {
			storeError(w, err)
			return
		}
		switch format {
		case "", "json":
			writeJSON(w, samples)
		case acquire.FormatCSV:
			w.Header().Set("Content-Type", "text/csv")
			if err := acquire.NewCSVWriter(w).WriteSamples(samples); err != nil {
				log.Error("Error while writing samples: %s", err)
			}
		case acquire.FormatNpy:
			w.Header().Set("Content-Type", "application/octet-stream")
			if err := acquire.NewNpyWriter(w).WriteSamples(samples); err != nil {
				log.Error("Error while writing samples: %s", err)
			}
		default:
			http.Error(w, acquire.ErrUnknownFormat{Format: format}.Error(), http.StatusBadRequest)
		}
	}
}
