package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/akashipov/feeservice/internal/handlers"
	"github.com/akashipov/feeservice/internal/storage"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	Srv *http.Server
	Log *zap.SugaredLogger
}

func NewServer(addr string, store storage.Store, log *zap.SugaredLogger) (*Server, error) {
	if store == nil {
		return nil, errors.New("Server needs a fee specification store")
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handlers.ServerRouter(handlers.NewHandler(store, log)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return &Server{
		Log: log,
		Srv: srv,
	}, nil
}

// RunServer serves until done is closed or signalled, then shuts down
// gracefully. w.Done is called once the server has stopped.
func (s *Server) RunServer(done <-chan struct{}, w *sync.WaitGroup) {
	defer w.Done()
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		s.Log.Infof("Server is listening on %s", s.Srv.Addr)
		err := s.Srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Log.Errorf("Server is stopped with error: %s", err.Error())
			return
		}
		s.Log.Infoln("Server is stopped")
	}()
	select {
	case <-done:
	case <-stopped:
		return
	}
	s.Log.Infoln("Server is stopping...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.Srv.Shutdown(ctx)
	if err != nil {
		s.Log.Errorf("Problem with server shutdown: %s", err.Error())
	}
	<-stopped
}
