package httpapi

import (
	"context"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server is the HTTP server for the dashboard and status API.
type Server struct {
	log        *zap.Logger
	httpServer *http.Server
}

func NewServer(l *zap.Logger, addr string, h http.Handler) *Server {
	return &Server{
		log: l,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start listens and serves until Shutdown. It returns nil after a clean
// shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.log.Info("http server listening", zap.String("addr", ln.Addr().String()))

	if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
