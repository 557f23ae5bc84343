package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"yatube/internal/config"
	"yatube/internal/pkg"
)

type Server struct {
	server          *http.Server
	shutDownTimeout time.Duration
	log             *slog.Logger
}

func New(conf config.HTTPServer, handler http.Handler, log *slog.Logger) *Server {
	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  conf.ReadTimeout,
		WriteTimeout: conf.WriteTimeout,
		Addr:         conf.Addr(),
	}

	return &Server{
		server:          srv,
		shutDownTimeout: conf.ShutdownTimeout,
		log:             log,
	}
}

// Run 阻塞直到 ctx 结束或监听失败，之后优雅关闭
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("http server listening", slog.String("addr", s.server.Addr))

	errCh := make(chan error, 1)
	go func() {
		err := s.server.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.log.Error("http server error", pkg.Err(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("http server shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutDownTimeout)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}
