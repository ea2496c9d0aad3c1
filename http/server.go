package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

// Server answers each accepted connection with exactly one response and then
// closes it. Connections are served concurrently.
type Server struct {
	Handler        Handler
	BadRequest     Handler // answers requests rejected by the strict parser
	Logger         *slog.Logger
	ReadBufferSize int
	ParseMode      ParseMode
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	pool       *ContextPool
	baseCtx    context.Context
	cancelBase context.CancelFunc
	closing    chan struct{}

	acceptRetryMin time.Duration
	acceptRetryMax time.Duration

	mu         sync.Mutex
	listeners  map[net.Listener]struct{}
	conns      map[net.Conn]struct{}
	wg         sync.WaitGroup
	inShutdown atomic.Bool
}

type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

func WithReadBufferSize(size int) Option {
	return func(s *Server) {
		s.ReadBufferSize = size
	}
}

func WithParseMode(mode ParseMode) Option {
	return func(s *Server) {
		s.ParseMode = mode
	}
}

func WithBadRequestHandler(handler Handler) Option {
	return func(s *Server) {
		s.BadRequest = handler
	}
}

func WithTimeouts(read, write time.Duration) Option {
	return func(s *Server) {
		s.ReadTimeout = read
		s.WriteTimeout = write
	}
}

func NewServer(handler Handler, opts ...Option) *Server {
	s := &Server{
		Handler:        handler,
		Logger:         slog.Default(),
		ReadBufferSize: DefaultReadBufferSize,
		ParseMode:      ParseLenient,
		BadRequest:     BadRequestHandler,
		listeners:      make(map[net.Listener]struct{}),
		conns:          make(map[net.Conn]struct{}),
		closing:        make(chan struct{}),
		acceptRetryMin: 5 * time.Millisecond,
		acceptRetryMax: time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.Handler == nil {
		s.Handler = NotFoundHandler
	}
	if s.BadRequest == nil {
		s.BadRequest = BadRequestHandler
	}
	if s.ReadBufferSize <= 0 {
		s.ReadBufferSize = DefaultReadBufferSize
	}

	s.pool = NewContextPool(s.ReadBufferSize)
	s.baseCtx, s.cancelBase = context.WithCancel(context.Background())

	return s
}

func (s *Server) ListenAndServe(addr string) error {
	if s.inShutdown.Load() {
		return ErrServerClosed
	}

	lc := net.ListenConfig{Control: listenControl}
	listener, err := lc.Listen(s.baseCtx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("http: listen on %s: %w", addr, err)
	}

	return s.Serve(listener)
}

// Serve accepts connections until the listener fails permanently or the
// server is shut down, in which case ErrServerClosed is returned.
func (s *Server) Serve(listener net.Listener) error {
	if !s.trackListener(listener, true) {
		listener.Close()
		return ErrServerClosed
	}
	defer s.trackListener(listener, false)

	s.Logger.Info("accepting connections", "addr", listener.Addr().String())

	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = s.acceptRetryMin
	retry.MaxInterval = s.acceptRetryMax
	retry.MaxElapsedTime = 0
	retry.Reset()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.inShutdown.Load() {
				return ErrServerClosed
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}

			delay := retry.NextBackOff()
			s.Logger.Warn("accept failed", "error", err, "retry_in", delay)

			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-s.closing:
				timer.Stop()
				return ErrServerClosed
			}
			continue
		}
		retry.Reset()

		if !s.trackConn(conn, true) {
			conn.Close()
			return ErrServerClosed
		}

		go func() {
			defer s.trackConn(conn, false)

			if err := s.ServeConn(conn); err != nil {
				s.Logger.Warn("connection failed", "remote", conn.RemoteAddr().String(), "error", err)
			}
		}()
	}
}

// ServeConn performs one bounded read, answers it and closes conn. I/O errors
// are returned; malformed requests and handler failures are answered.
func (s *Server) ServeConn(conn net.Conn) error {
	reqCtx := s.pool.Acquire()
	reqCtx.Reset(conn)
	reqCtx.ID = uuid.NewString()

	defer func() {
		if err := conn.Close(); err != nil {
			s.Logger.Debug("closing connection", "conn", reqCtx.ID, "error", err)
		}
		s.pool.Release(reqCtx)
	}()

	logger := s.Logger.With("conn", reqCtx.ID)

	if s.ReadTimeout > 0 {
		conn.SetReadDeadline(time.Now().Add(s.ReadTimeout))
	}

	n, err := conn.Read(reqCtx.readBuf)
	if n == 0 {
		if err == nil || errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("http: read request: %w", err)
	}

	req, res := &reqCtx.Request, &reqCtx.Response
	req.WithContext(s.baseCtx)

	if err := req.Parse(reqCtx.readBuf[:n], s.ParseMode); err != nil {
		logger.Info("malformed request", "error", err)
		res.WithStatus(StatusBadRequest)
		s.dispatch(s.BadRequest, req, res, logger)
	} else {
		s.dispatch(s.Handler, req, res, logger)
	}

	out, err := res.AppendTo(reqCtx.writeBuf[:0])
	if err != nil {
		logger.Error("building response", "target", req.Target, "error", err)

		res.Reset()
		res.WithStatus(StatusInternalServerError)
		out, _ = res.AppendTo(reqCtx.writeBuf[:0])
	}
	reqCtx.writeBuf = out

	if s.WriteTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(s.WriteTimeout))
	}

	if _, err := conn.Write(out); err != nil {
		return fmt.Errorf("http: write response: %w", err)
	}

	return nil
}

func (s *Server) dispatch(handler Handler, req *Request, res *Response, logger *slog.Logger) {
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error("handler panic", "target", req.Target, "panic", fmt.Sprint(recovered))

			res.Reset()
			res.WithStatus(StatusInternalServerError)
		}
	}()

	handler(req, res)
}

// Shutdown stops accepting, then waits for in-flight connections. When ctx
// expires first the remaining connections are closed and ctx.Err() returned.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.inShutdown.Swap(true) {
		close(s.closing)
	}
	var err error
	for listener := range s.listeners {
		if closeErr := listener.Close(); closeErr != nil && !errors.Is(closeErr, net.ErrClosed) {
			err = errors.Join(err, closeErr)
		}
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancelBase()
		return err
	case <-ctx.Done():
		s.cancelBase()

		s.mu.Lock()
		for conn := range s.conns {
			conn.Close()
		}
		s.mu.Unlock()

		return errors.Join(err, ctx.Err())
	}
}

func (s *Server) trackListener(listener net.Listener, add bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !add {
		delete(s.listeners, listener)
		return true
	}
	if s.inShutdown.Load() {
		return false
	}
	s.listeners[listener] = struct{}{}
	return true
}

func (s *Server) trackConn(conn net.Conn, add bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !add {
		delete(s.conns, conn)
		s.wg.Done()
		return true
	}
	if s.inShutdown.Load() {
		return false
	}
	s.conns[conn] = struct{}{}
	s.wg.Add(1)
	return true
}
