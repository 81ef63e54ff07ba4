// Package orderserver accepts orders over plain TCP, one comma-separated
// line per order, and pushes trade confirmations back to the clients
// involved in each execution.
package orderserver

import (
	"bufio"
	"context"
	"net"
	"sync"

	tomb "gopkg.in/tomb.v2"

	orderbookv1 "github.com/tradeforge/matching-engine/internal/domain/orderbook/v1"
	"github.com/tradeforge/matching-engine/pkg/errors"
	"github.com/tradeforge/matching-engine/pkg/logger"
)

// Submitter accepts validated orders for matching.
type Submitter interface {
	Submit(order *orderbookv1.Order) bool
}

// Server is the TCP order intake. A client identifies itself through the
// client id on its order lines; confirmations for a client go to whichever
// connection most recently submitted under that id.
type Server struct {
	addr      string
	submitter Submitter
	logger    logger.Interface

	listener net.Listener
	t        *tomb.Tomb

	mu       sync.Mutex
	sessions map[string]net.Conn
	conns    map[net.Conn]struct{}
}

// New creates a server that feeds parsed orders into submitter.
func New(addr string, submitter Submitter, log logger.Interface) *Server {
	return &Server{
		addr:      addr,
		submitter: submitter,
		logger:    log,
		sessions:  make(map[string]net.Conn),
		conns:     make(map[net.Conn]struct{}),
	}
}

// Start binds the listener and launches the accept loop. It returns as soon
// as the server is accepting; cancellation of ctx shuts it down.
func (s *Server) Start(ctx context.Context) error {
	t, ctx := tomb.WithContext(ctx)
	s.t = t

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return errors.NewTracerWithCode(errors.GeneralInternalServerError).Wrap(err)
	}
	s.listener = listener

	// Unblock Accept and all connection reads once the tomb starts dying.
	t.Go(func() error {
		<-t.Dying()
		listener.Close()
		s.closeConnections()
		return nil
	})
	t.Go(s.acceptLoop)

	s.logger.Info("order server listening",
		logger.Field{Key: "addr", Value: listener.Addr().String()},
	)
	return nil
}

// Addr returns the bound listen address. Valid only after Start succeeds.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Stop shuts the server down and waits for all connection handlers to exit.
func (s *Server) Stop() error {
	s.t.Kill(nil)
	return s.Wait()
}

// Wait blocks until the server has fully shut down. A shutdown triggered by
// Stop or context cancellation is not an error.
func (s *Server) Wait() error {
	err := s.t.Wait()
	if err == context.Canceled || err == context.DeadlineExceeded {
		return nil
	}
	return err
}

func (s *Server) acceptLoop() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.t.Alive() {
				return nil
			}
			return errors.NewTracerWithCode(errors.GeneralInternalServerError).Wrap(err)
		}

		s.logger.Info("client connected",
			logger.Field{Key: "remote", Value: conn.RemoteAddr().String()},
		)
		s.trackConn(conn)
		s.t.Go(func() error {
			s.handleConn(conn)
			return nil
		})
	}
}

// handleConn reads order lines until the client disconnects. Malformed lines
// are logged and skipped so one bad order never drops the session.
func (s *Server) handleConn(conn net.Conn) {
	defer s.dropConn(conn)

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		order, err := ParseOrderLine(line)
		if err != nil {
			s.logger.Warn("invalid order line",
				logger.Field{Key: "line", Value: line},
				logger.Field{Key: "remote", Value: conn.RemoteAddr().String()},
				logger.Field{Key: "error", Value: err.Error()},
			)
			continue
		}

		s.bindSession(order.ClientID, conn)
		if !s.submitter.Submit(order) {
			// The engine is no longer accepting; end the session.
			return
		}
	}

	if err := scanner.Err(); err != nil && s.t.Alive() {
		s.logger.Warn("connection read failed",
			logger.Field{Key: "remote", Value: conn.RemoteAddr().String()},
			logger.Field{Key: "error", Value: err.Error()},
		)
	}
}

// Name identifies the server in dispatcher logs.
func (s *Server) Name() string {
	return "tcp-confirmations"
}

// Consume delivers a trade confirmation to both counterparties. Clients that
// are no longer connected are skipped.
func (s *Server) Consume(_ context.Context, trade orderbookv1.Trade) error {
	msg := []byte(trade.String() + "\n")
	s.send(trade.BuyClientID, msg)
	s.send(trade.SellClientID, msg)
	return nil
}

func (s *Server) send(clientID string, msg []byte) {
	s.mu.Lock()
	conn, ok := s.sessions[clientID]
	s.mu.Unlock()
	if !ok {
		return
	}

	if _, err := conn.Write(msg); err != nil {
		s.logger.Warn("confirmation delivery failed",
			logger.Field{Key: "client_id", Value: clientID},
			logger.Field{Key: "error", Value: err.Error()},
		)
		s.mu.Lock()
		if s.sessions[clientID] == conn {
			delete(s.sessions, clientID)
		}
		s.mu.Unlock()
	}
}

func (s *Server) bindSession(clientID string, conn net.Conn) {
	s.mu.Lock()
	s.sessions[clientID] = conn
	s.mu.Unlock()
}

func (s *Server) trackConn(conn net.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
}

// dropConn closes the connection and unbinds every client id attached to it.
func (s *Server) dropConn(conn net.Conn) {
	conn.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
	for clientID, sessionConn := range s.sessions {
		if sessionConn == conn {
			delete(s.sessions, clientID)
		}
	}
}

func (s *Server) closeConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		conn.Close()
	}
}
