package main

import (
	"bufio"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/pgtoolkit/pgtoolkit/db"
)

// Server is a TCP server that exposes a pgtoolkit connection over a
// line-delimited JSON protocol.
type Server struct {
	listener   net.Listener
	toolkit    *db.Toolkit
	authConfig *AuthConfig
	tlsEnabled bool
	done       chan struct{}
	wg         sync.WaitGroup
}

// NewServer creates a new query server bound to the given toolkit.
func NewServer(toolkit *db.Toolkit) *Server {
	return &Server{
		toolkit: toolkit,
		done:    make(chan struct{}),
	}
}

// NewServerWithAuth creates a new query server that requires clients to
// authenticate before issuing queries.
func NewServerWithAuth(toolkit *db.Toolkit, authConfig *AuthConfig) *Server {
	return &Server{
		toolkit:    toolkit,
		authConfig: authConfig,
		done:       make(chan struct{}),
	}
}

// Start begins listening for connections on the specified address.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.listener = listener

	slog.Info("query server listening", "addr", listener.Addr().String())

	go s.acceptLoop()
	return nil
}

// StartTLS begins listening with TLS using the given certificate and key.
func (s *Server) StartTLS(addr, certFile, keyFile string) error {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	listener, err := tls.Listen("tcp", addr, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})
	if err != nil {
		return fmt.Errorf("failed to start TLS server: %w", err)
	}
	s.listener = listener
	s.tlsEnabled = true

	slog.Info("query server listening", "addr", listener.Addr().String(), "tls", true)

	go s.acceptLoop()
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	close(s.done)
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	return nil
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// TLSEnabled reports whether the server is serving TLS connections.
func (s *Server) TLSEnabled() bool {
	return s.tlsEnabled
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				slog.Error("accept failed", "error", err)
				continue
			}
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	slog.Info("client connected", "remote", conn.RemoteAddr().String())

	state := &ConnectionState{}
	reader := bufio.NewReader(conn)

	for {
		select {
		case <-s.done:
			return
		default:
		}

		// Read until newline (one query per line)
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				slog.Error("read failed", "remote", conn.RemoteAddr().String(), "error", err)
			}
			return
		}

		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}

		// Lines may be raw SQL or a JSON-encoded Request.
		if strings.HasPrefix(query, "{") {
			req, err := DecodeRequest([]byte(query))
			if err != nil {
				s.send(conn, Response{Success: false, Error: fmt.Sprintf("invalid request: %v", err)})
				continue
			}
			query = strings.TrimSpace(req.Query)
			if query == "" {
				continue
			}
		}

		lower := strings.ToLower(query)
		if lower == "quit" || lower == "exit" {
			slog.Info("client disconnected", "remote", conn.RemoteAddr().String())
			return
		}

		// AUTH commands are handled before the auth gate
		if strings.HasPrefix(strings.ToUpper(query), "AUTH ") {
			resp := s.handleAuth(query, state)
			if resp.Success && state.identity != nil {
				slog.Info("client authenticated",
					"remote", conn.RemoteAddr().String(),
					"name", state.identity.Name,
					"email", state.identity.Email)
			}
			if !s.send(conn, resp) {
				return
			}
			continue
		}

		if resp, ok := s.checkAuth(state); !ok {
			if !s.send(conn, resp) {
				return
			}
			continue
		}

		response := s.executeQuery(query)
		if !s.send(conn, response) {
			return
		}
	}
}

// checkAuth verifies the connection may issue queries. It returns the error
// response to send when the connection is not authorized.
func (s *Server) checkAuth(state *ConnectionState) (Response, bool) {
	if s.authConfig == nil || !s.authConfig.Enabled {
		return Response{}, true
	}
	if !state.IsAuthenticated() {
		return Response{Success: false, Error: "authentication required"}, false
	}
	if !state.tokenExpiry.IsZero() && time.Now().After(state.tokenExpiry) {
		state.authenticated = false
		return Response{Success: false, Error: "token expired, authentication required"}, false
	}
	return Response{}, true
}

// send writes a response to the connection, reporting whether the
// connection is still usable.
func (s *Server) send(conn net.Conn, resp Response) bool {
	data, err := EncodeResponse(resp)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
		return true
	}

	if _, err := conn.Write(data); err != nil {
		slog.Error("write failed", "remote", conn.RemoteAddr().String(), "error", err)
		return false
	}
	return true
}

func (s *Server) executeQuery(query string) Response {
	if returnsRows(query) {
		result, err := s.toolkit.ExecuteQuery(query)
		if err != nil {
			return Response{Success: false, Error: err.Error()}
		}
		qr := QueryResponse{
			Columns:     result.Columns,
			Data:        result.Data,
			RecordsRead: result.RecordsRead,
			TimeMs:      result.ExecutionTimeSec * 1000,
		}
		data, _ := json.Marshal(qr)
		return Response{
			Success: true,
			Type:    "query",
			Result:  data,
		}
	}

	result, err := s.toolkit.ExecuteCommand(query)
	if err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	cr := CommitResponse{
		DatabasesCreated: result.DatabasesCreated,
		DatabasesDeleted: result.DatabasesDeleted,
		TablesCreated:    result.TablesCreated,
		TablesDeleted:    result.TablesDeleted,
		TablesAltered:    result.TablesAltered,
		RecordsWritten:   result.RecordsWritten,
		RecordsDeleted:   result.RecordsDeleted,
		RowsAffected:     result.RowsAffected,
		TimeMs:           result.ExecutionTimeSec * 1000,
	}
	data, _ := json.Marshal(cr)
	return Response{
		Success: true,
		Type:    "commit",
		Result:  data,
	}
}

// returnsRows reports whether the statement produces a row set.
func returnsRows(stmt string) bool {
	fields := strings.Fields(strings.ToUpper(stmt))
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "SELECT", "WITH", "SHOW", "EXPLAIN", "VALUES", "TABLE", "DESCRIBE":
		return true
	}
	return false
}
