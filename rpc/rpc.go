package rpc

import (
	"fmt"
	"net"
	"net/rpc"

	"github.com/wfunc/guessjam/game"
	"github.com/wfunc/guessjam/logger"
	"github.com/wfunc/guessjam/match"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server and registers the match service on the
// default rpc registry.
func NewServer(addr string, manager *match.Manager) (*Server, error) {
	if err := rpc.Register(NewMatchService(manager)); err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if the error is due to the listener being closed.
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// MatchService exposes read-only match inspection over RPC for ops tooling.
type MatchService struct {
	manager *match.Manager
}

func NewMatchService(manager *match.Manager) *MatchService {
	return &MatchService{manager: manager}
}

type GetMatchStateArgs struct {
	MatchID string
}

type GetMatchStateReply struct {
	State game.State
}

func (ms *MatchService) GetMatchState(args *GetMatchStateArgs, reply *GetMatchStateReply) error {
	m, exists := ms.manager.GetMatch(args.MatchID)
	if !exists {
		return fmt.Errorf("match %s not found", args.MatchID)
	}
	reply.State = m.State()
	return nil
}

type ListMatchesArgs struct{}

type ListMatchesReply struct {
	MatchIDs []string
}

func (ms *MatchService) ListMatches(args *ListMatchesArgs, reply *ListMatchesReply) error {
	reply.MatchIDs = ms.manager.MatchIDs()
	return nil
}
