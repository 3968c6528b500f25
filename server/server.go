package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/wfunc/guessjam/broadcast"
	"github.com/wfunc/guessjam/config"
	"github.com/wfunc/guessjam/game"
	"github.com/wfunc/guessjam/logger"
	"github.com/wfunc/guessjam/match"
	"github.com/wfunc/guessjam/monitor"
	"github.com/wfunc/guessjam/network"
	"github.com/wfunc/guessjam/persistence"
	guessjam_rpc "github.com/wfunc/guessjam/rpc"
	"github.com/wfunc/guessjam/services"
	"github.com/wfunc/guessjam/session"
	"github.com/wfunc/guessjam/songsource"
)

const playlistLoadTimeout = 30 * time.Second

type GameServer struct {
	addr            string
	upgrader        websocket.Upgrader
	rules           game.Rules
	matchManager    *match.Manager
	sessionManager  *session.Manager
	playlistService *services.PlaylistService
	broadcaster     broadcast.Broadcaster
	monitor         *monitor.Monitor
	rpcServer       *guessjam_rpc.Server
	mutex           sync.Mutex
	shutdownChan    chan struct{}
}

func NewGameServer(cfg *config.Config, store persistence.Store, source songsource.Source,
	mon *monitor.Monitor) *GameServer {

	rules := cfg.Game.Rules()
	s := &GameServer{
		addr:            cfg.Server.HTTPAddress,
		rules:           rules,
		sessionManager:  session.NewManager(),
		playlistService: services.NewPlaylistService(source, rules),
		monitor:         mon,
		shutdownChan:    make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	s.broadcaster = broadcast.NewMatchBroadcaster(s.sessionManager)
	var recorder match.Recorder
	if mon != nil {
		recorder = mon
	}
	s.matchManager = match.NewManager(rules, clockwork.NewRealClock(), store, s.broadcaster, recorder)

	rpcServer, err := guessjam_rpc.NewServer(cfg.Server.RPCAddress, s.matchManager)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()

	http.HandleFunc("/ws", s.handleWebSocket)
	http.HandleFunc("/api/playlist", s.handlePlaylistHTTP)
	logger.Log.Infof("Game server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.rpcServer.Stop()
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	if s.monitor != nil {
		s.monitor.IncSessions()
	}

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.dropSession(sess)
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			s.handlePacket(sess, packet)
		}
	}
}

// dropSession unbinds a disconnecting session and shuts the match engine
// down once its last client is gone. The snapshot stays persisted, so a
// returning host resumes where the match left off.
func (s *GameServer) dropSession(sess *session.Session) {
	s.sessionManager.Remove(sess.GetID())
	if s.monitor != nil {
		s.monitor.DecSessions()
	}

	matchID := sess.GetMatchID()
	if matchID == "" {
		return
	}
	sess.LeaveMatch()

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if len(s.sessionManager.GetByMatch(matchID)) == 0 {
		s.matchManager.RemoveMatch(matchID)
		logger.Log.Infof("Match %s idled out, engine stopped", matchID)
	}
	if s.monitor != nil {
		s.monitor.SetActiveMatches(s.matchManager.Count())
	}
}

func (s *GameServer) handlePacket(sess *session.Session, packet *network.Packet) {
	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		sess.LastActive = time.Now()
	case network.MsgTypeCreateMatch:
		s.handleCreateMatch(sess, packet)
	case network.MsgTypeJoinMatch:
		s.handleJoinMatch(sess, packet)
	case network.MsgTypeLeaveMatch:
		s.handleLeaveMatch(sess, packet)
	case network.MsgTypeLoadPlaylist:
		s.handleLoadPlaylist(sess, packet)
	case network.MsgTypeGameAction:
		s.handleGameAction(sess, packet)
	case network.MsgTypeSnippetEnded:
		s.handleSnippetEnded(sess)
	case network.MsgTypePlaybackError:
		s.handlePlaybackError(sess, packet)
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}
}

func (s *GameServer) sendError(sess *session.Session, code, message string) {
	data, _ := json.Marshal(map[string]string{"code": code, "message": message})
	sess.Send(network.MsgTypeError, data)
}

// handleCreateMatch opens a new match, or resumes an existing one when the
// client supplies a match_id it held before disconnecting.
func (s *GameServer) handleCreateMatch(sess *session.Session, packet *network.Packet) {
	var req map[string]string
	if len(packet.Data) > 0 {
		json.Unmarshal(packet.Data, &req)
	}
	matchID := req["match_id"]
	if matchID == "" {
		matchID = uuid.New().String()
	}

	m := s.matchManager.CreateMatch(matchID)
	sess.JoinMatch(matchID, true)
	if s.monitor != nil {
		s.monitor.SetActiveMatches(s.matchManager.Count())
	}

	logger.Log.Infof("Session %s hosting match %s", sess.GetID(), matchID)

	resp, _ := json.Marshal(map[string]string{"match_id": matchID})
	sess.Send(network.MsgTypeCreateMatch, resp)
	s.syncState(sess, m)
}

func (s *GameServer) handleJoinMatch(sess *session.Session, packet *network.Packet) {
	var req map[string]string
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		s.sendError(sess, "BAD_REQUEST", "malformed join request")
		return
	}

	m, exists := s.matchManager.GetMatch(req["match_id"])
	if !exists {
		s.sendError(sess, "NOT_FOUND", "match not found")
		return
	}

	sess.JoinMatch(req["match_id"], false)
	logger.Log.Infof("Session %s joined match %s", sess.GetID(), req["match_id"])
	s.syncState(sess, m)
}

func (s *GameServer) handleLeaveMatch(sess *session.Session, packet *network.Packet) {
	matchID := sess.GetMatchID()
	if matchID == "" {
		return
	}
	sess.LeaveMatch()

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if len(s.sessionManager.GetByMatch(matchID)) == 0 {
		s.matchManager.RemoveMatch(matchID)
	}
	if s.monitor != nil {
		s.monitor.SetActiveMatches(s.matchManager.Count())
	}
}

func (s *GameServer) handleLoadPlaylist(sess *session.Session, packet *network.Packet) {
	m, ok := s.hostMatch(sess)
	if !ok {
		return
	}

	var req map[string]string
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		s.sendError(sess, "BAD_REQUEST", "malformed playlist request")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), playlistLoadTimeout)
	defer cancel()

	songs, err := s.playlistService.Load(ctx, req["url"])
	if err != nil {
		logger.Log.Infof("Session %s playlist load failed: %v", sess.GetID(), err)
		s.sendError(sess, string(songsource.CodeOf(err)), err.Error())
		return
	}

	m.Dispatch(game.Action{Type: game.ActionSetPlaylist, Songs: songs})
}

// handleGameAction forwards a host action to the match engine. Team names
// are validated here so the host gets a reason instead of a silent no-op,
// and team IDs are always assigned server-side.
func (s *GameServer) handleGameAction(sess *session.Session, packet *network.Packet) {
	m, ok := s.hostMatch(sess)
	if !ok {
		return
	}

	var action game.Action
	if err := json.Unmarshal(packet.Data, &action); err != nil {
		s.sendError(sess, "BAD_REQUEST", "malformed action")
		return
	}

	switch action.Type {
	case game.ActionRestoreState:
		// Snapshots come from storage, never from the wire.
		s.sendError(sess, "BAD_REQUEST", "action not allowed")
		return
	case game.ActionAddTeam:
		if action.Team == nil {
			s.sendError(sess, "BAD_REQUEST", "team is required")
			return
		}
		if reason := game.ValidateTeamName(s.rules, m.State(), action.Team.Name); reason != "" {
			s.sendError(sess, "INVALID_TEAM", reason)
			return
		}
		action.Team.ID = uuid.New().String()
	}

	m.Dispatch(action)
}

func (s *GameServer) handleSnippetEnded(sess *session.Session) {
	if m, ok := s.hostMatch(sess); ok {
		m.HandleSnippetEnded()
	}
}

func (s *GameServer) handlePlaybackError(sess *session.Session, packet *network.Packet) {
	m, ok := s.hostMatch(sess)
	if !ok {
		return
	}

	var req struct {
		Code int `json:"code"`
	}
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}
	m.HandlePlaybackError(req.Code)
}

// hostMatch resolves the session's match and enforces that game-changing
// messages only come from the host surface.
func (s *GameServer) hostMatch(sess *session.Session) (*match.Match, bool) {
	matchID := sess.GetMatchID()
	if matchID == "" {
		s.sendError(sess, "NO_MATCH", "not in a match")
		return nil, false
	}
	if !sess.IsHost {
		s.sendError(sess, "FORBIDDEN", "only the host may do that")
		return nil, false
	}
	m, exists := s.matchManager.GetMatch(matchID)
	if !exists {
		s.sendError(sess, "NOT_FOUND", "match not found")
		return nil, false
	}
	return m, true
}

func (s *GameServer) syncState(sess *session.Session, m *match.Match) {
	data, err := json.Marshal(m.State())
	if err != nil {
		return
	}
	sess.Send(network.MsgTypeStateSync, data)
}

// handlePlaylistHTTP lets hosts sanity-check a playlist before opening a
// match. Same service path as the in-match load, mapped to HTTP statuses.
func (s *GameServer) handlePlaylistHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), playlistLoadTimeout)
	defer cancel()

	songs, err := s.playlistService.Load(ctx, req.URL)
	if err != nil {
		code := songsource.CodeOf(err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(httpStatusFor(code))
		json.NewEncoder(w).Encode(map[string]string{
			"code":    string(code),
			"message": err.Error(),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"songs": songs})
}

func httpStatusFor(code songsource.Code) int {
	switch code {
	case songsource.CodeInvalidInput:
		return http.StatusBadRequest
	case songsource.CodeNotFound:
		return http.StatusNotFound
	case songsource.CodeForbidden:
		return http.StatusForbidden
	case songsource.CodeQuotaExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}
