// match/match.go
package match

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/wfunc/guessjam/game"
	"github.com/wfunc/guessjam/logger"
	"github.com/wfunc/guessjam/models"
	"github.com/wfunc/guessjam/network"
	"github.com/wfunc/guessjam/persistence"
	"github.com/wfunc/guessjam/playback"
	"github.com/wfunc/guessjam/timer"
)

const actionQueueSize = 128

// Match is one hosted game. It owns the single live game.State and is its
// only writer: every timer, playback, and host event is funneled as an
// action through one serialized queue, applied by the reducer on a single
// goroutine.
type Match struct {
	ID    string
	rules game.Rules
	clock clockwork.Clock

	store       persistence.Store
	broadcaster Broadcaster
	playbackCtl playback.Controller
	recorder    Recorder

	actions   chan game.Action
	closeChan chan struct{}
	closeOnce sync.Once

	stateMutex sync.RWMutex
	state      game.State

	countdown    *timer.Countdown
	answerWindow *timer.Countdown

	startedAt time.Time
}

// NewMatch creates a match, reconciles any persisted snapshot, and starts
// the action loop. Reconciliation happens before the first action is
// accepted, so a resumed host never observes the pre-restore state.
func NewMatch(id string, rules game.Rules, clock clockwork.Clock, store persistence.Store,
	broadcaster Broadcaster, playbackCtl playback.Controller, recorder Recorder) *Match {

	m := &Match{
		ID:          id,
		rules:       rules,
		clock:       clock,
		store:       store,
		broadcaster: broadcaster,
		playbackCtl: playbackCtl,
		recorder:    recorder,
		actions:     make(chan game.Action, actionQueueSize),
		closeChan:   make(chan struct{}),
		state:       game.InitialState(rules),
		startedAt:   clock.Now(),
	}

	// Countdown ticks and expiry feed back into the same action queue as
	// everything else; the reducer's preconditions absorb any callback that
	// arrives after its phase already moved on.
	m.countdown = timer.NewCountdown(clock,
		func(remaining int) { m.Dispatch(game.Action{Type: game.ActionCountdownTick}) },
		func() { m.Dispatch(game.Action{Type: game.ActionCountdownEnd}) },
	)
	m.answerWindow = timer.NewCountdown(clock, nil,
		func() { m.Dispatch(game.Action{Type: game.ActionMarkIncorrect}) },
	)

	m.restore()

	// A restored snapshot needs its timer re-armed; react only sees edges.
	switch m.state.Phase {
	case game.PhaseCountdown:
		m.countdown.Start(m.state.CountdownRemaining)
	case game.PhaseGuessing:
		if m.state.Round != nil && m.state.Round.AnsweringTeamID != "" {
			m.answerWindow.Start(rules.AnswerWindowSeconds)
		}
	}

	go m.loop()
	return m
}

// restore applies a reconciled snapshot, if one exists, as a RESTORE_STATE
// action before the loop starts. Load failures degrade to a fresh start.
func (m *Match) restore() {
	blob, err := m.store.LoadSnapshot(m.ID)
	if err != nil {
		if err != persistence.ErrSnapshotNotFound {
			logger.Log.Warnf("Match %s: snapshot load failed, starting fresh: %v", m.ID, err)
		}
		return
	}

	snapshot := game.Reconcile(blob, m.rules)
	if snapshot == nil {
		logger.Log.Warnf("Match %s: discarding unusable snapshot", m.ID)
		return
	}

	m.state = game.Reduce(m.rules, m.state, game.Action{
		Type:     game.ActionRestoreState,
		Snapshot: snapshot,
	})
	logger.Log.Infof("Match %s: restored snapshot in phase %s", m.ID, m.state.Phase)
}

// Dispatch enqueues an action for the match loop. Safe from any goroutine.
func (m *Match) Dispatch(a game.Action) {
	select {
	case m.actions <- a:
	case <-m.closeChan:
	}
}

// State returns the current state. The returned value shares slice backing
// with the live state, which is safe because the reducer replaces slices
// instead of mutating them.
func (m *Match) State() game.State {
	m.stateMutex.RLock()
	defer m.stateMutex.RUnlock()
	return m.state
}

// HandleSnippetEnded maps the playback surface's completion signal into the
// action vocabulary.
func (m *Match) HandleSnippetEnded() {
	m.Dispatch(game.Action{Type: game.ActionPlaybackEnded})
}

// HandlePlaybackError skips the round when the song cannot be embedded;
// other codes are logged and left for the host to retry manually.
func (m *Match) HandlePlaybackError(code int) {
	if playback.IsEmbedBlocked(code) {
		logger.Log.Infof("Match %s: song embed blocked (code %d), skipping round", m.ID, code)
		m.Dispatch(game.Action{Type: game.ActionNextRound})
		return
	}
	logger.Log.Warnf("Match %s: playback error code %d", m.ID, code)
}

// Close stops the loop and both timers. Idempotent.
func (m *Match) Close() {
	m.closeOnce.Do(func() {
		close(m.closeChan)
		m.countdown.Stop()
		m.answerWindow.Stop()
	})
}

func (m *Match) loop() {
	for {
		select {
		case a := <-m.actions:
			m.apply(a)
		case <-m.closeChan:
			return
		}
	}
}

func (m *Match) apply(a game.Action) {
	start := m.clock.Now()

	prev := m.State()
	next := game.Reduce(m.rules, prev, a)

	m.stateMutex.Lock()
	m.state = next
	m.stateMutex.Unlock()

	m.react(prev, next, a)
	m.persist(next)
	m.broadcastState(next)

	if m.recorder != nil {
		m.recorder.IncActions()
		m.recorder.ObserveActionLatency(m.clock.Since(start))
	}
}

// react arms and disarms timers and playback on phase edges. It runs on the
// loop goroutine, after the state swap, so everything it reads is settled.
func (m *Match) react(prev, next game.State, a game.Action) {
	// A START_GAME while already counting down restarts the timer too.
	enteredCountdown := next.Phase == game.PhaseCountdown &&
		(prev.Phase != game.PhaseCountdown || a.Type == game.ActionStartGame)
	leftCountdown := prev.Phase == game.PhaseCountdown && next.Phase != game.PhaseCountdown
	if enteredCountdown {
		m.countdown.Start(next.CountdownRemaining)
	} else if leftCountdown {
		m.countdown.Stop()
	}

	// A new round began: fire the snippet.
	if next.Phase == game.PhasePlaying &&
		(prev.Phase != game.PhasePlaying || prev.CurrentRoundIndex != next.CurrentRoundIndex) {
		m.answerWindow.Stop()
		if song := game.CurrentSong(next); song != nil {
			if err := m.playbackCtl.Play(song.ID, next.PlaybackDuration); err != nil {
				logger.Log.Warnf("Match %s: play command failed: %v", m.ID, err)
			} else if m.recorder != nil {
				m.recorder.IncSnippetsPlayed()
			}
		}
	}

	// Answer window follows the currently answering team.
	prevAnswering := ""
	if prev.Round != nil {
		prevAnswering = prev.Round.AnsweringTeamID
	}
	nextAnswering := ""
	if next.Round != nil && next.Phase == game.PhaseGuessing {
		nextAnswering = next.Round.AnsweringTeamID
	}
	if nextAnswering != "" && nextAnswering != prevAnswering {
		m.answerWindow.Start(m.rules.AnswerWindowSeconds)
	} else if nextAnswering == "" && prevAnswering != "" {
		m.answerWindow.Stop()
	}

	// Leaving the live-snippet phases silences the player.
	if prev.Phase == game.PhasePlaying && next.Phase != game.PhasePlaying &&
		next.Phase != game.PhaseGuessing {
		if err := m.playbackCtl.Stop(); err != nil {
			logger.Log.Warnf("Match %s: stop command failed: %v", m.ID, err)
		}
	}

	if next.Phase == game.PhaseGameOver && prev.Phase != game.PhaseGameOver {
		m.finishMatch(next)
	}
}

func (m *Match) finishMatch(s game.State) {
	m.countdown.Stop()
	m.answerWindow.Stop()

	record := &models.MatchRecord{
		MatchID:      m.ID,
		WinnerID:     s.WinnerID,
		SongsPlayed:  s.CurrentRoundIndex + 1,
		TotalSongs:   len(s.Songs),
		DurationSecs: int(m.clock.Since(m.startedAt).Seconds()),
		CreatedAt:    time.Now(),
	}
	for _, t := range s.Teams {
		record.Teams = append(record.Teams, models.TeamResult{
			TeamID: t.ID,
			Name:   t.Name,
			Score:  t.Score,
			Winner: t.ID == s.WinnerID,
		})
	}
	if err := m.store.SaveMatchRecord(record); err != nil {
		logger.Log.Warnf("Match %s: match record save failed: %v", m.ID, err)
	}
	if m.recorder != nil {
		m.recorder.IncMatchesCompleted()
	}
	logger.Log.Infof("Match %s: game over, winner %s", m.ID, s.WinnerID)
}

// persist writes the snapshot after every transition. Setup and game-over
// have nothing worth resuming, so their snapshots are cleared instead.
// Storage failures are logged and swallowed; they must never break the game.
func (m *Match) persist(s game.State) {
	if s.Phase == game.PhaseSetup || s.Phase == game.PhaseGameOver {
		if err := m.store.ClearSnapshot(m.ID); err != nil {
			logger.Log.Warnf("Match %s: snapshot clear failed: %v", m.ID, err)
		}
		return
	}

	blob, err := json.Marshal(s)
	if err != nil {
		logger.Log.Warnf("Match %s: snapshot marshal failed: %v", m.ID, err)
		return
	}
	if err := m.store.SaveSnapshot(m.ID, blob); err != nil {
		logger.Log.Warnf("Match %s: snapshot save failed: %v", m.ID, err)
	}
}

func (m *Match) broadcastState(s game.State) {
	data, err := json.Marshal(s)
	if err != nil {
		logger.Log.Errorf("Match %s: state marshal failed: %v", m.ID, err)
		return
	}
	if err := m.broadcaster.BroadcastToMatch(m.ID, network.MsgTypeStateSync, data); err != nil {
		logger.Log.Warnf("Match %s: state broadcast failed: %v", m.ID, err)
	}
}
