package session

import (
	"net"
	"testing"
	"time"

	"github.com/wfunc/guessjam/network"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct{}

func (m *MockConnection) Send(msgID uint16, data []byte) error { return nil }
func (m *MockConnection) Close() error                         { return nil }
func (m *MockConnection) RemoteAddr() net.Addr                 { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(interval time.Duration)  {}
func (m *MockConnection) ReadPacket() (*network.Packet, error) { return nil, nil }

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager should not return nil")
	}
	if manager.sessions == nil {
		t.Fatal("NewManager should initialize the sessions map")
	}
}

func TestManager_Add_Get_Remove(t *testing.T) {
	manager := NewManager()
	sess := NewSession("sess-1", &MockConnection{})

	manager.Add(sess)
	if manager.Count() != 1 {
		t.Fatalf("Expected session count 1, got %d", manager.Count())
	}

	got, exists := manager.Get("sess-1")
	if !exists || got != sess {
		t.Fatal("Get should return the added session")
	}

	manager.Remove("sess-1")
	if _, exists := manager.Get("sess-1"); exists {
		t.Fatal("Session should be gone after Remove")
	}
}

func TestManager_GetByMatch(t *testing.T) {
	manager := NewManager()

	host := NewSession("host", &MockConnection{})
	host.JoinMatch("match-1", true)
	player := NewSession("player", &MockConnection{})
	player.JoinMatch("match-1", false)
	other := NewSession("other", &MockConnection{})
	other.JoinMatch("match-2", true)

	manager.Add(host)
	manager.Add(player)
	manager.Add(other)

	members := manager.GetByMatch("match-1")
	if len(members) != 2 {
		t.Fatalf("Expected 2 sessions in match-1, got %d", len(members))
	}

	player.LeaveMatch()
	if got := manager.GetByMatch("match-1"); len(got) != 1 {
		t.Fatalf("Expected 1 session after leave, got %d", len(got))
	}
}
