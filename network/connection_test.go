package network

import (
	"bytes"
	"testing"
)

func TestEncodeDecodePacket(t *testing.T) {
	payload := []byte(`{"type":"START_GAME"}`)
	framed := EncodePacket(MsgTypeGameAction, payload)

	packet, err := DecodePacket(framed)
	if err != nil {
		t.Fatalf("DecodePacket failed: %v", err)
	}
	if packet.MsgID != MsgTypeGameAction {
		t.Errorf("Expected msg ID %d, got %d", MsgTypeGameAction, packet.MsgID)
	}
	if !bytes.Equal(packet.Data, payload) {
		t.Errorf("Payload mismatch: %q", packet.Data)
	}
}

func TestDecodePacket_ShortBuffer(t *testing.T) {
	if _, err := DecodePacket([]byte{0, 1}); err == nil {
		t.Error("Expected an error for a truncated header")
	}

	// Header claims more payload than is present.
	framed := EncodePacket(MsgTypeHeartbeat, []byte("abcdef"))
	if _, err := DecodePacket(framed[:7]); err == nil {
		t.Error("Expected an error for a truncated payload")
	}
}
