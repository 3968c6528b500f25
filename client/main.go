package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	MsgTypeCreateMatch   = 101
	MsgTypeLoadPlaylist  = 104
	MsgTypeGameAction    = 201
	MsgTypeSnippetEnded  = 404
	MsgTypePlaybackError = 405
)

// send formats and sends a message to the WebSocket server.
func send(c *websocket.Conn, msgID uint16, data []byte) error {
	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[4:], data)

	return c.WriteMessage(websocket.BinaryMessage, packet)
}

func sendJSON(c *websocket.Conn, msgID uint16, payload interface{}) {
	data, _ := json.Marshal(payload)
	if err := send(c, msgID, data); err != nil {
		log.Println("Write error:", err)
	}
}

func sendAction(c *websocket.Conn, action map[string]interface{}) {
	sendJSON(c, MsgTypeGameAction, action)
	log.Printf("-> SENT: %s action", action["type"])
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: "localhost:8080", Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			if len(message) < 4 {
				log.Printf("Received invalid packet of size %d", len(message))
				continue
			}
			msgID := binary.BigEndian.Uint16(message[0:2])
			data := message[4:]
			log.Printf("<- RECV (ID: %d): %s", msgID, string(data))
		}
	}()

	// Host a match right away
	log.Println("Sending Create Match request...")
	if err := send(c, MsgTypeCreateMatch, []byte{}); err != nil {
		log.Println("Write error:", err)
		return
	}

	log.Println("Host client started. Commands:")
	log.Println("  playlist <url> | team <name> | start | duration <1|3|5>")
	log.Println("  pick <team-id> | correct | wrong | next | ended | blocked | reset")

	// Write loop
	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			fields := strings.Fields(strings.TrimSpace(text))
			if len(fields) == 0 {
				continue
			}

			switch fields[0] {
			case "playlist":
				if len(fields) < 2 {
					log.Println("Usage: playlist <url>")
					continue
				}
				sendJSON(c, MsgTypeLoadPlaylist, map[string]string{"url": fields[1]})
			case "team":
				if len(fields) < 2 {
					log.Println("Usage: team <name>")
					continue
				}
				name := strings.Join(fields[1:], " ")
				sendAction(c, map[string]interface{}{
					"type": "ADD_TEAM",
					"team": map[string]interface{}{"name": name},
				})
			case "start":
				sendAction(c, map[string]interface{}{"type": "START_GAME"})
			case "duration":
				if len(fields) < 2 {
					log.Println("Usage: duration <1|3|5>")
					continue
				}
				d, _ := strconv.Atoi(fields[1])
				sendAction(c, map[string]interface{}{"type": "SET_PLAYBACK_DURATION", "duration": d})
			case "pick":
				if len(fields) < 2 {
					log.Println("Usage: pick <team-id>")
					continue
				}
				sendAction(c, map[string]interface{}{"type": "SELECT_ANSWERING_TEAM", "team_id": fields[1]})
			case "correct":
				sendAction(c, map[string]interface{}{"type": "MARK_CORRECT"})
			case "wrong":
				sendAction(c, map[string]interface{}{"type": "MARK_INCORRECT"})
			case "next":
				sendAction(c, map[string]interface{}{"type": "NEXT_ROUND"})
			case "ended":
				send(c, MsgTypeSnippetEnded, []byte{})
				log.Println("-> SENT: snippet ended")
			case "blocked":
				sendJSON(c, MsgTypePlaybackError, map[string]int{"code": 101})
			case "reset":
				sendAction(c, map[string]interface{}{"type": "RESET_GAME"})
			default:
				log.Printf("Unknown command: %s", fields[0])
			}
		}
	}
}
