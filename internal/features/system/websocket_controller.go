package system

import (
	"log"

	"github.com/gofiber/contrib/websocket"
)

type WebSocketController struct {
	Hub *ProgressHub
}

func NewWebSocketController(hub *ProgressHub) *WebSocketController {
	return &WebSocketController{Hub: hub}
}

// HandleImportProgress streams batch progress for one import session until
// the client disconnects or the subscription is torn down.
func (h *WebSocketController) HandleImportProgress(c *websocket.Conn) {
	sessionID := c.Params("id")
	ch := h.Hub.Subscribe(sessionID)
	defer h.Hub.Unsubscribe(sessionID, ch)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case p, ok := <-ch:
			if !ok {
				return
			}
			if err := c.WriteJSON(p); err != nil {
				log.Println("write:", err)
				return
			}
		case <-done:
			return
		}
	}
}
