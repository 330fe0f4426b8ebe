// internal/api/progress_websocket.go
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The tool runs same-host with a browser frontend; tighten this
		// when deploying behind a public origin.
		return true
	},
}

const progressWriteTimeout = 10 * time.Second

// ProgressWebSocket handles GET /ws/progress/:task_id. It streams progress
// updates for one generation task and closes once the task settles or the
// client disconnects.
func (h *Handler) ProgressWebSocket(c *gin.Context) {
	taskID := c.Param("task_id")
	if taskID == "" {
		h.response.BadRequest(c, "task_id is required")
		return
	}

	// The tracker is created on demand so the client can connect before
	// the generation request is submitted.
	tracker := h.ProgressService.CreateTracker(taskID)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", map[string]interface{}{
			"task_id": taskID,
			"error":   err.Error(),
		})
		return
	}
	defer conn.Close()

	updates := tracker.Subscribe()
	defer tracker.Unsubscribe(updates)

	// Drain reads so close frames are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}

			conn.SetWriteDeadline(time.Now().Add(progressWriteTimeout))
			if err := conn.WriteJSON(update); err != nil {
				return
			}

			if update.Status == "completed" || update.Status == "failed" {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, update.Status))
				return
			}

		case <-tracker.Done:
			return

		case <-c.Request.Context().Done():
			return
		}
	}
}
