package web

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Zachkp/devfolio/internal/typewriter"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  256,
	WriteBufferSize: 1024,
}

// handleTypewriter streams headline frames to one hero view. Each
// connection owns its animator; closing the socket tears it down.
func (s *Server) handleTypewriter(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("typewriter upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	var anim *typewriter.Animator
	anim, err = typewriter.New(s.site.Roles(),
		typewriter.WithTiming(s.timing),
		typewriter.WithScheduler(s.scheduler),
		typewriter.WithLogger(s.logger),
		typewriter.OnFrame(func(f typewriter.Frame) {
			if err := writeFrame(conn, f); err != nil {
				s.logger.Debug("typewriter write failed", zap.Error(err))
				anim.Stop()
			}
		}),
	)
	if err != nil {
		s.logger.Error("typewriter setup failed", zap.Error(err))
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "typewriter unavailable"))
		return
	}
	defer anim.Stop()

	if err := writeFrame(conn, anim.Snapshot()); err != nil {
		return
	}
	anim.Start()

	// The page never sends anything; reading only detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("typewriter read", zap.Error(err))
			}
			return
		}
	}
}

func writeFrame(conn *websocket.Conn, f typewriter.Frame) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(f)
}
