package server

import (
	"context"
	"time"

	"wfmarket/checker/internal/domain"
	"wfmarket/checker/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// clientMessage is one event sent by the browser over the session socket
type clientMessage struct {
	Type string             `json:"type"` // input, key, select, recent, search, clear_recent, toggle_theme
	Text string             `json:"text,omitempty"`
	Key  session.Key        `json:"key,omitempty"`
	Item domain.CatalogItem `json:"item"`
}

type serverMessage struct {
	Type string       `json:"type"`
	View session.View `json:"view"`
}

// Session upgrades to a websocket and runs one controller for the connection.
// Query parameters: client identifies persisted state, t is a shared item slug to open.
func (h *Handler) Session(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warnf("⚠️ Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	clientID := c.Query("client")
	if clientID == "" {
		clientID = "default"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	views := make(chan session.View, 16)
	opts := h.opts
	opts.ClientID = clientID

	controller := session.NewController(ctx, h.searcher, h.store, opts, func(v session.View) {
		// A slow client only ever needs the newest view
		select {
		case views <- v:
		default:
			select {
			case <-views:
			default:
			}
			views <- v
		}
	})
	go controller.Run(ctx)

	if slug := c.Query("t"); slug != "" {
		controller.Open(slug)
	}

	log.Infof("🔌 Session opened for client %s", clientID)
	go h.writeLoop(ctx, cancel, conn, views)
	h.readLoop(conn, controller)
	log.Infof("👋 Session closed for client %s", clientID)
}

func (h *Handler) readLoop(conn *websocket.Conn, controller *session.Controller) {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnf("⚠️ Websocket read failed: %v", err)
			}
			return
		}

		switch msg.Type {
		case "input":
			controller.Input(msg.Text)
		case "key":
			controller.Key(msg.Key)
		case "select":
			controller.Select(msg.Item)
		case "recent":
			controller.SelectRecent(msg.Text)
		case "search":
			controller.Search()
		case "clear_recent":
			controller.ClearRecent()
		case "toggle_theme":
			controller.ToggleTheme()
		default:
			log.Debugf("Ignoring unknown session message type %q", msg.Type)
		}
	}
}

func (h *Handler) writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, views <-chan session.View) {
	defer cancel()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case v := <-views:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(serverMessage{Type: "view", View: v}); err != nil {
				log.Warnf("⚠️ Websocket write failed: %v", err)
				conn.Close()
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				return
			}
		}
	}
}
