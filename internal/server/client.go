package server

import (
	"net/http"
	"time"

	"dungeon-sim/internal/engine"
	"dungeon-sim/internal/network"
	"dungeon-sim/pkg/api"
	"dungeon-sim/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - наблюдатель по WebSocket. Получает снимки мира из Hub и может
// присылать команды, которые исполняются через Session.
type Client struct {
	ID      string
	Session *engine.Session
	Hub     *network.Broadcaster
	Conn    *websocket.Conn
	Send    chan api.ServerResponse

	limiter *IPRateLimiter
	ip      string
	metrics *Metrics
}

func NewClient(s *engine.Session, hub *network.Broadcaster, conn *websocket.Conn) *Client {
	id := uuid.NewString()
	return &Client{
		ID:      id,
		Session: s,
		Hub:     hub,
		Conn:    conn,
		Send:    hub.Register(id),
	}
}

// readPump читает команды наблюдателя
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c.ID)
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection")
		}
		logger.Log.WithField("observer", c.ID).Info("Observer disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	for {
		var cmd api.ClientCommand
		err := c.Conn.ReadJSON(&cmd)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Errorf("WS Error: %v", err)
			}
			break
		}
		if c.limiter != nil && !c.limiter.Allow(c.ip) {
			c.Hub.SendTo(c.ID, api.ServerResponse{Type: "ERROR", Error: "too many requests"})
			continue
		}

		_, err = c.Session.Execute(cmd)
		c.metrics.ObserveCommand(cmd.Action, err)
		if err != nil {
			// Успешная команда приходит всем через PublishState, ошибка - только автору
			c.Hub.SendTo(c.ID, api.ServerResponse{Type: "ERROR", Error: err.Error()})
		}
	}
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				logger.Log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}

// handleWS подключает наблюдателя и сразу отправляет ему текущий снимок.
func (h *handler) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Error("Upgrade error")
		return
	}

	client := NewClient(h.session, h.hub, conn)
	client.limiter = h.limiter
	client.ip = GetClientIP(r)
	client.metrics = h.metrics

	logger.Log.WithFields(logrus.Fields{
		"observer":  client.ID,
		"remote":    client.ip,
		"observers": h.hub.SubscriberCount(),
	}).Info("Observer connected")

	h.hub.SendTo(client.ID, api.ServerResponse{Type: "STATE", State: h.session.State()})

	go client.writePump()
	go client.readPump()
}
