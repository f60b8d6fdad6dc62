// Package ws mantiene el hub de clientes WebSocket para las actualizaciones
// en vivo: cada mutación de producto, orden, merma o sesión se difunde a todos
// los navegadores conectados para que refresquen sin recargar.
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/inventariox/inventariox-api/pkg/logger"
)

// Event es el payload difundido a los clientes conectados.
type Event struct {
	Type   string `json:"type"` // ej. product_updated
	ID     string `json:"id"`
	Action string `json:"action"` // create, update, delete
}

// client envuelve una conexión con un mutex para escrituras seguras.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Hub mantiene los clientes conectados y difunde eventos.
// Implementa el puerto Notifier de los casos de uso.
type Hub struct {
	log     *logger.Logger
	mu      sync.RWMutex
	clients map[*client]struct{}
}

// NewHub crea el hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{log: log, clients: make(map[*client]struct{})}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	h.log.Debug().Int("clients", count).Msg("ws: cliente conectado")
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	count := len(h.clients)
	h.mu.Unlock()
	_ = c.conn.Close()
	h.log.Debug().Int("clients", count).Msg("ws: cliente desconectado")
}

// Notify difunde el cambio de un recurso (puerto Notifier). No bloquea al
// llamador más allá de los write deadlines de los clientes.
func (h *Hub) Notify(resource, action, id string) {
	h.Broadcast(Event{
		Type:   resource + "_" + action + "d",
		ID:     id,
		Action: action,
	})
}

// Broadcast envía un evento a todos los clientes conectados; los clientes
// cuya escritura falla se expulsan.
func (h *Hub) Broadcast(evt Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		h.log.Error().Err(err).Msg("ws: marshal de evento")
		return
	}
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.mu.Lock()
		_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		writeErr := c.conn.WriteMessage(websocket.TextMessage, data)
		c.mu.Unlock()
		if writeErr != nil {
			h.unregister(c)
		}
	}
}

// Handler devuelve el handler de Fiber que hace el upgrade y mantiene viva la
// conexión con pings periódicos.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		c := &client{conn: conn}
		h.register(c)
		defer h.unregister(c)

		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		})

		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					c.mu.Lock()
					err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
					c.mu.Unlock()
					if err != nil {
						return
					}
				}
			}
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}

// Upgrade es el middleware previo: rechaza peticiones que no sean de upgrade.
func Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}
