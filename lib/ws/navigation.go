package ws

import (
	"net/http"

	"github.com/ether/uiflex-go/lib/flex"
	models "github.com/ether/uiflex-go/lib/models/ws"
	"github.com/ether/uiflex-go/lib/settings"
	"github.com/ether/uiflex-go/lib/variants"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// socketHashChanger keeps the hash the peer reported. Route changes that a
// navigation filter handled are also sent to the peer so its router sees
// them.
type socketHashChanger struct {
	*variants.MemoryHashChanger
	client *Client
}

func (h *socketHashChanger) FireHashChanged(newHash, oldHash string) {
	h.MemoryHashChanger.FireHashChanged(newHash, oldHash)
	h.client.emit(models.TypeRouteChanged, models.RouteChanged{NewRoute: newHash, OldRoute: oldHash})
}

// attach wires the client into a new session on its own fork of model,
// starting at hash.
func (c *Client) attach(model *variants.Model, runtime *variants.Runtime, hash, parameterName string, manager *flex.Manager) {
	sessionModel := model.Fork(uuid.NewString())
	c.changer = &socketHashChanger{MemoryHashChanger: variants.NewMemoryHashChanger(hash), client: c}
	c.reported = hash
	c.changer.Subscribe(c)
	c.api = variants.NewAPI(runtime.WithComponent(&variants.Component{ID: model.Reference(), Model: sessionModel}), c.logger)
	c.session = variants.NewSession(sessionModel, c.changer, c, manager.Hooks(), parameterName, c.logger)
	c.session.Attach()
}

// ServeNavigationWs handles the websocket of one view. The query carries the
// reference and the hash the browser started with.
func ServeNavigationWs(w http.ResponseWriter, r *http.Request, hub *Hub, manager *flex.Manager,
	configSettings *settings.Settings, logger *zap.SugaredLogger) {
	reference := r.URL.Query().Get("reference")
	hash := r.URL.Query().Get("hash")

	model, err := manager.VariantModel(r.Context(), reference)
	if err != nil {
		logger.Warnf("no variant model for %q: %v", reference, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Errorf("error upgrading connection: %v", err)
		return
	}
	client := NewClient(hub, NewWebSocketWrapper(conn), reference, logger)
	logger.Debugf("navigation session for %s from %s", reference, client.Conn.RemoteAddr())
	client.attach(model, manager.Runtime(), hash, configSettings.Flex.VariantParameterName, manager)
	defer client.session.Close()

	hub.Register <- client
	client.emit(models.TypeState, client.state())
	go client.writePump()
	client.readPump(configSettings.Socket.MaxMessageSize)
}
