package websocket

import (
	"net/http"

	"github.com/centrifugal/centrifuge"
)

// NewHandler serves the insights WebSocket. Clients are anonymous; every connection
// is subscribed to InsightsChannel by the server.
func NewHandler(node *centrifuge.Node, checkOrigin func(r *http.Request) bool) http.Handler {
	ws := centrifuge.NewWebsocketHandler(node, centrifuge.WebsocketConfig{
		CheckOrigin:     checkOrigin,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := centrifuge.SetCredentials(r.Context(), &centrifuge.Credentials{})
		ws.ServeHTTP(w, r.WithContext(ctx))
	})
}
