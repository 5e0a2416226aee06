package query

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/stelelabs/fundx/app/query/controller"
	"github.com/stelelabs/fundx/app/query/types"
	"github.com/stelelabs/fundx/pkg/utils"
)

// NewServer attaches the router to the app's HTTP server.
func NewServer(app *types.App) error {
	ctler := controller.NewController(app)
	router := ctler.NewRouter()

	// use <ip>:<port> to bind a specific interface or :<port> for all
	addr := utils.Env("ADDR", ":3001")

	app.Server = &http.Server{Addr: addr, Handler: controller.WithCORS(router)}
	app.Logger.Info("Starting server", zap.String("addr", addr))
	return nil
}
