package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hjarnor/hjarnor/internal/handlers"
	authmw "github.com/hjarnor/hjarnor/internal/middleware/auth"
	"github.com/hjarnor/hjarnor/internal/tokens"
)

type Deps struct {
	Tokens           *tokens.Service
	AuthHandler      *handlers.AuthHandler
	BrainfartHandler *handlers.BrainfartHandler
	SearchHandler    *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	api.GET("/hello", func(c echo.Context) error { return c.String(http.StatusOK, "hello from server!") })
	api.POST("/registerbrain", d.AuthHandler.RegisterBrain)
	api.POST("/loginasbrain", d.AuthHandler.LoginAsBrain)

	private := api.Group("", authmw.RequireAuth(d.Tokens))

	private.GET("/getbrainfarts", d.BrainfartHandler.GetBrainfarts)
	private.POST("/createbrainfart", d.BrainfartHandler.CreateBrainfart)
	private.POST("/registermindexplosion", d.BrainfartHandler.RegisterMindExplosion)
	private.POST("/registermindimplosion", d.BrainfartHandler.RegisterMindImplosion)
	private.GET("/searchbrainfarts", d.SearchHandler.Search)
}
