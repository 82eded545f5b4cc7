// Package httpapi exposes the rendered server list over HTTP.
package httpapi

import (
	"context"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"mtlist/internal/servers"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

type RegionReader interface {
	Get(target string) (string, bool)
}

type Refresher interface {
	More(ctx context.Context)
}

type Lister interface {
	Latest() *servers.Response
}

// Deps are the pieces the handlers read from and act on.
type Deps struct {
	Regions RegionReader
	Poller  interface {
		Refresher
		Lister
	}
	Target  string
	MoreURL string
}

// NewRouter builds the gin engine. testMode disables request logging.
func NewRouter(deps Deps, logger *zap.Logger, testMode bool) *gin.Engine {
	logger = logger.Named("api")

	engine := gin.New()
	engine.Use(gin.Recovery())
	if !testMode {
		engine.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
			TimeFormat: time.RFC3339,
			UTC:        true,
			SkipPaths:  []string{"/health"},
		}))
	}
	_ = engine.SetTrustedProxies(nil)
	engine.Use(WithCORS())

	moreURL := deps.MoreURL
	if moreURL == "" {
		moreURL = "/more"
	}

	engine.GET("/", getPage(deps.Regions, deps.Target))
	engine.GET("/region/:target", getRegion(deps.Regions))
	engine.POST(moreURL, postMore(deps.Poller, logger))
	engine.GET("/api/servers", getServers(deps.Poller))
	engine.GET("/health", getHealth())

	return engine
}

// Serve runs the HTTP server until ctx is done.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	logger = logger.Named("api")
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logger.Info("Service status changed", zap.String("state", "ready"), zap.String("addr", addr))
	defer logger.Info("Service status changed", zap.String("state", "stopped"))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if errShutdown := httpServer.Shutdown(shutdownCtx); errShutdown != nil {
			logger.Error("Error shutting down http service", zap.Error(errShutdown))
		}
	}()

	if errServe := httpServer.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
		return errors.Wrap(errServe, "HTTP server returned error")
	}
	return nil
}
