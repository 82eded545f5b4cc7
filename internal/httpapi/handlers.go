package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mtlist/internal/format"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Server list</title></head>
<body>
<div id="%s">%s</div>
</body>
</html>
`

// WithCORS allows the rendered list and the listing to be embedded from any origin.
func WithCORS() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Header("Access-Control-Allow-Origin", "*")
		ctx.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		ctx.Header("Access-Control-Allow-Headers", "Content-Type")

		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusOK)
			return
		}
		ctx.Next()
	}
}

// getPage serves a bare host page with the default region embedded.
func getPage(regions RegionReader, target string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		markup, _ := regions.Get(target)
		ctx.Header("Cache-Control", "no-store")
		page := fmt.Sprintf(pageTemplate, format.Escape(target), markup)
		ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
	}
}

// getRegion serves the current markup of a single region.
func getRegion(regions RegionReader) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		markup, ok := regions.Get(ctx.Param("target"))
		if !ok {
			ctx.Status(http.StatusNotFound)
			return
		}
		ctx.Header("Cache-Control", "no-store")
		ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(markup))
	}
}

// postMore lifts the list restrictions, refreshes and sends the browser back.
func postMore(refresher Refresher, logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		logger.Debug("More requested", zap.String("remote", ctx.ClientIP()))
		refresher.More(ctx.Request.Context())
		ctx.Redirect(http.StatusSeeOther, "/")
	}
}

// getServers responds with the listing exactly as the directory sent it.
func getServers(lister Lister) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		resp := lister.Latest()
		if resp == nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "listing not fetched yet"})
			return
		}
		ctx.Data(http.StatusOK, "application/json", resp.Raw())
	}
}

func getHealth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
