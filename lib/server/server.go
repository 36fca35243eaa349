// Package server serves a local directory over http so that local pages can be rasterized
// the same way as remote ones.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/gin-gonic/gin"
)

// FilesPrefix is the route prefix of the served directory
const FilesPrefix = "/files"

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// Handler for the root directory
func Handler(root string) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/status", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	r.Static(FilesPrefix, root)

	return r
}

// Server for a local directory
type Server struct {
	// URL of the server, such as "http://127.0.0.1:35127"
	URL string

	srv *http.Server
}

// Serve the root directory on a random local port
func Serve(ctx context.Context, root string) (*Server, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	s := &Server{
		URL: "http://" + l.Addr().String(),
		srv: &http.Server{Handler: Handler(root)},
	}

	go func() {
		err := s.srv.Serve(l)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "file server: %v", err)
		}
	}()

	logger.Debugf(ctx, "serving %s at %s", root, s.URL)

	return s, nil
}

// Resolve returns u as is if it has a scheme, otherwise u is treated as a path
// relative to the served directory.
func (s *Server) Resolve(u string) string {
	parsed, err := url.Parse(u)
	if err == nil && parsed.Scheme != "" {
		return u
	}

	return s.URL + path.Join(FilesPrefix, strings.TrimLeft(u, "/"))
}

// Close the server
func (s *Server) Close() error {
	return s.srv.Close()
}
