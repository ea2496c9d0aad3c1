// Package routes holds the server's dispatch table.
package routes

import (
	"log/slog"
	"strings"

	"github.com/freekieb7/httpd/filesystem"
	"github.com/freekieb7/httpd/http"
)

const (
	echoPrefix      = "/echo/"
	userAgentPrefix = "/user-agent"
	filesPrefix     = "/files/"
)

type Options struct {
	// Files enables the /files/ existence route when non-nil.
	Files  filesystem.Filesystem
	Logger *slog.Logger
}

// Register adds the routes in dispatch order. Anything unmatched falls
// through to the router's 404 handler.
func Register(router *http.Router, opts Options) {
	router.Handle(http.Exact("/"), Root)
	router.Handle(http.Prefix(echoPrefix), Echo)
	router.Handle(http.Prefix(userAgentPrefix), UserAgent)

	if opts.Files != nil {
		logger := opts.Logger
		if logger == nil {
			logger = slog.Default()
		}
		router.Handle(http.Prefix(filesPrefix), Files(opts.Files, logger))
	}
}

func Root(req *http.Request, res *http.Response) {
	res.WithStatus(http.StatusOK)
}

// Echo answers with the target after "/echo/", as received.
func Echo(req *http.Request, res *http.Response) {
	res.WithText(strings.TrimPrefix(req.Target, echoPrefix))
}

// UserAgent answers with the User-Agent header. The lookup is exact-case.
func UserAgent(req *http.Request, res *http.Response) {
	res.WithText(req.Headers.Get("User-Agent"))
}

// Files reports whether the named file exists under the files directory
// without sending its content.
func Files(files filesystem.Filesystem, logger *slog.Logger) http.Handler {
	return func(req *http.Request, res *http.Response) {
		exists, err := filesystem.TargetExists(files, "/"+strings.TrimPrefix(req.Target, filesPrefix))
		if err != nil {
			logger.WarnContext(req.Context(), "file lookup failed", "target", req.Target, "error", err)
		}

		if !exists {
			res.WithStatus(http.StatusNotFound)
		}
	}
}
