package middleware

import (
	"io"

	ginlogger "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AccessLog writes one line per request to out, tagged with the request id.
// Health checks are skipped.
func AccessLog(out io.Writer) gin.HandlerFunc {
	return ginlogger.SetLogger(
		ginlogger.WithWriter(out),
		ginlogger.WithUTC(true),
		ginlogger.WithSkipPath([]string{"/health"}),
		ginlogger.WithLogger(func(c *gin.Context, l zerolog.Logger) zerolog.Logger {
			return l.With().Str(RequestIDKey, GetRequestID(c)).Logger()
		}),
	)
}
