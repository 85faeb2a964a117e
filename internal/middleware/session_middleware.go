package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/session"
)

const SessionKey = "session"

// SessionMiddleware loads the browser session once per request and writes the
// cookie back just before the response headers go out.
func SessionMiddleware(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := manager.Load(c.Request)
		c.Set(SessionKey, state)

		writer := &sessionWriter{ResponseWriter: c.Writer, commit: func() {
			if err := manager.Save(c.Request.Context(), c.Writer.Header(), state); err != nil {
				GetLoggerFromContext(c).Error("Failed to save session", err)
			}
		}}
		c.Writer = writer

		c.Next()

		// handlers that wrote nothing still get their session persisted
		writer.flush()
	}
}

// GetSession returns the request's session. Outside SessionMiddleware it
// returns a throwaway empty session.
func GetSession(c *gin.Context) *session.State {
	if value, exists := c.Get(SessionKey); exists {
		if state, ok := value.(*session.State); ok {
			return state
		}
	}
	state := session.New()
	c.Set(SessionKey, state)
	return state
}

// sessionWriter commits the session on the first header write.
type sessionWriter struct {
	gin.ResponseWriter
	commit    func()
	committed bool
}

func (w *sessionWriter) flush() {
	if w.committed || w.ResponseWriter.Written() {
		return
	}
	w.committed = true
	w.commit()
}

func (w *sessionWriter) before() {
	if !w.committed {
		w.committed = true
		w.commit()
	}
}

func (w *sessionWriter) WriteHeader(code int) {
	w.before()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) WriteHeaderNow() {
	w.before()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *sessionWriter) Write(data []byte) (int, error) {
	w.before()
	return w.ResponseWriter.Write(data)
}

func (w *sessionWriter) WriteString(s string) (int, error) {
	w.before()
	return w.ResponseWriter.WriteString(s)
}
