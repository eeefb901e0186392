package web

import (
	"log"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionName = "shopboard_session"

// Sessions returns the cookie-backed session middleware used for flash messages.
func Sessions(secret string) gin.HandlerFunc {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   86400,
	})
	return sessions.Sessions(sessionName, store)
}

// Flash queues a one-time message for the next rendered page.
func Flash(c *gin.Context, message string) {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return
	}
	s := sessions.Default(c)
	s.AddFlash(message)
	if err := s.Save(); err != nil {
		log.Printf("WARNING: failed to save flash message: %v", err)
	}
}

// PopFlashes returns and clears the queued messages.
func PopFlashes(c *gin.Context) []string {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	s := sessions.Default(c)
	flashes := s.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	if err := s.Save(); err != nil {
		log.Printf("WARNING: failed to clear flash messages: %v", err)
	}

	messages := make([]string, 0, len(flashes))
	for _, f := range flashes {
		if m, ok := f.(string); ok {
			messages = append(messages, m)
		}
	}
	return messages
}
