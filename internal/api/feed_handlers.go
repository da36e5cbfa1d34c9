package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const feedKeepaliveInterval = 25 * time.Second

// handleFeed streams change events as server-sent events. Each mutation
// elsewhere in the API shows up as one `data:` line with the entity, action
// and id; a comment line goes out periodically to keep proxies from closing
// the idle connection. The stream ends when the hub drops the subscriber or
// the client goes away.
func (s *Server) handleFeed(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	sub := s.hub.Subscribe()
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer s.hub.Unsubscribe(sub)

		keepalive := time.NewTicker(feedKeepaliveInterval)
		defer keepalive.Stop()

		for {
			select {
			case event, ok := <-sub.Events:
				if !ok {
					return
				}
				payload, err := json.Marshal(event)
				if err != nil {
					continue
				}
				if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}

			case <-keepalive.C:
				if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}
