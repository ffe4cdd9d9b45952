package access

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/centersguide/centersguide/internal/roles"
)

const streamPing = 25 * time.Second

type streamFrame struct {
	Outcome  string `json:"outcome"`
	Location string `json:"location,omitempty"`
}

// Stream serves server-sent events re-evaluating policy on every role change.
// The stream ends with a redirect event once the visitor is no longer admitted.
func (g *Guard) Stream(policy Policy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}
		identity := g.identities.Identity(r)
		binding := roles.NewBinding(g.watcher)
		defer binding.Close()
		sub := binding.Bind(identity.User)

		origin := SafeReturn(r.URL.Query().Get(ReturnParam), "/")
		streamID := uuid.NewString()
		logger := g.logger.With(slog.String("stream", streamID), slog.String("policy", policy.Name))

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		ticker := time.NewTicker(streamPing)
		defer ticker.Stop()
		last := Kind(-1)
		for seq := 0; ; {
			changed := sub.Changed()
			outcome := Decide(identity, sub.Snapshot(), policy, origin)
			if outcome.Kind != last {
				last = outcome.Kind
				seq++
				if err := writeEvent(w, "outcome", fmt.Sprintf("%s-%d", streamID, seq), streamFrame{Outcome: outcome.Kind.String(), Location: outcome.Location()}); err != nil {
					logger.Debug("stream write", slog.Any("error", err))
					return
				}
				flusher.Flush()
			}
			if outcome.Redirects() {
				_, _ = fmt.Fprintf(w, "event: redirect\ndata: %s\n\n", outcome.Location())
				flusher.Flush()
				return
			}
			select {
			case <-r.Context().Done():
				return
			case <-changed:
			case <-ticker.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, event, id string, frame streamFrame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\nid: %s\ndata: %s\n\n", event, id, data)
	return err
}

// SafeReturn accepts only same-site absolute paths as return locations.
func SafeReturn(raw, fallback string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return fallback
	}
	return raw
}
