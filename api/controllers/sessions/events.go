package sessions

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/angelmondragon/casecraft-backend/api/responses"
	"github.com/angelmondragon/casecraft-backend/internal/session"
	pkgerrors "github.com/angelmondragon/casecraft-backend/pkg/errors"
	"github.com/angelmondragon/casecraft-backend/pkg/logger"
)

const keepAliveInterval = 25 * time.Second

// Events streams emitted session views as server-sent events. The current
// view is sent first. A slow reader skips intermediate views but always
// receives the latest one.
func Events(reg Registry, logg *logger.Logger) http.HandlerFunc {
	return withEngine(reg, logg, func(w http.ResponseWriter, r *http.Request, engine *session.Engine) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		views := make(chan session.View, 1)
		unsubscribe := engine.Subscribe(func(v session.View) {
			offerLatest(views, v)
		})
		defer unsubscribe()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		if err := writeEvent(w, engine.View()); err != nil {
			return
		}
		flusher.Flush()

		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()
		for {
			select {
			case <-r.Context().Done():
				return
			case v := <-views:
				if err := writeEvent(w, v); err != nil {
					if logg != nil {
						logg.Warn(r.Context(), "session event stream closed")
					}
					return
				}
				flusher.Flush()
			case <-ticker.C:
				if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	})
}

func writeEvent(w http.ResponseWriter, view session.View) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: session\ndata: %s\n\n", payload)
	return err
}

// offerLatest replaces any undelivered view in the single slot with v.
func offerLatest(views chan session.View, v session.View) {
	for {
		select {
		case views <- v:
			return
		default:
		}
		select {
		case <-views:
		default:
		}
	}
}
