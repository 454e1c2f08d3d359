package middleware

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/pffl/leaguehub/internal/chat"
)

type ContextKey string

const ChatSessionKey ContextKey = "chatSession"

// LoadChatSession resolves the caller's conversational session from the HTTP
// session and puts it on the request context, creating one on first contact.
// The registry owns the live sessions; the HTTP session only carries the
// handle.
func LoadChatSession(sessionManager *scs.SessionManager, registry *chat.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sess *chat.Session

			if idStr := sessionManager.GetString(r.Context(), "chatSessionID"); idStr != "" {
				if id, err := uuid.Parse(idStr); err == nil {
					sess, _ = registry.Get(id)
				}
			}

			if sess == nil {
				sess = registry.Create()
				sessionManager.Put(r.Context(), "chatSessionID", sess.ID.String())
			}

			ctx := context.WithValue(r.Context(), ChatSessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetChatSession(ctx context.Context) *chat.Session {
	val := ctx.Value(ChatSessionKey)
	if val == nil {
		return nil
	}
	sess, ok := val.(*chat.Session)
	if !ok {
		return nil
	}
	return sess
}
