package middleware

import (
	"context"
	"net/http"
)

type ctxKey string

const employerKey ctxKey = "employer_id"

// Identity reads the employer id the upstream auth proxy places in
// X-User-ID. Requests without it are rejected before any handler runs,
// except the webhook and health surfaces which are mounted outside this
// middleware.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		employerID := r.Header.Get("X-User-ID")
		if employerID == "" {
			http.Error(w, "missing X-User-ID header", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), employerKey, employerID)))
	})
}

func GetEmployerID(ctx context.Context) (string, bool) {
	employerID, ok := ctx.Value(employerKey).(string)
	return employerID, ok
}
