package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dkomarev/afisha/internal/domain"
	"github.com/dkomarev/afisha/internal/transport/http/middleware"
	"github.com/dkomarev/afisha/internal/transport/http/response"
)

func intParam(q string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(q))
	if err != nil {
		return def
	}
	return v
}

func csvParam(q string) []string {
	if strings.TrimSpace(q) == "" {
		return nil
	}
	parts := strings.Split(q, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func timeParam(q, name string) (*time.Time, error) {
	if strings.TrimSpace(q) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, q)
	if err != nil {
		return nil, domain.ErrValidationMeta("invalid query param", map[string]string{
			name: "must be RFC3339 timestamp",
		})
	}
	tt := t.UTC()
	return &tt, nil
}

func boolParam(q string) *bool {
	switch strings.ToLower(strings.TrimSpace(q)) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

// sameUser guards the /users/{user_id}/... surface: the path subject must be
// the authenticated caller. Writes the error response itself.
func sameUser(w http.ResponseWriter, r *http.Request, pathUserID string) bool {
	if middleware.UserID(r) != pathUserID {
		response.Err(w, r, domain.ErrForbidden("token subject does not match user id"))
		return false
	}
	return true
}
