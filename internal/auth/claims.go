package auth

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ClaimKeys lists the claims that may carry the user ID, in lookup order.
var ClaimKeys = []string{"sub", "id", "userId", "user_id", "uid", "ID", "Id"}

// UserIDFromToken extracts the numeric user ID from a token's payload without
// verifying the signature. The first claim of ClaimKeys holding a set value
// decides; null, false, zero and blank strings count as unset. If the deciding
// value is not an integer the token carries no identity.
func UserIDFromToken(token string) (int64, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, false
	}

	for _, key := range ClaimKeys {
		v, ok := claims[key]
		if !ok || unset(v) {
			continue
		}
		return coerceID(v)
	}
	return 0, false
}

func unset(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case float64:
		return x == 0 || math.IsNaN(x)
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 0
	case string:
		return strings.TrimSpace(x) == ""
	default:
		return false
	}
}

func coerceID(v any) (int64, bool) {
	switch id := v.(type) {
	case float64:
		if id != math.Trunc(id) || math.Abs(id) > math.MaxInt64 {
			return 0, false
		}
		return int64(id), true
	case json.Number:
		n, err := id.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
