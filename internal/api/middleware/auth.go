package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
)

type contextKey string

const userIDKey contextKey = "userID"

const msgMissingUserID = "отсутствует или некорректен заголовок X-User-ID"

// Auth проверяет заголовок X-User-ID и кладет идентификатор пользователя
// в контекст запроса. Аутентификацию выполняет внешний шлюз,
// сервис доверяет заголовку
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-User-ID")
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID извлекает идентификатор пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
