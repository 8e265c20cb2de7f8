package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/RoyceAzure/lab/shoeshop/internal/constants"
	"github.com/gorilla/sessions"
)

// SessionManager 包一層 gorilla session store
// 身分只在這裡解析，往下全部用明確的 userID 參數傳遞
type SessionManager struct {
	store sessions.Store
}

func NewSessionManager(sessionKey string) *SessionManager {
	return &SessionManager{
		store: sessions.NewCookieStore([]byte(sessionKey)),
	}
}

// SignIn 寫入登入 session
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, userID int, isAdmin bool) error {
	session, _ := m.store.Get(r, constants.SessionName)
	session.Values["user_id"] = userID
	session.Values["is_admin"] = isAdmin
	session.Options.HttpOnly = true
	session.Options.MaxAge = 60 * 60 * 24 // 1 day
	return session.Save(r, w)
}

// SignOut 清除 session
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, constants.SessionName)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

func (m *SessionManager) resolve(r *http.Request) (userID int, isAdmin bool, ok bool) {
	session, err := m.store.Get(r, constants.SessionName)
	if err != nil {
		return 0, false, false
	}
	userID, ok = session.Values["user_id"].(int)
	if !ok {
		return 0, false, false
	}
	isAdmin, _ = session.Values["is_admin"].(bool)
	return userID, isAdmin, true
}

// RequireAuth 必須登入，解析成功把 user id 放進 context
func (m *SessionManager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, isAdmin, ok := m.resolve(r)
		if !ok {
			writeUnauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), constants.UserIDKey, userID)
		ctx = context.WithValue(ctx, constants.IsAdminKey, isAdmin)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin 必須是管理員
func (m *SessionManager) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		isAdmin, _ := r.Context().Value(constants.IsAdminKey).(bool)
		if !isAdmin {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "admin only"})
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "login required"})
}
