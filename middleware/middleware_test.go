package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskflow/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func protected(t *testing.T, captured *primitive.ObjectID) http.Handler {
	t.Helper()
	return JWTAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		if !ok {
			t.Fatal("user id missing from request context")
		}
		*captured = id
		w.WriteHeader(http.StatusOK)
	}))
}

func TestMissingAuthorizationHeader(t *testing.T) {
	var captured primitive.ObjectID
	rr := httptest.NewRecorder()
	protected(t, &captured).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}

	var resp utils.Response
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Success {
		t.Fatal("expected success=false")
	}
	if resp.Message != "Authorization header missing" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestInvalidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	var captured primitive.ObjectID
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rr := httptest.NewRecorder()
	protected(t, &captured).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestValidTokenInjectsUserID(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userID := primitive.NewObjectID()
	token, err := utils.GenerateToken(userID.Hex())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var captured primitive.ObjectID
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	protected(t, &captured).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if captured != userID {
		t.Fatalf("context carried %s, wanted %s", captured.Hex(), userID.Hex())
	}
}
