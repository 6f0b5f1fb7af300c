package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestAuthFlow_RegisterLoginProfileRefresh(t *testing.T) {
	app := setupApp(t)

	// Step 1: Register
	accessToken, refreshToken, userID := app.registerUser(t, "auth@test.com", "password123")
	if accessToken == "" || refreshToken == "" {
		t.Fatal("expected non-empty tokens from registration")
	}
	if userID == 0 {
		t.Fatal("expected non-zero user ID")
	}

	// Step 2: Login with same credentials
	loginAccess, loginRefresh := app.loginUser(t, "auth@test.com", "password123")
	if loginAccess == "" || loginRefresh == "" {
		t.Fatal("expected non-empty tokens from login")
	}

	// Step 3: Access profile with login access token
	rec := app.request("GET", "/api/v1/profile", "", loginAccess)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	if user["email"] != "auth@test.com" {
		t.Errorf("expected email auth@test.com, got %v", user["email"])
	}
	if user["role"] != "standard" {
		t.Errorf("expected standard role on self-registration, got %v", user["role"])
	}

	// Step 4: Refresh token
	body := fmt.Sprintf(`{"refresh_token":%q}`, loginRefresh)
	rec = app.request("POST", "/api/v1/auth/refresh", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh failed: %d %s", rec.Code, rec.Body.String())
	}
	refreshResult := parseJSON(t, rec)
	newAccess := refreshResult["access_token"].(string)
	if newAccess == "" {
		t.Fatal("expected non-empty new access token after refresh")
	}

	// Step 5: Access profile with new access token
	rec = app.request("GET", "/api/v1/profile", "", newAccess)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with new token, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthFlow_RegisterDuplicateEmail(t *testing.T) {
	app := setupApp(t)

	app.registerUser(t, "dup@test.com", "password123")

	// Try to register again with same email
	rec := app.request("POST", "/api/v1/auth/register",
		`{"email":"dup@test.com","password":"password123"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	errObj := result["error"].(map[string]interface{})
	if errObj["code"] != "DUPLICATE_EMAIL" {
		t.Errorf("expected DUPLICATE_EMAIL, got %v", errObj["code"])
	}
}

func TestAuthFlow_LoginWrongPassword(t *testing.T) {
	app := setupApp(t)

	app.registerUser(t, "wrong@test.com", "password123")

	rec := app.request("POST", "/api/v1/auth/login",
		`{"email":"wrong@test.com","password":"wrongpassword"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	errObj := result["error"].(map[string]interface{})
	if errObj["code"] != "INVALID_CREDENTIALS" {
		t.Errorf("expected INVALID_CREDENTIALS, got %v", errObj["code"])
	}
}

func TestAuthFlow_AccountLockout(t *testing.T) {
	app := setupApp(t)

	app.registerUser(t, "lockout@test.com", "password123")

	// Fail 5 times
	for i := 0; i < 5; i++ {
		rec := app.request("POST", "/api/v1/auth/login",
			`{"email":"lockout@test.com","password":"wrong"}`, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, rec.Code)
		}
	}

	// 6th attempt should get account locked (423)
	rec := app.request("POST", "/api/v1/auth/login",
		`{"email":"lockout@test.com","password":"wrong"}`, "")
	if rec.Code != http.StatusLocked {
		t.Fatalf("expected 423 (locked), got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	errObj := result["error"].(map[string]interface{})
	if errObj["code"] != "ACCOUNT_LOCKED" {
		t.Errorf("expected ACCOUNT_LOCKED, got %v", errObj["code"])
	}

	// Even with correct password, should still be locked
	rec = app.request("POST", "/api/v1/auth/login",
		`{"email":"lockout@test.com","password":"password123"}`, "")
	if rec.Code != http.StatusLocked {
		t.Fatalf("expected 423 even with correct password while locked, got %d", rec.Code)
	}
}

func TestAuthFlow_ProfileWithoutAuth(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/api/v1/profile", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthFlow_ProfileWithInvalidToken(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/api/v1/profile", "", "invalid-token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
