package integration

import (
	"testing"
)

// TestHealthEndpoints verifies the liveness and readiness endpoints respond.
func TestHealthEndpoints(t *testing.T) {
	skipIfNotRunning(t)
	client := newSessionClient(t)

	status, _ := httpGet(t, client, "/health/live")
	requireStatus(t, status, 200)

	status, _ = httpGet(t, client, "/health/ready")
	requireStatus(t, status, 200)
}

// TestRegistrationAndSession verifies that registering opens a session the
// cookie jar can replay against /auth/me.
func TestRegistrationAndSession(t *testing.T) {
	skipIfNotRunning(t)
	client := newSessionClient(t)

	email := uniqueEmail("register")
	status, data := httpPost(t, client, "/api/v1/auth/register", map[string]interface{}{
		"email":    email,
		"password": "TestPass123!",
		"name":     "Integration Test",
		"phone":    "9876543210",
	})
	requireStatus(t, status, 201)

	if extractField(data, "data.id") == nil {
		t.Fatal("expected data.id in registration response, got nil")
	}

	status, data = httpGet(t, client, "/api/v1/auth/me")
	requireStatus(t, status, 200)
	if got := extractField(data, "data.email"); got != email {
		t.Fatalf("expected /auth/me to return %s, got %v", email, got)
	}
}

// TestLoginReplacesSession verifies a second login invalidates the first
// session: one active session per account.
func TestLoginReplacesSession(t *testing.T) {
	skipIfNotRunning(t)

	first := newSessionClient(t)
	email := uniqueEmail("relogin")
	status, _ := httpPost(t, first, "/api/v1/auth/register", map[string]interface{}{
		"email":    email,
		"password": "TestPass123!",
		"name":     "Relogin Test",
	})
	requireStatus(t, status, 201)

	second := newSessionClient(t)
	status, _ = httpPost(t, second, "/api/v1/auth/login", map[string]interface{}{
		"email":    email,
		"password": "TestPass123!",
	})
	requireStatus(t, status, 200)

	// The first client's cookie should now be dead.
	status, _ = httpGet(t, first, "/api/v1/auth/me")
	requireStatus(t, status, 401)

	status, _ = httpGet(t, second, "/api/v1/auth/me")
	requireStatus(t, status, 200)
}

// TestCatalogBrowsing verifies the public product listing responds with the
// paginated envelope.
func TestCatalogBrowsing(t *testing.T) {
	skipIfNotRunning(t)
	client := newSessionClient(t)

	status, data := httpGet(t, client, "/api/v1/products?per_page=5")
	requireStatus(t, status, 200)

	if extractField(data, "total_count") == nil {
		t.Fatal("expected total_count in product listing response")
	}
}

// TestCartRequiresSession verifies cart routes reject anonymous requests.
func TestCartRequiresSession(t *testing.T) {
	skipIfNotRunning(t)
	client := newSessionClient(t)

	status, _ := httpGet(t, client, "/api/v1/cart")
	requireStatus(t, status, 401)
}

// TestContactForm verifies the public contact form accepts a submission.
func TestContactForm(t *testing.T) {
	skipIfNotRunning(t)
	client := newSessionClient(t)

	status, data := httpPost(t, client, "/api/v1/contact", map[string]interface{}{
		"name":    "Integration Test",
		"email":   uniqueEmail("contact"),
		"message": "Do you ship to Jaipur?",
	})
	requireStatus(t, status, 201)

	if extractField(data, "data.id") == nil {
		t.Fatal("expected data.id in contact response")
	}
}

// TestAdminRoutesLockedDown verifies the admin surface is not reachable
// without an admin session.
func TestAdminRoutesLockedDown(t *testing.T) {
	skipIfNotRunning(t)
	client := newSessionClient(t)

	status, _ := httpGet(t, client, "/api/v1/admin/orders")
	requireStatus(t, status, 401)

	email := uniqueEmail("customer")
	status, _ = httpPost(t, client, "/api/v1/auth/register", map[string]interface{}{
		"email":    email,
		"password": "TestPass123!",
		"name":     "Plain Customer",
	})
	requireStatus(t, status, 201)

	status, _ = httpGet(t, client, "/api/v1/admin/orders")
	requireStatus(t, status, 403)
}
