package domain

import "testing"

func TestNormalizeRole(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"admin", RoleAdmin},
		{"ADMIN", RoleAdmin},
		{"Administrador", RoleAdmin},
		{"empleado", RoleEmployee},
		{"Employee", RoleEmployee},
		{"cliente", RoleClient},
		{"CLIENTE", RoleClient},
		{" cliente ", RoleClient},
		{"", RoleClient},
		{"something-else", RoleClient},
	}

	for _, tc := range cases {
		if got := NormalizeRole(tc.in); got != tc.want {
			t.Fatalf("NormalizeRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewUserProfile_DisplayNameDefault(t *testing.T) {
	p := NewUserProfile("cliente@ayma.com", "cliente", "")
	if p.DisplayName != "cliente" {
		t.Fatalf("expected display name from email local part, got %q", p.DisplayName)
	}
	if p.Role != RoleClient {
		t.Fatalf("expected normalized role %q, got %q", RoleClient, p.Role)
	}
}

func TestNewUserProfile_DisplayNameProvided(t *testing.T) {
	p := NewUserProfile("ana@ayma.com", "ADMIN", "Ana García")
	if p.DisplayName != "Ana García" {
		t.Fatalf("unexpected display name: %q", p.DisplayName)
	}
	if p.Role != RoleAdmin {
		t.Fatalf("unexpected role: %q", p.Role)
	}
}

func TestSession_IsZero(t *testing.T) {
	if !(Session{}).IsZero() {
		t.Fatal("empty session should be zero")
	}
	if !(Session{Token: "t"}).IsZero() {
		t.Fatal("token without user is a partial session, must read as zero")
	}
	u := UserProfile{Email: "a@b.com", Role: RoleClient}
	if (Session{ID: "s", Token: "t", User: &u}).IsZero() {
		t.Fatal("complete session should not be zero")
	}
}
