package entity

import (
	"errors"
	"net"
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "valid https URL", url: "https://example.com/services", wantErr: false},
		{name: "valid http URL", url: "http://example.ie", wantErr: false},
		{name: "valid URL with port", url: "https://example.com:8080/x", wantErr: false},
		{name: "valid URL with query", url: "https://example.com/a?b=c", wantErr: false},
		{name: "empty URL", url: "", wantErr: true},
		{name: "invalid scheme - ftp", url: "ftp://example.com/file", wantErr: true},
		{name: "invalid scheme - javascript", url: "javascript:alert(1)", wantErr: true},
		{name: "missing host", url: "https://", wantErr: true},
		{name: "loopback literal", url: "http://127.0.0.1/admin", wantErr: true},
		{name: "localhost", url: "http://localhost:8080", wantErr: true},
		{name: "private literal", url: "http://192.168.1.10", wantErr: true},
		{name: "metadata endpoint", url: "http://169.254.169.254/latest", wantErr: true},
		{name: "too long", url: "https://example.com/" + strings.Repeat("a", maxURLLength), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL("websiteUrl", tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateURL(%q) err=%v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if err != nil {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("want *ValidationError, got %T", err)
				}
				if ve.Field != "websiteUrl" {
					t.Fatalf("field = %q, want websiteUrl", ve.Field)
				}
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"maria@example.com", false},
		{"joao.silva+cork@mail.ie", false},
		{"", true},
		{"not-an-email", true},
		{"Maria <maria@example.com>", true},
		{"maria@localhost", true},
		{strings.Repeat("a", 250) + "@x.io", true},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := ValidateEmail("email", tt.email)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateEmail(%q) err=%v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip        string
		isPrivate bool
	}{
		{"127.0.0.1", true},
		{"::1", true},
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"192.168.0.1", true},
		{"169.254.169.254", true},
		{"fe80::1", true},
		{"0.0.0.0", true},
		{"8.8.8.8", false},
		{"1.1.1.1", false},
		{"2001:4860:4860::8888", false},
	}
	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			if got := isPrivateIP(net.ParseIP(tt.ip)); got != tt.isPrivate {
				t.Errorf("isPrivateIP(%s) = %v, want %v", tt.ip, got, tt.isPrivate)
			}
		})
	}
}

func TestNews_Validate(t *testing.T) {
	valid := func() *News {
		return &News{Title: "Feira brasileira no sábado", Body: "Venha!", Category: "eventos"}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid news: %v", err)
	}

	tests := []struct {
		name  string
		mut   func(n *News)
		field string
	}{
		{"empty title", func(n *News) { n.Title = "  " }, "title"},
		{"short title", func(n *News) { n.Title = "ab" }, "title"},
		{"empty body", func(n *News) { n.Body = "" }, "body"},
		{"long summary", func(n *News) { n.Summary = strings.Repeat("s", 501) }, "summary"},
		{"long category", func(n *News) { n.Category = strings.Repeat("c", 65) }, "category"},
		{"bad image", func(n *News) { n.ImageURL = "ftp://x" }, "imageUrl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := valid()
			tt.mut(n)
			var ve *ValidationError
			if err := n.Validate(); !errors.As(err, &ve) || ve.Field != tt.field {
				t.Fatalf("Validate() = %v, want field %q", err, tt.field)
			}
		})
	}
}

func TestNews_Validate_CountsCharactersNotBytes(t *testing.T) {
	n := &News{
		Title:    "Festa junina",
		Body:     "Venha!",
		Summary:  strings.Repeat("🎉", MaxSummaryLength),
		Category: strings.Repeat("ç", 64),
	}
	if err := n.Validate(); err != nil {
		t.Fatalf("multi-byte summary within limit: %v", err)
	}

	n.Summary += "🎉"
	var ve *ValidationError
	if err := n.Validate(); !errors.As(err, &ve) || ve.Field != "summary" {
		t.Fatalf("Validate() = %v, want summary error", err)
	}
}

func TestAd_Validate(t *testing.T) {
	valid := func() *Ad {
		return &Ad{Title: "Faxina residencial", Description: "<p>Limpeza completa</p>", ContactPhone: "+353 87 123 4567"}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid ad: %v", err)
	}

	tests := []struct {
		name  string
		mut   func(a *Ad)
		field string
	}{
		{"no contact", func(a *Ad) { a.ContactPhone = "" }, "contact"},
		{"bad email", func(a *Ad) { a.ContactEmail = "nope" }, "contactEmail"},
		{"bad phone", func(a *Ad) { a.ContactPhone = "call me" }, "contactPhone"},
		{"bad website", func(a *Ad) { a.WebsiteURL = "http://10.0.0.1" }, "websiteUrl"},
		{"empty description", func(a *Ad) { a.Description = "" }, "description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid()
			tt.mut(a)
			var ve *ValidationError
			if err := a.Validate(); !errors.As(err, &ve) || ve.Field != tt.field {
				t.Fatalf("Validate() = %v, want field %q", err, tt.field)
			}
		})
	}
}

func TestUser_Validate(t *testing.T) {
	u := &User{Email: "ana@example.com", Nickname: "ana_cork", Role: RoleNormal}
	if err := u.Validate(); err != nil {
		t.Fatalf("valid user: %v", err)
	}

	u.Nickname = "a b"
	if err := u.Validate(); err == nil {
		t.Fatal("nickname with a space must be rejected")
	}

	u.Nickname = "joão"
	u.Role = "root"
	if err := u.Validate(); err == nil {
		t.Fatal("unknown role must be rejected")
	}
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"normal", "ADMIN", " advertiser "} {
		if _, err := ParseRole(s); err != nil {
			t.Errorf("ParseRole(%q): %v", s, err)
		}
	}
	if _, err := ParseRole("moderator"); err == nil {
		t.Error("ParseRole(moderator) must fail")
	}
}
