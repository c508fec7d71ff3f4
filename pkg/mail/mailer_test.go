package mail

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestNewSMTPMailerRequiresHostWhenEnabled(t *testing.T) {
	if _, err := NewSMTPMailer(SMTPSettings{Enabled: true, Port: 587}); err == nil {
		t.Fatal("expected error for missing host")
	}

	if _, err := NewSMTPMailer(SMTPSettings{Enabled: true, Host: "smtp.example.com"}); err == nil {
		t.Fatal("expected error for missing port")
	}
}

func TestSendWhenDisabled(t *testing.T) {
	mailer, err := NewSMTPMailer(SMTPSettings{Enabled: false})
	if err != nil {
		t.Fatalf("new mailer: %v", err)
	}

	err = mailer.Send(context.Background(), Message{
		To:      []string{"user@example.com"},
		Subject: "hello",
		Body:    "body",
	})
	if !errors.Is(err, ErrSMTPDisabled) {
		t.Fatalf("expected ErrSMTPDisabled, got %v", err)
	}
}

func TestUniqueAddresses(t *testing.T) {
	got := uniqueAddresses([]string{"a@example.com", " a@example.com ", "", "b@example.com"})

	if len(got) != 2 {
		t.Fatalf("expected 2 addresses, got %v", got)
	}
	if got[0] != "a@example.com" || got[1] != "b@example.com" {
		t.Fatalf("unexpected addresses: %v", got)
	}
}

func TestFormatMessage(t *testing.T) {
	raw := formatMessage("noreply@example.com", []string{"user@example.com"}, "Verify your email", "Your code is 123456")

	headerEnd := strings.Index(raw, "\r\n\r\n")
	if headerEnd == -1 {
		t.Fatal("expected blank line between headers and body")
	}

	headers := raw[:headerEnd]
	if !strings.Contains(headers, "From: noreply@example.com") {
		t.Fatalf("missing From header: %q", headers)
	}
	if !strings.Contains(headers, "To: user@example.com") {
		t.Fatalf("missing To header: %q", headers)
	}
	if !strings.Contains(headers, "Subject: Verify your email") {
		t.Fatalf("missing Subject header: %q", headers)
	}
	if !strings.HasSuffix(raw, "Your code is 123456") {
		t.Fatalf("expected body at end of message: %q", raw)
	}
}

func TestEscapeHeaderStripsNewlines(t *testing.T) {
	got := escapeHeader("Hello\r\nBcc: attacker@example.com")
	if strings.ContainsAny(got, "\r\n") {
		t.Fatalf("expected newlines to be stripped, got %q", got)
	}
}
