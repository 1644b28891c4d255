package verify

import "testing"

func TestIsCleanEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"contact@example.com", true},
		{"sales@shop.co.uk", true},
		{"someone@gmail.com", true},
		// gmail passes even with an otherwise suspect domain
		{"x@gmail", true},
		// digits-only domains are version/package strings, not addresses
		{"1.2.3@4.5.6", false},
		{"foo@1.2.3", false},
		// a single letter in the domain is enough
		{"foo@1.2a.3", true},
		// malformed tokens are rejected, not fatal
		{"not-an-email", false},
		{"", false},
		{"trailing@", false},
		// split happens at the last @
		{"weird@@example.com", true},
		{"a@b@1.2.3", false},
	}

	for _, tc := range cases {
		if got := IsCleanEmail(tc.email); got != tc.want {
			t.Errorf("IsCleanEmail(%q) = %v, want %v", tc.email, got, tc.want)
		}
	}
}

func TestCleanEmails_PreservesOrder(t *testing.T) {
	in := []string{"a@example.com", "1.2@3.4", "b@example.com"}
	out := CleanEmails(in)

	if len(out) != 2 || out[0] != "a@example.com" || out[1] != "b@example.com" {
		t.Errorf("unexpected cleaned list: %v", out)
	}
}

func TestEmailDomain(t *testing.T) {
	if d := EmailDomain("user@example.com"); d != "example.com" {
		t.Errorf("expected example.com, got %s", d)
	}
	if d := EmailDomain("a@b@c.com"); d != "c.com" {
		t.Errorf("expected c.com, got %s", d)
	}
	if d := EmailDomain("no-at"); d != "" {
		t.Errorf("expected empty domain, got %s", d)
	}
}
