package objectkey

import "testing"

func TestDecode(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"uploads/abc123/photo.jpg", "uploads/abc123/photo.jpg"},
		{"people/alice/my+photo.jpg", "people/alice/my photo.jpg"},
		{"people/alice/caf%C3%A9.jpg", "people/alice/café.jpg"},
		{"a%2Fb/c.png", "a/b/c.png"},
	}
	for _, tc := range tests {
		got, err := Decode(tc.raw)
		if err != nil {
			t.Fatalf("Decode(%q) failed: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Errorf("Decode(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestDecode_InvalidEncoding(t *testing.T) {
	if _, err := Decode("bad%zzkey"); err == nil {
		t.Error("expected error for invalid percent-encoding")
	}
}

func TestExternalID(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"people/alice/img1.jpg", "img1.jpg"},
		{"photo.jpg", "photo.jpg"},
		{"a/b/c/d.png", "d.png"},
	}
	for _, tc := range tests {
		if got := ExternalID(tc.key); got != tc.want {
			t.Errorf("ExternalID(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestCorrelationID(t *testing.T) {
	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{"uploads/abc123/photo.jpg", "abc123", true},
		{"uploads/photo.jpg", "", false},
		{"photo.jpg", "", false},
		{"uploads//photo.jpg", "", false},
		{"a/b/c/d.jpg", "b", true},
	}
	for _, tc := range tests {
		got, ok := CorrelationID(tc.key)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("CorrelationID(%q) = (%q, %v), want (%q, %v)",
				tc.key, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestSlug(t *testing.T) {
	slug, ok := Slug("people/alice/img1.jpg")
	if !ok || slug != "alice" {
		t.Errorf("Slug = (%q, %v), want (alice, true)", slug, ok)
	}
}
