package storage

import "testing"

func TestValidateContentType(t *testing.T) {
	cases := []struct {
		contentType string
		ok          bool
	}{
		{"image/png", true},
		{"IMAGE/PNG; charset=binary", true},
		{ContentTypeXLSX, true},
		{"application/pdf", false},
		{"", false},
	}
	for _, tc := range cases {
		err := validateContentType(tc.contentType)
		if (err == nil) != tc.ok {
			t.Fatalf("%q: expected ok=%v, got %v", tc.contentType, tc.ok, err)
		}
	}
}

func TestValidateFileSize(t *testing.T) {
	if err := validateFileSize(0, 100); err == nil {
		t.Fatal("expected error for empty file")
	}
	if err := validateFileSize(101, 100); err == nil {
		t.Fatal("expected error above limit")
	}
	if err := validateFileSize(100, 100); err != nil {
		t.Fatalf("unexpected error at limit: %v", err)
	}
	if err := validateFileSize(1<<30, 0); err != nil {
		t.Fatalf("zero limit means unlimited: %v", err)
	}
}
