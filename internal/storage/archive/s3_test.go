package archive

import (
	"strings"
	"testing"
)

func TestS3Storage_ImplementsStorage(t *testing.T) {
	var _ Storage = (*S3Storage)(nil)
}

func TestS3Storage_WithPrefix(t *testing.T) {
	tests := []struct {
		prefix string
		key    string
		want   string
	}{
		{"", "backtests/u1/s1/r1.json", "backtests/u1/s1/r1.json"},
		{"quant", "backtests/u1/s1/r1.json", "quant/backtests/u1/s1/r1.json"},
		{"quant/", "backtests/u1/s1/r1.json", "quant/backtests/u1/s1/r1.json"},
	}

	for _, tt := range tests {
		s := &S3Storage{prefix: strings.TrimSuffix(tt.prefix, "/")}
		if got := s.withPrefix(tt.key); got != tt.want {
			t.Errorf("withPrefix(%q) with prefix %q = %q, want %q", tt.key, tt.prefix, got, tt.want)
		}
	}
}

func TestNewS3_KeepsPrefixClean(t *testing.T) {
	s, err := NewS3(S3Config{Bucket: "reports", Region: "us-east-1", Prefix: "quant/"})
	if err != nil {
		t.Fatalf("NewS3: %v", err)
	}
	if s.prefix != "quant" {
		t.Errorf("prefix = %q, want trailing slash trimmed", s.prefix)
	}
	if s.bucket != "reports" {
		t.Errorf("bucket = %q, want reports", s.bucket)
	}
}
