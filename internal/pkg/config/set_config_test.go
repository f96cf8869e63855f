package config

import (
	"testing"

	"github.com/google/go-api-fence/internal/pkg/denylist"
	"github.com/google/go-cmp/cmp"
)

func TestSetConfig(t *testing.T) {
	set := &Config{Rules: []denylist.Rule{{
		Class:   "com.acme.Danger",
		Kind:    denylist.Function,
		Member:  "go",
		Message: "no go",
	}}}
	SetConfig(set)
	read, err := ReadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(set, read); diff != "" {
		t.Errorf("set config differs from read config (-set, +read):\n%s", diff)
	}
}
