package docs

import (
	"reflect"
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	t.Parallel()
	want := []string{"connection", "layout", "schema", "types"}
	if got := Topics(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Topics() = %v, want %v", got, want)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()
	body, ok := Get(" Schema ")
	if !ok || !strings.HasPrefix(body, "# Database schema") {
		t.Fatalf("unexpected schema doc: %v %q", ok, body)
	}
	for _, bad := range []string{"", "nope", "../docs"} {
		if _, ok := Get(bad); ok {
			t.Fatalf("Get(%q) should fail", bad)
		}
	}
}
