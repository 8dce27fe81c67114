// internal/secret/ref_test.go
//
// Unit-tests for the tagged wire form.

package secret

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRefUnmarshalLiteral(t *testing.T) {
	var r Ref
	if err := json.Unmarshal([]byte(`{"type":"literal","value":"sk-1"}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.Kind != KindLiteral || r.Value != "sk-1" {
		t.Fatalf("got %+v", r)
	}
}

func TestRefUnmarshalEnvironment(t *testing.T) {
	var r Ref
	if err := json.Unmarshal([]byte(`{"type":"environment","variable_name":"OPENAI_API_KEY"}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.Kind != KindEnvironment || r.VariableName != "OPENAI_API_KEY" {
		t.Fatalf("got %+v", r)
	}
}

func TestRefUnmarshalKubernetesAsBackend(t *testing.T) {
	// The kubernetes form parses today and fails only at resolve time.
	var r Ref
	raw := `{"type":"kubernetes","secret_name":"gw","key":"api_key","namespace":"prod"}`
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.Kind != KindBackend || r.Backend != "kubernetes" {
		t.Fatalf("got %+v", r)
	}
	want := map[string]string{"secret_name": "gw", "key": "api_key", "namespace": "prod"}
	for k, v := range want {
		if r.Params[k] != v {
			t.Fatalf("param %s = %q, want %q", k, r.Params[k], v)
		}
	}
}

func TestRefUnmarshalMissingTag(t *testing.T) {
	var r Ref
	if err := json.Unmarshal([]byte(`{"value":"x"}`), &r); err == nil {
		t.Fatal("expected error for missing type tag")
	}
}

func TestRefStringNeverLeaksLiteral(t *testing.T) {
	s := Literal("sk-very-secret").String()
	if strings.Contains(s, "sk-very-secret") {
		t.Fatalf("String leaked the literal value: %q", s)
	}
}
