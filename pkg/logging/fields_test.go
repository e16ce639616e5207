package logging

import (
	"errors"
	"log/slog"
	"testing"
)

func TestWithTraceID(t *testing.T) {
	attr := WithTraceID("trace-12345")
	if attr.Key != FieldTraceID {
		t.Errorf("Key = %q, want %q", attr.Key, FieldTraceID)
	}
	if attr.Value.String() != "trace-12345" {
		t.Errorf("Value = %q, want %q", attr.Value.String(), "trace-12345")
	}
}

func TestWithEventID(t *testing.T) {
	attr := WithEventID("API_REQ_OK")
	if attr.Key != FieldEventID {
		t.Errorf("Key = %q, want %q", attr.Key, FieldEventID)
	}
	if attr.Value.String() != "API_REQ_OK" {
		t.Errorf("Value = %q, want %q", attr.Value.String(), "API_REQ_OK")
	}
}

func TestWithError(t *testing.T) {
	t.Run("With error", func(t *testing.T) {
		attr := WithError(errors.New("connection failed"))
		if attr.Value.String() != "connection failed" {
			t.Errorf("Value = %q, want %q", attr.Value.String(), "connection failed")
		}
	})

	t.Run("With nil error", func(t *testing.T) {
		attr := WithError(nil)
		if attr.Value.String() != "" {
			t.Errorf("Value = %q, want empty string", attr.Value.String())
		}
	})
}

func TestWithLatencyAndStatus(t *testing.T) {
	if got := WithLatency(150).Value.Int64(); got != 150 {
		t.Errorf("WithLatency = %d, want 150", got)
	}
	if got := WithHTTPStatus(404).Value.Int64(); got != 404 {
		t.Errorf("WithHTTPStatus = %d, want 404", got)
	}
}

func TestWithRequest(t *testing.T) {
	fields := WithRequest("GET", "/v1/alunos")
	if len(fields) != 2 {
		t.Fatalf("len = %d, want 2", len(fields))
	}
	method := fields[0].(slog.Attr)
	path := fields[1].(slog.Attr)
	if method.Key != FieldMethod || method.Value.String() != "GET" {
		t.Errorf("method = %v", method)
	}
	if path.Key != FieldPath || path.Value.String() != "/v1/alunos" {
		t.Errorf("path = %v", path)
	}
}

func TestCommonFields(t *testing.T) {
	cf := NewCommonFields(NewMasker(true))
	attr := cf.WithEmail("maria@escola.br")
	if attr.Key != FieldEmail {
		t.Errorf("Key = %q, want %q", attr.Key, FieldEmail)
	}
	if attr.Value.String() != "ma***@escola.br" {
		t.Errorf("Value = %q", attr.Value.String())
	}

	fields := cf.SessionLogFields("SESSION_SAVE", "maria@escola.br")
	if len(fields) != 2 {
		t.Errorf("len = %d, want 2", len(fields))
	}

	// nil masker はマスキング無効
	plain := NewCommonFields(nil)
	if got := plain.WithEmail("maria@escola.br").Value.String(); got != "maria@escola.br" {
		t.Errorf("Value = %q", got)
	}
}
