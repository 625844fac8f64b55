package jsonutil

import (
	"bytes"
	"testing"
)

func TestWriteIndented(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteIndented(&buf, map[string]int{"records": 3}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := "{\n  \"records\": 3\n}\n"
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}
}

func TestWriteIndentedFailureWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteIndented(&buf, func() {}); err == nil {
		t.Fatal("expected error for unmarshalable value")
	}
	if buf.Len() != 0 {
		t.Fatalf("failed encode must not write: %q", buf.String())
	}
}
