// internal/align/align_test.go
package align

import (
	"context"
	"errors"
	"testing"

	"alignio-core/pipe"
	"alignio-core/seq"
)

func TestPrealignedCopiesInput(t *testing.T) {
	rec := &seq.Sequence{Name: "a"}
	rec.SetDesc("kept")
	rec.Attrs.Set("note", seq.StringValue("hello"))
	if err := rec.Append([]byte("ACGU")); err != nil {
		t.Fatalf("append: %v", err)
	}

	tr := &pipe.Tray{Input: rec}
	if err := (Prealigned{}).Align(context.Background(), tr); err != nil {
		t.Fatalf("align: %v", err)
	}
	if tr.Aligned == nil || tr.Aligned == tr.Input {
		t.Fatalf("aligned slot must hold a fresh copy")
	}
	if tr.Aligned.Name != "a" || tr.Aligned.Desc() != "kept" || string(tr.Aligned.Bases()) != "ACGU" {
		t.Fatalf("copy lost fields: %+v", tr.Aligned)
	}

	// Mutating the copy must not leak into the raw input.
	tr.Aligned.Attrs.Set("note", seq.StringValue("changed"))
	if v, _ := tr.Input.Attrs.Get("note"); v.String() != "hello" {
		t.Fatalf("input attribute changed to %q", v.String())
	}
}

func TestPrealignedBrokenTray(t *testing.T) {
	if err := (Prealigned{}).Align(context.Background(), &pipe.Tray{}); !errors.Is(err, pipe.ErrBrokenTray) {
		t.Fatalf("want ErrBrokenTray, got %v", err)
	}
	if err := (Prealigned{}).Align(context.Background(), nil); !errors.Is(err, pipe.ErrBrokenTray) {
		t.Fatalf("want ErrBrokenTray for nil tray, got %v", err)
	}
}
