package errors

import (
	stderrs "errors"
	"net/http"
	"testing"
)

func TestCodeOfAndWrap(t *testing.T) {
	t.Parallel()

	base := stderrs.New("boom")
	err := Wrap(base, ErrorCodeDB, "query failed")

	if !IsCode(err, ErrorCodeDB) {
		t.Fatalf("code = %v, want DB", CodeOf(err))
	}
	if Root(err) != base {
		t.Fatalf("Root = %v, want base", Root(err))
	}
	if got := err.Error(); got != "query failed: boom" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestCodeOfForeignError(t *testing.T) {
	t.Parallel()

	if got := CodeOf(stderrs.New("plain")); got != ErrorCodeUnknown {
		t.Fatalf("code = %v, want unknown", got)
	}
	if got := CodeOf(nil); got != ErrorCodeUnknown {
		t.Fatalf("code of nil = %v, want unknown", got)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want int
	}{
		{NotFoundf("missing"), http.StatusNotFound},
		{InvalidArgf("bad"), http.StatusUnprocessableEntity},
		{Validationf("invalid"), http.StatusBadRequest},
		{DBf("down"), http.StatusInternalServerError},
		{Internalf("shrug"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestWithFieldCopyOnWrite(t *testing.T) {
	t.Parallel()

	orig := Validationf("too short")
	withField := WithField(orig, "event")

	oe, _ := As(orig)
	fe, _ := As(withField)
	if oe.Field() != "" {
		t.Fatalf("original mutated, field = %q", oe.Field())
	}
	if fe.Field() != "event" {
		t.Fatalf("field = %q, want event", fe.Field())
	}
}

func TestWireFrom(t *testing.T) {
	t.Parallel()

	w := WireFrom(WithField(Validationf("invalid"), "text"))
	if w.Code != ErrorCodeValidation || w.Field != "text" {
		t.Fatalf("wire = %+v", w)
	}

	w = WireFrom(nil)
	if w.Code != ErrorCodeUnknown || w.Message != "" {
		t.Fatalf("nil wire = %+v", w)
	}
}

func TestWrapIf(t *testing.T) {
	t.Parallel()

	if WrapIf(nil, ErrorCodeDB, "x") != nil {
		t.Fatal("WrapIf(nil) != nil")
	}
	if err := WrapIf(stderrs.New("y"), ErrorCodeDB, "x"); !IsCode(err, ErrorCodeDB) {
		t.Fatalf("WrapIf code = %v", CodeOf(err))
	}
}
