package validator

import (
	"errors"
	"testing"
)

type lineStub struct {
	Quantity int64 `validate:"max=10"`
}

type requestStub struct {
	Lines []lineStub `validate:"required,min=1,dive"`
}

func TestHasFieldError(t *testing.T) {
	v := New()

	err := v.Struct(requestStub{Lines: []lineStub{{Quantity: 1}, {Quantity: 11}}})
	if !HasFieldError(err, "Quantity") {
		t.Fatalf("expected Quantity failure, got %v", err)
	}
	if HasFieldError(err, "Lines") {
		t.Fatal("Lines itself is valid")
	}

	err = v.Struct(requestStub{})
	if !HasFieldError(err, "Lines") || HasFieldError(err, "Quantity") {
		t.Fatalf("expected only Lines failure, got %v", err)
	}

	if HasFieldError(errors.New("plain"), "Quantity") {
		t.Fatal("plain errors carry no fields")
	}
}
