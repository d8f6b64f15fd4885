package factory

import (
	"errors"
	"testing"
)

type widget struct {
	Size int `json:"size"`
}

func TestRegistryBuild(t *testing.T) {
	r := NewRegistry[*widget]()
	err := r.Register("widget", func(conf map[string]any) (*widget, error) {
		var w widget
		if err := Decode(conf, &w); err != nil {
			return nil, err
		}
		return &w, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	w, err := r.Build(Spec{Type: "widget", Conf: map[string]any{"size": 3}})
	if err != nil {
		t.Fatal(err)
	}
	if w.Size != 3 {
		t.Fatalf("decode failed, got %+v", w)
	}
}

func TestRegistryRejectsDuplicatesAndUnknown(t *testing.T) {
	r := NewRegistry[int]()
	ok := func(map[string]any) (int, error) { return 1, nil }
	if err := r.Register("a", ok); err != nil {
		t.Fatal(err)
	}
	if err := r.Register("a", ok); err == nil {
		t.Fatal("duplicate registration must fail")
	}
	if err := r.Register("nil", nil); err == nil {
		t.Fatal("nil builder must fail")
	}
	if _, err := r.Build(Spec{Type: "missing"}); err == nil {
		t.Fatal("unknown type must fail")
	}
}

func TestBuilderErrorPropagates(t *testing.T) {
	r := NewRegistry[int]()
	boom := errors.New("boom")
	_ = r.Register("bad", func(map[string]any) (int, error) { return 0, boom })
	if _, err := r.Build(Spec{Type: "bad"}); !errors.Is(err, boom) {
		t.Fatalf("expected builder error, got %v", err)
	}
}
