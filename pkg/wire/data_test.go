package wire

import (
	"encoding/json"
	"testing"
)

func TestDataInsertionOrder(t *testing.T) {
	d := NewData().
		Set("z", 1).
		Set("a", 2).
		Set("m", 3)

	got, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"z":1,"a":2,"m":3}`
	if string(got) != want {
		t.Errorf("marshaled %s, want %s", got, want)
	}
}

func TestDataSetUpdatesInPlace(t *testing.T) {
	d := NewData().
		Set("angle", 90).
		Set("speed", 100).
		Set("angle", 45)

	if d.Len() != 2 {
		t.Fatalf("Len = %d, want 2", d.Len())
	}

	got, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"angle":45,"speed":100}`
	if string(got) != want {
		t.Errorf("marshaled %s, want %s", got, want)
	}
}

func TestDataNested(t *testing.T) {
	d := NewData().
		Set("left_eye", NewData().Set("x", 10).Set("y", 20)).
		Set("right_eye", NewData().Set("x", 30).Set("y", 40))

	got, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"left_eye":{"x":10,"y":20},"right_eye":{"x":30,"y":40}}`
	if string(got) != want {
		t.Errorf("marshaled %s, want %s", got, want)
	}
}

func TestDataEmpty(t *testing.T) {
	got, err := json.Marshal(NewData())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(got) != "{}" {
		t.Errorf("marshaled %s, want {}", got)
	}
}
