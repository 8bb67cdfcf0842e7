package sqlutil

import "testing"

func TestNullRawMessage(t *testing.T) {
	if got := ToNullRawMessage(nil); got.Valid {
		t.Error("empty JSON should be NULL")
	}
	if got := FromNullRawMessage(ToNullRawMessage(nil)); got != nil {
		t.Errorf("FromNullRawMessage(NULL) = %s, want nil", got)
	}

	msg, err := MarshalNullRawMessage(map[string]int{"id": 21})
	if err != nil {
		t.Fatalf("MarshalNullRawMessage: %v", err)
	}
	if !msg.Valid || string(FromNullRawMessage(msg)) != `{"id":21}` {
		t.Errorf("round trip = %s valid=%v", msg.RawMessage, msg.Valid)
	}
}
