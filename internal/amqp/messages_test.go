package amqp

import "testing"

func TestTransactionSyncMessageRoundTrip(t *testing.T) {
	msg := NewTransactionSyncMessage(42)
	if msg.ID != 42 || msg.Timestamp.IsZero() {
		t.Fatalf("unexpected message %+v", msg)
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := TransactionSyncMessageFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.ID != msg.ID || !decoded.Timestamp.Equal(msg.Timestamp) {
		t.Fatalf("round trip mismatch: %+v vs %+v", decoded, msg)
	}
}

func TestTransactionSyncMessageFromJSONInvalid(t *testing.T) {
	if _, err := TransactionSyncMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
