package wire

import (
	"bytes"
	"testing"
)

// TestFramerWholeMessage verifies that a single complete message fed in one
// call is framed immediately.
func TestFramerWholeMessage(t *testing.T) {
	raw := Query("SELECT 1")
	f := NewFramer()
	f.Feed(raw)

	msg, ok, err := f.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if !ok {
		t.Fatalf("Next() ok = false, want true")
	}
	if msg.Tag != TagQuery {
		t.Errorf("Tag = %q, want %q", msg.Tag, TagQuery)
	}
	if !bytes.Equal(msg.Payload, raw[5:]) {
		t.Errorf("Payload = %v, want %v", msg.Payload, raw[5:])
	}
	if _, ok, _ := f.Next(); ok {
		t.Errorf("Next() after one message ok = true, want false (buffer drained)")
	}
}

// TestFramerChunked verifies that for any chunking of a well-formed
// message's bytes, exactly one message is eventually emitted, identical to
// supplying all bytes at once.
func TestFramerChunked(t *testing.T) {
	raw := Query("SELECT * FROM widgets WHERE id = 42")

	for chunkSize := 1; chunkSize <= len(raw); chunkSize++ {
		f := NewFramer()
		var got []Message
		for i := 0; i < len(raw); i += chunkSize {
			end := i + chunkSize
			if end > len(raw) {
				end = len(raw)
			}
			f.Feed(raw[i:end])
			for {
				msg, ok, err := f.Next()
				if err != nil {
					t.Fatalf("chunkSize=%d: Next() error = %v", chunkSize, err)
				}
				if !ok {
					break
				}
				got = append(got, msg)
			}
		}
		if len(got) != 1 {
			t.Fatalf("chunkSize=%d: got %d messages, want 1", chunkSize, len(got))
		}
		if got[0].Tag != TagQuery || !bytes.Equal(got[0].Payload, raw[5:]) {
			t.Errorf("chunkSize=%d: message mismatch: %+v", chunkSize, got[0])
		}
	}
}

// TestFramerNeedMore verifies the 5-header-byte and declared-length
// thresholds report NeedMore (ok=false, err=nil) rather than an error.
func TestFramerNeedMore(t *testing.T) {
	f := NewFramer()
	f.Feed([]byte{'Q', 0, 0})
	if _, ok, err := f.Next(); ok || err != nil {
		t.Fatalf("Next() with 3 header bytes = (ok=%v, err=%v), want (false, nil)", ok, err)
	}

	raw := Query("hello world")
	f2 := NewFramer()
	f2.Feed(raw[:len(raw)-2])
	if _, ok, err := f2.Next(); ok || err != nil {
		t.Fatalf("Next() with truncated payload = (ok=%v, err=%v), want (false, nil)", ok, err)
	}
}

// TestFramerMultipleMessages verifies back-to-back messages are each framed
// in turn, preserving order.
func TestFramerMultipleMessages(t *testing.T) {
	f := NewFramer()
	f.Feed(Query("first"))
	f.Feed(Query("second"))

	var tags []string
	for i := 0; i < 2; i++ {
		msg, ok, err := f.Next()
		if err != nil || !ok {
			t.Fatalf("Next() #%d = (ok=%v, err=%v)", i, ok, err)
		}
		tags = append(tags, string(msg.Payload[:len(msg.Payload)-1]))
	}
	if tags[0] != "first" || tags[1] != "second" {
		t.Errorf("order = %v, want [first second]", tags)
	}
}
