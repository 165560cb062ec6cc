package content

import "testing"

func TestFromBytesEmpty(t *testing.T) {
	id, err := FromBytes(nil)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	want := "swh:1:cnt:e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"
	if got := id.String(); got != want {
		t.Errorf("FromBytes(nil) = %q, want %q", got, want)
	}
}

func TestFromBytesHelloWorld(t *testing.T) {
	id, err := FromBytes([]byte("Hello, World!"))
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	want := "swh:1:cnt:b45ef6fec89518d314f546fd6c3025367b721684"
	if got := id.String(); got != want {
		t.Errorf("FromBytes = %q, want %q", got, want)
	}
}

func TestFromBytesDeterministic(t *testing.T) {
	data := []byte("consistent test")
	a, err := FromBytes(data)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	b, err := FromBytes(data)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if a != b {
		t.Errorf("FromBytes not deterministic: %v != %v", a, b)
	}
}

func TestFromBytesDifferentData(t *testing.T) {
	a, err := FromBytes([]byte("data1"))
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	b, err := FromBytes([]byte("data2"))
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if a == b {
		t.Error("different data produced the same SWHID")
	}
}
