package grpcjson

import (
	"testing"

	"google.golang.org/grpc/encoding"
)

func TestCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(Name)
	if c == nil {
		t.Fatal("json codec not registered")
	}

	type payload struct {
		ID  string `json:"id"`
		Qty int    `json:"qty"`
	}

	b, err := c.Marshal(payload{ID: "a", Qty: 2})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got payload
	if err := c.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != "a" || got.Qty != 2 {
		t.Fatalf("got %+v", got)
	}
}

func TestUnmarshalEmptyBody(t *testing.T) {
	var got struct{ ID string }
	if err := (codec{}).Unmarshal(nil, &got); err != nil {
		t.Fatalf("empty body should decode to zero value, got %v", err)
	}
}
