package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type sample struct {
	ID     int64     `cbor:"id"`
	Body   string    `cbor:"body"`
	SentAt time.Time `cbor:"sent_at"`
}

func TestGRPCCodec_KeepsNanoseconds(t *testing.T) {
	req := require.New(t)
	in := sample{ID: 7, Body: "hello", SentAt: time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)}

	data, err := GRPCCodec{}.Marshal(in)
	req.NoError(err)
	var out sample
	req.NoError(GRPCCodec{}.Unmarshal(data, &out))

	req.Equal(in.ID, out.ID)
	req.Equal(in.Body, out.Body)
	req.True(in.SentAt.Equal(out.SentAt))
	req.Equal(Name, GRPCCodec{}.Name())
}

func TestMarshal_IsDeterministic(t *testing.T) {
	req := require.New(t)
	first, err := Marshal(map[string]int{"b": 2, "a": 1, "c": 3})
	req.NoError(err)
	second, err := Marshal(map[string]int{"c": 3, "a": 1, "b": 2})
	req.NoError(err)
	req.Equal(first, second)

	text, err := Diagnose(map[string]int{"a": 1})
	req.NoError(err)
	req.Equal(`{"a": 1}`, text)
}
