// Package codec is the single CBOR configuration shared by the Badger
// records and the gRPC wire messages.
package codec

import (
	"github.com/fxamacker/cbor/v2"
)

// Name is the gRPC content-subtype ("application/grpc+cbor").
const Name = "cbor"

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	// Core deterministic encoding: sorted map keys, shortest integers.
	// Times keep nanoseconds, message ordering depends on them.
	encOptions := cbor.CoreDetEncOptions()
	encOptions.Time = cbor.TimeRFC3339Nano
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// GRPCCodec plugs CBOR into grpc's encoding registry.
type GRPCCodec struct{}

func (GRPCCodec) Marshal(v any) ([]byte, error) {
	return Marshal(v)
}

func (GRPCCodec) Unmarshal(data []byte, v any) error {
	return Unmarshal(data, v)
}

func (GRPCCodec) Name() string {
	return Name
}

// Diagnose renders v in CBOR diagnostic notation, for debug output.
func Diagnose(v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return cbor.Diagnose(data)
}
