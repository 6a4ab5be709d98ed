package wasmfunc

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/script-runtime/errors"
	"github.com/wippyai/script-runtime/value"
)

// codec moves one core value between a slot holder and the wazero stack.
type codec struct {
	id     *value.TypeID
	encode func(h value.Holder) (uint64, error)
	decode func(h value.Holder, v uint64) error
}

func newCodec[T any](enc func(T) uint64, dec func(uint64) T) codec {
	return codec{
		id: value.TypeOf[T](),
		encode: func(h value.Holder) (uint64, error) {
			p, err := value.Ptr[T](h)
			if err != nil {
				return 0, err
			}
			return enc(*p), nil
		},
		decode: func(h value.Holder, v uint64) error {
			p, err := value.Ptr[T](h)
			if err != nil {
				return err
			}
			*p = dec(v)
			return nil
		},
	}
}

var codecs = map[api.ValueType]codec{
	api.ValueTypeI32: newCodec(api.EncodeI32, api.DecodeI32),
	api.ValueTypeI64: newCodec(api.EncodeI64, func(v uint64) int64 { return int64(v) }),
	api.ValueTypeF32: newCodec(api.EncodeF32, api.DecodeF32),
	api.ValueTypeF64: newCodec(api.EncodeF64, api.DecodeF64),
}

func codecFor(name string, t api.ValueType) (codec, error) {
	c, ok := codecs[t]
	if !ok {
		err := errors.Unsupported(errors.PhaseLoad, "value type "+api.ValueTypeName(t))
		err.Op = name
		return codec{}, err
	}
	return c, nil
}

// signature resolves the slot identities of an exported function.
func signature(name string, def api.FunctionDefinition) (params []codec, result *codec, err error) {
	if n := len(def.ResultTypes()); n > 1 {
		return nil, nil, errors.New(errors.PhaseLoad, errors.KindUnsupported).
			Op(name).
			Detail("%d results", n).
			Build()
	}
	params = make([]codec, len(def.ParamTypes()))
	for i, t := range def.ParamTypes() {
		if params[i], err = codecFor(name, t); err != nil {
			return nil, nil, err
		}
	}
	if rt := def.ResultTypes(); len(rt) == 1 {
		c, err := codecFor(name, rt[0])
		if err != nil {
			return nil, nil, err
		}
		result = &c
	}
	return params, result, nil
}
