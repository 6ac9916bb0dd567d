package recommend

import "errors"

// These never reach callers of Recommend; they classify why the model path
// was abandoned, for logs and metrics.
var (
	ErrModelTransport     = errors.New("model transport error")
	ErrModelParse         = errors.New("model returned unparseable output")
	ErrInvalidModelOutput = errors.New("model output missing layout")
	ErrPersistence        = errors.New("audit persistence error")
)

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrModelTransport):
		return "transport"
	case errors.Is(err, ErrModelParse):
		return "parse"
	case errors.Is(err, ErrInvalidModelOutput):
		return "invalid"
	default:
		return "unknown"
	}
}
