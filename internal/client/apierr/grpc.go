package apierr

import (
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FromGRPC classifies an error returned by a unary RPC. Errors that carry no
// gRPC status are treated as network failures.
func FromGRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return Network(err)
	}

	var code int
	switch st.Code() {
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		code = http.StatusBadRequest
	case codes.Unauthenticated:
		code = http.StatusUnauthorized
	case codes.PermissionDenied:
		code = http.StatusForbidden
	case codes.NotFound:
		code = http.StatusNotFound
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return Network(err)
	default:
		code = http.StatusInternalServerError
	}

	var body any
	if msg := st.Message(); msg != "" {
		body = msg
	}
	e := Classify(code, body)
	e.Err = err
	return e
}
