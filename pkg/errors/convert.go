package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// CodePair holds the transport-level representations of an error code.
type CodePair struct {
	HTTPStatus int
	GRPCCode   codes.Code
}

var codeMapping = map[string]CodePair{
	ErrInternal:        {http.StatusInternalServerError, codes.Internal},
	ErrNotFound:        {http.StatusNotFound, codes.NotFound},
	ErrInvalidArgument: {http.StatusBadRequest, codes.InvalidArgument},
	ErrUnauthenticated: {http.StatusUnauthorized, codes.Unauthenticated},
	ErrUnauthorized:    {http.StatusForbidden, codes.PermissionDenied},
	ErrConflict:        {http.StatusConflict, codes.AlreadyExists},
	ErrTimeout:         {http.StatusGatewayTimeout, codes.DeadlineExceeded},
	ErrNotImplemented:  {http.StatusNotImplemented, codes.Unimplemented},
}

// GetCodeMapping returns the HTTP status and gRPC code for an error code.
// Unknown codes are treated as internal errors.
func GetCodeMapping(code string) (int, codes.Code) {
	if pair, ok := codeMapping[code]; ok {
		return pair.HTTPStatus, pair.GRPCCode
	}
	return http.StatusInternalServerError, codes.Internal
}

// ToGRPCCode converts an error into the matching gRPC status code.
func ToGRPCCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	var appErr *AppError
	if As(err, &appErr) {
		_, code := GetCodeMapping(appErr.Code())
		return code
	}
	return codes.Internal
}
