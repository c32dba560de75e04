package feishu

import (
	"fmt"

	"github.com/riskibarqy/courtside-sync/internal/usecase"
)

// Remote codes that mean the tenant token is no longer accepted.
const (
	codeInvalidAccessToken = 99991663
	codeExpiredAccessToken = 99991668
)

// APIError is a response whose envelope carried a non-zero code.
type APIError struct {
	Op   string
	Code int
	Msg  string

	kind error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("feishu %s failed code=%d msg=%s", e.Op, e.Code, e.Msg)
}

// Unwrap exposes the usecase sentinel for the failed operation.
func (e *APIError) Unwrap() error {
	return e.kind
}

func newAPIError(op string, code int, msg string) *APIError {
	kind := usecase.ErrDependencyUnavailable
	switch op {
	case opTenantToken:
		kind = usecase.ErrTokenAcquisition
	case opSearch:
		kind = usecase.ErrSearchFailed
	case opBatchCreate:
		kind = usecase.ErrInsertFailed
	}
	return &APIError{Op: op, Code: code, Msg: msg, kind: kind}
}

func isTokenRejected(code int) bool {
	return code == codeInvalidAccessToken || code == codeExpiredAccessToken
}
