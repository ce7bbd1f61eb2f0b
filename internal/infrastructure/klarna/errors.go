package klarna

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/orris-inc/klarnacheckout/internal/shared/errors"
)

// errorCodeReadOnlyOrder is returned when updating a session that can no
// longer change; it is handled like a missing session.
const errorCodeReadOnlyOrder = "READ_ONLY_ORDER"

// HTTPStatusError indicates a non-2xx response.
type HTTPStatusError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "http status error"
	}
	if len(e.Body) == 0 {
		return fmt.Sprintf("unexpected status: %d", e.StatusCode)
	}
	b := e.Body
	if len(b) > 512 {
		b = b[:512]
	}
	return fmt.Sprintf("unexpected status: %d: %s", e.StatusCode, string(b))
}

// apiErrorBody is the provider's error document.
type apiErrorBody struct {
	ErrorCode     string   `json:"error_code"`
	ErrorMessages []string `json:"error_messages"`
	CorrelationID string   `json:"correlation_id"`
}

func parseErrorBody(body []byte) apiErrorBody {
	var out apiErrorBody
	if len(body) > 0 {
		_ = json.Unmarshal(body, &out)
	}
	return out
}

// mapError converts transport and status errors into application errors.
// With notFoundOnReadOnly, a READ_ONLY_ORDER response is reported as
// remote not found so callers fall back to creating a new session.
func mapError(op string, err error, notFoundOnReadOnly bool) error {
	if err == nil {
		return nil
	}

	var hs *HTTPStatusError
	if !errors.As(err, &hs) {
		return apperrors.Wrap(apperrors.ErrorTypeRemote, op+" failed", err)
	}

	body := parseErrorBody(hs.Body)
	details := []string{fmt.Sprintf("status=%d", hs.StatusCode)}
	if body.ErrorCode != "" {
		details = append(details, "error_code="+body.ErrorCode)
	}
	if len(body.ErrorMessages) > 0 {
		details = append(details, "messages="+strings.Join(body.ErrorMessages, "; "))
	}
	if body.CorrelationID != "" {
		details = append(details, "correlation_id="+body.CorrelationID)
	}
	detail := strings.Join(details, " ")

	var appErr *apperrors.AppError
	if hs.StatusCode == http.StatusNotFound || (notFoundOnReadOnly && body.ErrorCode == errorCodeReadOnlyOrder) {
		appErr = apperrors.NewRemoteNotFoundError(op+": order not found", detail)
	} else {
		appErr = apperrors.NewRemoteError(op+" failed", detail)
	}
	appErr.Err = err
	return appErr
}
