package api

import (
	"encoding/json/v2"
	"io"
	"net/http"

	"github.com/cortexapp/cortex-server/internal/errors"
)

// maxBodySize caps request bodies at 64 KiB; no request in this API
// legitimately carries more.
const maxBodySize = 64 << 10

// decodeJSON decodes and validates a request body into dst.
// dst's validate tags are enforced after decoding.
func (s *Server) decodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodySize)
	defer func() {
		_, _ = io.Copy(io.Discard, body)
	}()

	if err := json.UnmarshalRead(body, dst); err != nil {
		return errors.Validation("invalid request body")
	}

	return s.validator.Validate(dst)
}
