package http

// Status is an HTTP status code the response builder knows how to serialize.
// Codes outside the set below are rejected with an UnsupportedStatusError.
type Status uint16

const (
	StatusOK                  Status = 200 // RFC 7231, 6.3.1
	StatusBadRequest          Status = 400 // RFC 7231, 6.5.1
	StatusNotFound            Status = 404 // RFC 7231, 6.5.4
	StatusInternalServerError Status = 500 // RFC 7231, 6.6.1
)

const (
	statusLineOK                  = "HTTP/1.1 200 OK\r\n"
	statusLineBadRequest          = "HTTP/1.1 400 Bad Request\r\n"
	statusLineNotFound            = "HTTP/1.1 404 Not Found\r\n"
	statusLineInternalServerError = "HTTP/1.1 500 Internal Server Error\r\n"
)

// Line returns the canned status line, CRLF included.
func (s Status) Line() (string, error) {
	switch s {
	case StatusOK:
		return statusLineOK, nil
	case StatusBadRequest:
		return statusLineBadRequest, nil
	case StatusNotFound:
		return statusLineNotFound, nil
	case StatusInternalServerError:
		return statusLineInternalServerError, nil
	default:
		return "", &UnsupportedStatusError{Status: s}
	}
}

func (s Status) Supported() bool {
	_, err := s.Line()
	return err == nil
}
