package http

const (
	DefaultReadBufferSize  = 1024
	DefaultWriteBufferSize = 4096
	DefaultContentType     = "text/plain"
)

var (
	crlf                = []byte("\r\n")
	headerSeparator     = []byte(": ")
	contentTypePrefix   = []byte("Content-Type: ")
	contentLengthPrefix = []byte("Content-Length: ")
)
