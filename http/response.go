package http

import (
	"io"
)

type Header struct {
	Name  string
	Value string
}

// Response is serialized as: status line, Content-Type, Content-Length,
// extra headers in order, blank line, body.
type Response struct {
	Status      Status
	ContentType string
	Headers     []Header
	Body        []byte
}

func NewResponse(status Status, extra []Header, body []byte) Response {
	return Response{
		Status:      status,
		ContentType: DefaultContentType,
		Headers:     append([]Header(nil), extra...),
		Body:        body,
	}
}

func (res *Response) WithStatus(status Status) *Response {
	res.Status = status
	return res
}

func (res *Response) WithContentType(contentType string) *Response {
	res.ContentType = contentType
	return res
}

func (res *Response) WithHeader(name, value string) *Response {
	res.Headers = append(res.Headers, Header{Name: name, Value: value})
	return res
}

func (res *Response) WithBody(body []byte) *Response {
	res.Body = body
	return res
}

func (res *Response) WithText(payload string) *Response {
	res.ContentType = DefaultContentType
	res.Body = []byte(payload)
	return res
}

// AppendTo appends the wire form of res to dst. An unsupported status leaves
// dst untouched and returns an error wrapping ErrUnsupportedStatus.
func (res *Response) AppendTo(dst []byte) ([]byte, error) {
	statusLine, err := res.Status.Line()
	if err != nil {
		return dst, err
	}

	contentType := res.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}

	dst = append(dst, statusLine...)

	dst = append(dst, contentTypePrefix...)
	dst = append(dst, contentType...)
	dst = append(dst, crlf...)

	dst = append(dst, contentLengthPrefix...)
	dst = appendInt(dst, len(res.Body))
	dst = append(dst, crlf...)

	for _, header := range res.Headers {
		dst = append(dst, header.Name...)
		dst = append(dst, headerSeparator...)
		dst = append(dst, header.Value...)
		dst = append(dst, crlf...)
	}

	dst = append(dst, crlf...)
	dst = append(dst, res.Body...)

	return dst, nil
}

func (res *Response) Bytes() ([]byte, error) {
	return res.AppendTo(make([]byte, 0, 128+len(res.Body)))
}

func (res *Response) WriteTo(w io.Writer) (int64, error) {
	b, err := res.Bytes()
	if err != nil {
		return 0, err
	}

	n, err := w.Write(b)
	return int64(n), err
}

func (res *Response) Reset() {
	res.Status = StatusOK
	res.ContentType = DefaultContentType
	res.Headers = res.Headers[:0]
	res.Body = nil
}
