package http

import (
	"bytes"
	"errors"
	"strconv"
	"testing"

	"github.com/freekieb7/httpd/test"
)

func TestResponseBytes_Hello(t *testing.T) {
	res := NewResponse(StatusOK, nil, []byte("hello"))

	got, err := res.Bytes()
	test.AssertNoError(t, err)
	test.AssertEqual(t, "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 5\r\n\r\nhello", string(got))
}

func TestResponseBytes_NotFound(t *testing.T) {
	res := NewResponse(StatusNotFound, nil, nil)

	got, err := res.Bytes()
	test.AssertNoError(t, err)
	test.AssertEqual(t, "HTTP/1.1 404 Not Found\r\nContent-Type: text/plain\r\nContent-Length: 0\r\n\r\n", string(got))
}

func TestResponseBytes_ExtraHeadersKeepOrder(t *testing.T) {
	extra := []Header{
		{Name: "X-Second", Value: "b"},
		{Name: "X-First", Value: "a"},
	}
	res := NewResponse(StatusOK, extra, []byte("ok"))

	got, err := res.Bytes()
	test.AssertNoError(t, err)

	want := "HTTP/1.1 200 OK\r\n" +
		"Content-Type: text/plain\r\n" +
		"Content-Length: 2\r\n" +
		"X-Second: b\r\n" +
		"X-First: a\r\n" +
		"\r\n" +
		"ok"
	test.AssertEqual(t, want, string(got))
}

func TestResponseBytes_ContentType(t *testing.T) {
	res := NewResponse(StatusOK, nil, []byte("{}"))
	res.WithContentType("application/json")

	got, err := res.Bytes()
	test.AssertNoError(t, err)
	test.AssertTrue(t, bytes.Contains(got, []byte("\r\nContent-Type: application/json\r\n")), "content type not applied")

	res.ContentType = ""
	got, err = res.Bytes()
	test.AssertNoError(t, err)
	test.AssertTrue(t, bytes.Contains(got, []byte("\r\nContent-Type: text/plain\r\n")), "empty content type should default")
}

func TestResponseContentLengthMatchesBody(t *testing.T) {
	bodies := []string{"", "a", "hello, world!", "héllo wörld", "日本語", "🙂🙂"}

	for _, body := range bodies {
		res := NewResponse(StatusOK, nil, []byte(body))

		got, err := res.Bytes()
		test.AssertNoError(t, err)

		want := []byte("Content-Length: " + strconv.Itoa(len(body)) + "\r\n")
		if !bytes.Contains(got, want) {
			t.Errorf("body %q: expected %q in %q", body, want, got)
		}
		if !bytes.HasSuffix(got, []byte("\r\n\r\n"+body)) {
			t.Errorf("body %q: missing or incorrect body in %q", body, got)
		}
	}
}

func TestResponseUnsupportedStatus(t *testing.T) {
	res := NewResponse(Status(418), nil, []byte("teapot"))

	dst := []byte("prefix")
	got, err := res.AppendTo(dst)
	test.AssertErrorIs(t, err, ErrUnsupportedStatus)
	test.AssertEqual(t, "prefix", string(got))

	var statusErr *UnsupportedStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *UnsupportedStatusError, got %T", err)
	}
	test.AssertEqual(t, Status(418), statusErr.Status)

	var buf bytes.Buffer
	n, err := res.WriteTo(&buf)
	test.AssertErrorIs(t, err, ErrUnsupportedStatus)
	test.AssertEqual(t, int64(0), n)
	test.AssertEqual(t, 0, buf.Len())
}

func TestStatusLine(t *testing.T) {
	testCases := []struct {
		status Status
		line   string
	}{
		{StatusOK, "HTTP/1.1 200 OK\r\n"},
		{StatusBadRequest, "HTTP/1.1 400 Bad Request\r\n"},
		{StatusNotFound, "HTTP/1.1 404 Not Found\r\n"},
		{StatusInternalServerError, "HTTP/1.1 500 Internal Server Error\r\n"},
	}

	for _, tc := range testCases {
		line, err := tc.status.Line()
		test.AssertNoError(t, err)
		test.AssertEqual(t, tc.line, line)
		test.AssertTrue(t, tc.status.Supported(), "status should be supported")
	}

	for _, status := range []Status{0, 201, 302, 503} {
		test.AssertTrue(t, !status.Supported(), "status should not be supported: "+strconv.Itoa(int(status)))
	}
}

func TestResponseWriteTo(t *testing.T) {
	res := NewResponse(StatusOK, nil, nil)
	res.WithText("written").WithHeader("X-Test", "1")

	var buf bytes.Buffer
	n, err := res.WriteTo(&buf)
	test.AssertNoError(t, err)
	test.AssertEqual(t, int64(buf.Len()), n)
	test.AssertEqual(t, "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 7\r\nX-Test: 1\r\n\r\nwritten", buf.String())
}

func TestResponseReset(t *testing.T) {
	res := NewResponse(StatusNotFound, []Header{{Name: "X-A", Value: "1"}}, []byte("gone"))
	res.WithContentType("application/json")

	res.Reset()

	test.AssertEqual(t, StatusOK, res.Status)
	test.AssertEqual(t, DefaultContentType, res.ContentType)
	test.AssertEqual(t, 0, len(res.Headers))
	test.AssertEqual(t, 0, len(res.Body))
}

func TestAppendInt(t *testing.T) {
	for _, n := range []int{0, 7, 10, 1024, 987654321} {
		test.AssertEqual(t, strconv.Itoa(n), string(appendInt(nil, n)))
	}
}

func BenchmarkResponseAppendTo(b *testing.B) {
	res := NewResponse(StatusOK, []Header{{Name: "X-Bench", Value: "1"}}, []byte("benchmarking response write"))
	buf := make([]byte, 0, 256)

	for b.Loop() {
		var err error
		if buf, err = res.AppendTo(buf[:0]); err != nil {
			b.Fatal(err)
		}
	}
}
