package http

import (
	"bytes"
	"context"
	"strings"
)

// ParseMode selects how the parser reacts to malformed input.
type ParseMode int

const (
	// ParseLenient never fails; missing tokens are left empty and header
	// lines without a colon are skipped.
	ParseLenient ParseMode = iota
	// ParseStrict reports malformed input as a *ParseError.
	ParseStrict
)

func (m ParseMode) String() string {
	if m == ParseStrict {
		return "strict"
	}
	return "lenient"
}

// Headers maps header names to values. Names are kept exactly as received.
type Headers map[string]string

// Get returns the value stored under the exact name, or "".
func (h Headers) Get(name string) string {
	return h[name]
}

func (h Headers) Lookup(name string) (string, bool) {
	v, found := h[name]
	return v, found
}

// GetFold looks the name up ignoring ASCII case. Exact matches win.
func (h Headers) GetFold(name string) (string, bool) {
	if v, found := h[name]; found {
		return v, true
	}
	for k, v := range h {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

type Request struct {
	Method   string
	Target   string
	Protocol string
	Headers  Headers

	ctx context.Context
}

// ParseRequest parses data into a new Request. See (*Request).Parse.
func ParseRequest(data []byte, mode ParseMode) (Request, error) {
	var req Request
	err := req.Parse(data, mode)
	return req, err
}

// Parse fills req from the raw bytes of a request. Only data is inspected,
// and anything past the first NUL byte is ignored. In lenient mode the
// returned error is always nil.
func (req *Request) Parse(data []byte, mode ParseMode) error {
	if req.Headers == nil {
		req.Headers = make(Headers)
	}

	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}

	line, rest := nextLine(data)
	if len(line) == 0 && len(rest) == 0 {
		if mode == ParseStrict {
			return &ParseError{Kind: ParseErrorEmpty}
		}
		return nil
	}

	if err := req.parseRequestLine(line, mode); err != nil {
		return err
	}

	for len(rest) > 0 {
		line, rest = nextLine(rest)
		if len(line) == 0 {
			break // end of headers
		}

		name, value, found := bytes.Cut(line, []byte(":"))
		if !found {
			if mode == ParseStrict {
				return &ParseError{Kind: ParseErrorHeader, Line: string(line)}
			}
			continue
		}

		key := string(name)
		if _, exists := req.Headers[key]; exists {
			continue
		}
		value, _, _ = bytes.Cut(bytes.TrimLeft(value, " \t"), cr)
		req.Headers[key] = string(value)
	}

	return nil
}

func (req *Request) parseRequestLine(line []byte, mode ParseMode) error {
	method, rest, _ := bytes.Cut(line, []byte(" "))
	target, protocol, _ := bytes.Cut(rest, []byte(" "))
	protocol, _, _ = bytes.Cut(protocol, cr)

	req.Method = string(method)
	req.Target = string(target)
	req.Protocol = string(protocol)

	if mode != ParseStrict {
		return nil
	}
	if req.Method == "" || req.Target == "" || req.Protocol == "" || strings.ContainsRune(req.Protocol, ' ') {
		return &ParseError{Kind: ParseErrorRequestLine, Line: string(line)}
	}
	return nil
}

var cr = []byte("\r")

// nextLine splits off the first LF-terminated line, dropping a trailing CR.
func nextLine(data []byte) (line, rest []byte) {
	line, rest, _ = bytes.Cut(data, []byte("\n"))
	return bytes.TrimSuffix(line, cr), rest
}

// Context returns the request context, never nil.
func (req *Request) Context() context.Context {
	if req.ctx == nil {
		return context.Background()
	}
	return req.ctx
}

func (req *Request) WithContext(ctx context.Context) {
	req.ctx = ctx
}

func (req *Request) Reset() {
	req.Method = ""
	req.Target = ""
	req.Protocol = ""
	clear(req.Headers)
	req.ctx = nil
}
