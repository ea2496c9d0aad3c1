package http

import "strings"

// Matcher reports whether a route applies to a request target.
type Matcher func(target string) bool

func Exact(path string) Matcher {
	return func(target string) bool {
		return target == path
	}
}

func Prefix(prefix string) Matcher {
	return func(target string) bool {
		return strings.HasPrefix(target, prefix)
	}
}

type Route struct {
	Methods []string // empty matches every method
	Match   Matcher
	Handler Handler
}

func (route *Route) matches(req *Request) bool {
	if !route.Match(req.Target) {
		return false
	}
	if len(route.Methods) == 0 {
		return true
	}
	for _, method := range route.Methods {
		if method == req.Method {
			return true
		}
	}
	return false
}

var NotFoundHandler Handler = func(req *Request, res *Response) {
	res.WithStatus(StatusNotFound).WithBody(nil)
}

var BadRequestHandler Handler = func(req *Request, res *Response) {
	res.WithStatus(StatusBadRequest).WithBody(nil)
}
