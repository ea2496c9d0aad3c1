package http

type Handler func(req *Request, res *Response)

// Router dispatches to the first registered route that matches.
type Router struct {
	Routes     []Route
	Middleware []Middleware
	NotFound   Handler
}

func NewRouter() Router {
	return Router{
		Routes:   make([]Route, 0),
		NotFound: NotFoundHandler,
	}
}

func (router *Router) Use(middleware ...Middleware) {
	router.Middleware = append(router.Middleware, middleware...)
}

func (router *Router) Handle(match Matcher, handler Handler, middleware ...Middleware) {
	router.Any(nil, match, handler, middleware...)
}

func (router *Router) GET(match Matcher, handler Handler, middleware ...Middleware) {
	router.Any([]string{"GET"}, match, handler, middleware...)
}

func (router *Router) POST(match Matcher, handler Handler, middleware ...Middleware) {
	router.Any([]string{"POST"}, match, handler, middleware...)
}

func (router *Router) Any(methods []string, match Matcher, handler Handler, middleware ...Middleware) {
	for _, middleware := range middleware {
		handler = middleware(handler)
	}

	router.Routes = append(router.Routes, Route{
		Methods: methods,
		Match:   match,
		Handler: handler,
	})
}

// Handler returns the dispatching handler with the router middleware applied,
// the first registered middleware outermost.
func (router *Router) Handler() Handler {
	routes := append([]Route(nil), router.Routes...)
	notFound := router.NotFound
	if notFound == nil {
		notFound = NotFoundHandler
	}

	return router.Wrap(func(req *Request, res *Response) {
		for i := range routes {
			if routes[i].matches(req) {
				routes[i].Handler(req, res)
				return
			}
		}

		notFound(req, res)
	})
}

// Wrap applies the router middleware to a handler that bypasses the routes,
// such as the server's bad request handler.
func (router *Router) Wrap(handler Handler) Handler {
	for i := len(router.Middleware) - 1; i >= 0; i-- {
		handler = router.Middleware[i](handler)
	}
	return handler
}
