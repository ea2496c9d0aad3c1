package http

import (
	"net"
)

// RequestCtx carries the per-connection state: the read buffer, the parsed
// request and the response under construction.
type RequestCtx struct {
	ID   string
	Conn net.Conn

	Request  Request
	Response Response

	readBuf  []byte
	writeBuf []byte
}

func newRequestCtx(readBufferSize int) *RequestCtx {
	return &RequestCtx{
		Request:  Request{Headers: make(Headers)},
		Response: NewResponse(StatusOK, nil, nil),
		readBuf:  make([]byte, readBufferSize),
		writeBuf: make([]byte, 0, DefaultWriteBufferSize),
	}
}

func (reqCtx *RequestCtx) Reset(conn net.Conn) {
	reqCtx.ID = ""
	reqCtx.Conn = conn
	reqCtx.Request.Reset()
	reqCtx.Response.Reset()
	reqCtx.writeBuf = reqCtx.writeBuf[:0]
}
