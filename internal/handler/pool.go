package handler

import (
	"bytes"
	"sync"
)

// responseBufferSize covers every response body this service emits
const responseBufferSize = 512

// maxPooledBufferSize keeps an unusually large encode from pinning memory
const maxPooledBufferSize = 64 << 10

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, responseBufferSize))
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBufferSize {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}
