package datasource

import (
	"bytes"
	"io"
	"sync"
	"sync/atomic"
)

const defaultBufferCap = 64 << 10

// bufferPool holds read buffers shared by both source kinds. Only the copy
// handed back to callers escapes; the pooled buffer never does.
var bufferPool = sync.Pool{
	New: func() any {
		bufferPoolNews.Add(1)
		return bytes.NewBuffer(make([]byte, 0, defaultBufferCap))
	},
}

var bufferPoolGets atomic.Uint64
var bufferPoolNews atomic.Uint64

func readBody(r io.Reader) ([]byte, error) {
	bufferPoolGets.Add(1)
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

// BufferPoolStats returns the total pool hits and misses since process start.
func BufferPoolStats() (hits uint64, misses uint64) {
	gets := bufferPoolGets.Load()
	news := bufferPoolNews.Load()
	if gets >= news {
		return gets - news, news
	}
	return 0, news
}
