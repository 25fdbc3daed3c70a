package middleware

import (
	"bytes"
	"compress/gzip"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// CompressionConfig holds configuration for response compression
type CompressionConfig struct {
	MinSize          int      // responses smaller than this are sent as is
	CompressionLevel int      // gzip level, 1 to 9
	ContentTypes     []string // media type prefixes eligible for compression
}

// DefaultCompressionConfig returns the default compression configuration
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize:          1024,
		CompressionLevel: gzip.DefaultCompression,
		ContentTypes: []string{
			"application/json",
			"text/plain",
			"text/csv",
		},
	}
}

// CompressionMiddleware gzips buffered responses for clients that accept it
type CompressionMiddleware struct {
	config CompressionConfig
	stats  *CompressionStats
	pool   sync.Pool
}

func NewCompressionMiddleware(config CompressionConfig) *CompressionMiddleware {
	if config.CompressionLevel < gzip.HuffmanOnly || config.CompressionLevel > gzip.BestCompression {
		config.CompressionLevel = gzip.DefaultCompression
	}
	cm := &CompressionMiddleware{config: config, stats: &CompressionStats{}}
	cm.pool.New = func() interface{} {
		gz, _ := gzip.NewWriterLevel(nil, config.CompressionLevel)
		return gz
	}
	return cm
}

// Handler buffers the downstream response and decides once it is complete.
// Responses whose headers were already flushed pass through unchanged.
func (cm *CompressionMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !clientAcceptsGzip(c.Request) || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		bw := &bufferedWriter{ResponseWriter: c.Writer}
		c.Writer = bw
		c.Next()
		c.Writer = bw.ResponseWriter

		body := bw.buf.Bytes()
		if bw.ResponseWriter.Written() || !cm.eligible(bw.Header().Get("Content-Type"), bw.Status(), len(body)) {
			cm.stats.record(len(body), len(body), false)
			_, _ = bw.ResponseWriter.Write(body)
			return
		}

		var out bytes.Buffer
		gz := cm.pool.Get().(*gzip.Writer)
		gz.Reset(&out)
		_, err := gz.Write(body)
		if err == nil {
			err = gz.Close()
		}
		cm.pool.Put(gz)
		if err != nil {
			cm.stats.record(len(body), len(body), false)
			_, _ = bw.ResponseWriter.Write(body)
			return
		}

		h := bw.Header()
		h.Set("Content-Encoding", "gzip")
		h.Add("Vary", "Accept-Encoding")
		h.Set("Content-Length", strconv.Itoa(out.Len()))
		cm.stats.record(len(body), out.Len(), true)
		_, _ = bw.ResponseWriter.Write(out.Bytes())
	}
}

func clientAcceptsGzip(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		coding, q, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.EqualFold(strings.TrimSpace(coding), "gzip") {
			return strings.ReplaceAll(strings.TrimSpace(q), " ", "") != "q=0"
		}
	}
	return false
}

func (cm *CompressionMiddleware) eligible(contentType string, status, size int) bool {
	if size < cm.config.MinSize || status < http.StatusOK || status == http.StatusNoContent || status == http.StatusNotModified {
		return false
	}
	contentType = strings.ToLower(contentType)
	for _, ct := range cm.config.ContentTypes {
		if strings.HasPrefix(contentType, ct) {
			return true
		}
	}
	return false
}

// bufferedWriter holds the body until the handler chain returns
type bufferedWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bufferedWriter) Write(data []byte) (int, error) {
	return w.buf.Write(data)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.buf.WriteString(s)
}

// Size reports the buffered length so downstream size checks stay accurate
func (w *bufferedWriter) Size() int {
	if w.buf.Len() == 0 {
		return w.ResponseWriter.Size()
	}
	return w.buf.Len()
}

// Flush is a no-op; the response is sent once the chain completes
func (w *bufferedWriter) Flush() {}

// CompressionStats tracks compression statistics
type CompressionStats struct {
	totalRequests      atomic.Int64
	compressedRequests atomic.Int64
	totalBytes         atomic.Int64
	compressedBytes    atomic.Int64
}

func (cs *CompressionStats) record(originalSize, sentSize int, compressed bool) {
	cs.totalRequests.Add(1)
	if compressed {
		cs.compressedRequests.Add(1)
		cs.totalBytes.Add(int64(originalSize))
		cs.compressedBytes.Add(int64(sentSize))
	}
}

// GetStats returns compression counters. The ratio covers compressed responses only.
func (cs *CompressionStats) GetStats() map[string]interface{} {
	total := cs.totalBytes.Load()
	compressed := cs.compressedBytes.Load()
	ratio := float64(0)
	if total > 0 {
		ratio = float64(compressed) / float64(total)
	}
	return map[string]interface{}{
		"total_requests":      cs.totalRequests.Load(),
		"compressed_requests": cs.compressedRequests.Load(),
		"original_bytes":      total,
		"compressed_bytes":    compressed,
		"compression_ratio":   ratio,
	}
}

func (cm *CompressionMiddleware) GetStats() map[string]interface{} {
	return cm.stats.GetStats()
}
