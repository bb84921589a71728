package compress

import (
	"compress/gzip"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// GzipWriter compresses the response body. Content-Encoding is set on the
// first WriteHeader or Write, whichever comes first.
type GzipWriter struct {
	OldW        http.ResponseWriter
	Writer      *gzip.Writer
	wroteHeader bool
}

func (w *GzipWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.OldW.Header().Del("Content-Length")
	w.OldW.Header().Set("Content-Encoding", "gzip")
	w.OldW.Header().Add("Vary", "Accept-Encoding")
	w.OldW.WriteHeader(statusCode)
}

func (w *GzipWriter) Header() http.Header {
	return w.OldW.Header()
}

func (w *GzipWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.Writer.Write(b)
}

func GzipHandle(next http.Handler, log *zap.SugaredLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}
		gz, err := gzip.NewWriterLevel(w, gzip.BestSpeed)
		if err != nil {
			log.Errorf("Problem with gzip writer: %s", err.Error())
			next.ServeHTTP(w, r)
			return
		}
		defer func() {
			err := gz.Close()
			if err != nil {
				log.Warnf("Problem with closing gzip writer: %s", err.Error())
			}
		}()
		next.ServeHTTP(&GzipWriter{OldW: w, Writer: gz}, r)
	})
}
