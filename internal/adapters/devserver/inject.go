package devserver

import (
	"bytes"
	"net/http"
	"slices"
	"strings"
)

const maxInjectSize = 512 * 1024

var scriptTag = []byte(`<script src="` + ScriptPath + `"></script>`)

// injectScript adds the live-reload client to HTML responses.
func injectScript(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path != "" && !strings.HasSuffix(path, "/") && !strings.HasSuffix(path, ".html") {
			next.ServeHTTP(w, r)
			return
		}

		injector := &injector{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(injector, r)
		injector.finalize()
	})
}

// injector buffers an HTML response so the script can be inserted before
// </body>. Responses that are not HTML or too large pass through.
type injector struct {
	http.ResponseWriter
	status      int
	buffer      []byte
	started     bool
	passthrough bool
	wroteHeader bool
}

func (i *injector) WriteHeader(code int) {
	i.status = code
	if i.passthrough {
		i.writeHeader()
	}
}

func (i *injector) Write(data []byte) (int, error) {
	if !i.started {
		i.started = true
		contentType := i.Header().Get("Content-Type")
		if i.status != http.StatusOK || (contentType != "" && !strings.Contains(contentType, "text/html")) {
			i.passthrough = true
		}
	}

	if !i.passthrough && len(i.buffer)+len(data) > maxInjectSize {
		i.passthrough = true
		i.Header().Del("Content-Length")
		i.writeHeader()
		if _, err := i.ResponseWriter.Write(i.buffer); err != nil {
			return 0, err
		}
		i.buffer = nil
	}

	if i.passthrough {
		i.writeHeader()
		return i.ResponseWriter.Write(data)
	}

	i.buffer = append(i.buffer, data...)
	return len(data), nil
}

func (i *injector) writeHeader() {
	if !i.wroteHeader {
		i.wroteHeader = true
		i.ResponseWriter.WriteHeader(i.status)
	}
}

func (i *injector) finalize() {
	if i.passthrough || !i.started {
		i.writeHeader()
		return
	}

	body := i.buffer
	if idx := bytes.LastIndex(bytes.ToLower(body), []byte("</body>")); idx >= 0 {
		body = slices.Concat(body[:idx], scriptTag, body[idx:])
	} else {
		body = append(body, scriptTag...)
	}

	i.Header().Del("Content-Length")
	i.writeHeader()
	_, _ = i.ResponseWriter.Write(body)
}
