package httpfetch

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// 1: request method
// 2: request url
// 3: request headers in ("Key: Value" format)
// 4: response status
// 5: response headers in ("Key: Value" format)
// 6: response body
const exchangeTemplate = `---- REQUEST ----

%s %s

%s

---- RESPONSE ----

%s

%s

%s`

func formatHeaders(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		for _, v := range headers[k] {
			lines = append(lines, fmt.Sprintf("%s: %s", k, v))
		}
	}
	return strings.Join(lines, "\n")
}

func formatExchange(res *resty.Response) string {
	var requestHeaders http.Header
	if res.Request.RawRequest != nil {
		requestHeaders = res.Request.RawRequest.Header
	}
	return fmt.Sprintf(
		exchangeTemplate,
		res.Request.Method, res.Request.URL,
		formatHeaders(requestHeaders),
		res.Status(),
		formatHeaders(res.Header()),
		res.String(),
	)
}

// dumpOutput writes every exchange of a client into its own file under a directory.
type dumpOutput struct {
	directory string
	idcounter *uint64
}

func newDumpOutput(dir string) (dumpOutput, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return dumpOutput{}, err
	}
	var idcounter uint64
	return dumpOutput{directory: dir, idcounter: &idcounter}, nil
}

func (o dumpOutput) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	id := strconv.FormatUint(atomic.AddUint64(o.idcounter, 1), 10)
	err := os.WriteFile(
		filepath.Join(o.directory, id+".txt"),
		[]byte(formatExchange(res)),
		0600,
	)
	if err != nil {
		slog.Warn("failed to write exchange file", "id", id, "err", err)
	}
	return nil
}
