package contract

import (
	"net/http"
	"strings"

	"github.com/alessio/shellescape"
	"golang.org/x/exp/slices"
)

func curlCommand(method, url string, header http.Header, body []byte) string {
	parts := []string{"curl", "-X", method}
	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		for _, value := range header[name] {
			parts = append(parts, "-H", shellescape.Quote(name+": "+value))
		}
	}
	if len(body) > 0 {
		parts = append(parts, "--data", shellescape.Quote(string(body)))
	}
	parts = append(parts, shellescape.Quote(url))
	return strings.Join(parts, " ")
}
