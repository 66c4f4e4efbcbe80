package handlers

import (
	"fmt"
	"net/http"
)

// Home serves a small landing page pointing at the metrics path.
func Home(metricsPath string) http.HandlerFunc {
	body := fmt.Sprintf(`<html>
<head><title>NGINX Exporter</title></head>
<body>
<h1>NGINX Exporter</h1>
<p><a href=%q>Metrics</a></p>
</body>
</html>
`, metricsPath)

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(body))
	}
}
