package handlers

import (
	"fmt"
	"net/http"
)

// Custom404Handler reports a missing output file as plain text.
func Custom404Handler(w http.ResponseWriter, filePath string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprintf(w, "File Not Found: %s", filePath)
}
