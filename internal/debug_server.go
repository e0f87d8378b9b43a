package internal

import (
	"class-detail/infrastructure/storage"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

//go:embed inspect.html
var templatesFS embed.FS

type InspectRow struct {
	Key     string
	Kind    string
	Section string
	Mime    string
	Detail  string
}

type PageData struct {
	Prefix string
	Driver string
	Items  []InspectRow
}

// MapEntry describes a cached payload for the inspector page.
func MapEntry(key string, val []byte) InspectRow {
	row := InspectRow{
		Key:    key,
		Kind:   "RAW",
		Mime:   mimetype.Detect(val).String(),
		Detail: "Size: " + strconv.Itoa(len(val)) + " bytes",
	}

	switch {
	case strings.HasSuffix(key, "_profile"):
		row.Kind = "PROFILE"
		row.Section = strings.TrimSuffix(key, "_profile")
	case strings.HasSuffix(key, "_syllabus"):
		row.Kind = "SYLLABUS"
		row.Section = strings.TrimSuffix(key, "_syllabus")
		if entries, err := storage.DecodeSyllabus(val); err == nil {
			row.Mime = "application/x-protobuf"
			row.Detail = strconv.Itoa(len(entries)) + " entries"
		}
	case strings.HasPrefix(key, "attachment_"):
		row.Kind = "ATTACHMENT"
	}
	return row
}

// NewInspectHandler lists the cached assets whose key starts with the
// "prefix" query parameter.
func NewInspectHandler(log *slog.Logger, repo storage.IAssetRepository, driver string) http.Handler {
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data := PageData{
			Prefix: r.URL.Query().Get("prefix"),
			Driver: driver,
		}

		entries, err := repo.Entries()
		if err != nil {
			log.Error("Cache scan failed", "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		for _, e := range entries {
			if !strings.HasPrefix(e.Key, data.Prefix) {
				continue
			}
			payload, err := repo.Get(e.Key)
			if err != nil {
				log.Warn("Cache entry unreadable", "key", e.Key, "error", err)
				continue
			}
			data.Items = append(data.Items, MapEntry(e.Key, payload))
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})
}

// StartDebugServer serves the inspector in the background.
func StartDebugServer(log *slog.Logger, repo storage.IAssetRepository, driver string, port int, endpoint string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(endpoint, NewInspectHandler(log, repo, driver))

	srv := &http.Server{Addr: fmt.Sprintf("0.0.0.0:%d", port), Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Debug server stopped", "error", err)
		}
	}()
	return srv
}
