package internal

import (
	"class-detail/domain"
	"class-detail/infrastructure/storage"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestMapEntry(t *testing.T) {
	snapshot, err := storage.EncodeSyllabus([]domain.SyllabusEntry{{Description: lo.ToPtr("Grading")}})
	require.NoError(t, err)

	tests := []struct {
		name        string
		key         string
		val         []byte
		wantKind    string
		wantSection string
		wantDetail  string
	}{
		{"Profile", domain.ProfileKey("8812"), []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "PROFILE", "8812", "Size: 8 bytes"},
		{"Syllabus", domain.SyllabusKey("8812"), snapshot, "SYLLABUS", "8812", "1 entries"},
		{"Attachment", domain.AttachmentKey("lab.pdf"), []byte("%PDF-1.4"), "ATTACHMENT", "", "Size: 8 bytes"},
		{"Unknown", "something", []byte("x"), "RAW", "", "Size: 1 bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			row := MapEntry(tt.key, tt.val)
			req.Equal(tt.key, row.Key)
			req.Equal(tt.wantKind, row.Kind)
			req.Equal(tt.wantSection, row.Section)
			req.Equal(tt.wantDetail, row.Detail)
		})
	}
}

func TestInspectHandler_FiltersByPrefix(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	req.NoError(err)
	defer db.Close()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := storage.NewAssetRepository(db, log)
	req.NoError(repo.Put(domain.ProfileKey("8812"), []byte("a")))
	req.NoError(repo.Put(domain.AttachmentKey("lab.pdf"), []byte("b")))

	srv := httptest.NewServer(NewInspectHandler(log, repo, "badger"))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "?prefix=attachment_")
	req.NoError(err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	req.NoError(err)

	req.Equal(http.StatusOK, resp.StatusCode)
	req.Contains(string(body), "attachment_lab.pdf")
	req.NotContains(string(body), "8812_profile")
}
