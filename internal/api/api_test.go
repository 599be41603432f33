package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/starford/othala/internal/store"
	"github.com/starford/othala/internal/testutil"
	"github.com/starford/othala/internal/tracker"
)

// testEnv sets up a temp tracked folder, service, and router for testing.
// authToken="" means disabled mode; a non-empty token enables token mode.
func testEnv(t *testing.T, authToken string) (string, http.Handler) {
	t.Helper()

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"a.txt": "alpha content\n",
		"b.txt": "beta content\n",
	})

	logger := testutil.QuietLogger()
	svc := tracker.New(store.New(0, logger), tracker.Options{
		InventoryFilename: "inventory.xlsx",
		LockPrefix:        "~$",
	}, logger)
	router := NewRouter(svc, authToken != "", authToken)
	return root, router
}

func postScan(t *testing.T, router http.Handler, folder string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(ScanRequest{Folder: folder})
	req := httptest.NewRequest(http.MethodPost, "/scan", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestScanEndpoint(t *testing.T) {
	root, router := testEnv(t, "")

	w := postScan(t, router, root)
	if w.Code != http.StatusOK {
		t.Fatalf("scan status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp ScanResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Counts.Files != 2 || resp.Counts.Added != 2 || resp.Total != 2 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Location != filepath.Join(root, "inventory.xlsx") {
		t.Fatalf("location = %q", resp.Location)
	}
}

func TestScanEndpointErrors(t *testing.T) {
	root, router := testEnv(t, "")

	// Missing folder.
	req := httptest.NewRequest(http.MethodPost, "/scan", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty folder status = %d", w.Code)
	}

	// Malformed body.
	req = httptest.NewRequest(http.MethodPost, "/scan", bytes.NewReader([]byte(`{`)))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad json status = %d", w.Code)
	}

	// Nonexistent folder.
	if w := postScan(t, router, filepath.Join(root, "absent")); w.Code != http.StatusNotFound {
		t.Fatalf("missing folder status = %d", w.Code)
	}
}

func TestInventoryEndpoint(t *testing.T) {
	root, router := testEnv(t, "")
	if w := postScan(t, router, root); w.Code != http.StatusOK {
		t.Fatalf("scan status = %d", w.Code)
	}

	q := url.Values{}
	q.Set("folder", root)
	q.Set("q", "alpha")
	req := httptest.NewRequest(http.MethodGet, "/inventory?"+q.Encode(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("inventory status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp InventoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || len(resp.Rows) != 1 || resp.Rows[0].FileName != "a.txt" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestInventoryEndpointRequiresFolder(t *testing.T) {
	_, router := testEnv(t, "")
	req := httptest.NewRequest(http.MethodGet, "/inventory", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSaveNotesEndpoint(t *testing.T) {
	root, router := testEnv(t, "")
	if w := postScan(t, router, root); w.Code != http.StatusOK {
		t.Fatalf("scan status = %d", w.Code)
	}

	key := filepath.Join(root, "a.txt")
	body, _ := json.Marshal(SaveNotesRequest{
		Folder: root,
		Notes:  map[string]string{key: "checked"},
	})
	req := httptest.NewRequest(http.MethodPut, "/notes", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("notes status = %d, body = %s", w.Code, w.Body.String())
	}

	// The note shows up in subsequent listings.
	q := url.Values{}
	q.Set("folder", root)
	q.Set("q", "checked")
	req = httptest.NewRequest(http.MethodGet, "/inventory?"+q.Encode(), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp InventoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || resp.Rows[0].ManualNotes != "checked" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestSaveNotesEndpointValidation(t *testing.T) {
	root, router := testEnv(t, "")

	body, _ := json.Marshal(SaveNotesRequest{Folder: root})
	req := httptest.NewRequest(http.MethodPut, "/notes", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty notes status = %d", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	root, router := testEnv(t, "secret")

	// No token.
	if w := postScan(t, router, root); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token status = %d", w.Code)
	}

	// Wrong token.
	body, _ := json.Marshal(ScanRequest{Folder: root})
	req := httptest.NewRequest(http.MethodPost, "/scan", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token status = %d", w.Code)
	}

	// Correct token.
	req = httptest.NewRequest(http.MethodPost, "/scan", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("valid token status = %d, body = %s", w.Code, w.Body.String())
	}
}
