package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/nebsit/hr-gateway/internal/core/domain"
)

var (
	pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}
	pdfHeader = []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")
)

// ---------------------------------------------------------------------------
// Prepare
// ---------------------------------------------------------------------------

func TestPrepare_AllowedTypes(t *testing.T) {
	cases := map[string]struct {
		data []byte
		want string
	}{
		"png": {pngHeader, domain.MIMEPNG},
		"pdf": {pdfHeader, domain.MIMEPDF},
		"jpg": {[]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, domain.MIMEJPEG},
	}
	for name, tc := range cases {
		att, err := Prepare("file."+name, int64(len(tc.data)), 1<<20, bytes.NewReader(tc.data))
		if err != nil {
			t.Fatalf("%s: Prepare returned error: %v", name, err)
		}
		if att.ContentType != tc.want {
			t.Errorf("%s: expected %s, got %s", name, tc.want, att.ContentType)
		}
		all, _ := io.ReadAll(att.Content)
		if !bytes.Equal(all, tc.data) {
			t.Errorf("%s: content must be preserved after sniffing", name)
		}
	}
}

func TestPrepare_RejectsOtherTypes(t *testing.T) {
	_, err := Prepare("notes.txt", 5, 1<<20, strings.NewReader("hello"))
	if !errors.Is(err, domain.ErrUnsupportedFile) {
		t.Fatalf("expected ErrUnsupportedFile, got %v", err)
	}
	_, err = Prepare("anim.gif", 6, 1<<20, strings.NewReader("GIF89a"))
	if !errors.Is(err, domain.ErrUnsupportedFile) {
		t.Fatalf("gif must be rejected, got %v", err)
	}
}

func TestPrepare_SizeLimit(t *testing.T) {
	_, err := Prepare("big.pdf", 11<<20, 10<<20, bytes.NewReader(pdfHeader))
	if !errors.Is(err, domain.ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestObjectName(t *testing.T) {
	name := objectName(`C:\Users\me\Q3 report (final).PDF`, domain.MIMEPDF)
	if !strings.HasPrefix(name, "Q3-report-final-") || !strings.HasSuffix(name, ".pdf") {
		t.Fatalf("unexpected object name %q", name)
	}
	if objectName("a.png", domain.MIMEPNG) == objectName("a.png", domain.MIMEPNG) {
		t.Fatal("object names must carry a random suffix")
	}
}

// ---------------------------------------------------------------------------
// Cloudinary
// ---------------------------------------------------------------------------

func TestCloudinary_RoutesByType(t *testing.T) {
	var paths []string
	var preset string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, params, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		mr := multipart.NewReader(r.Body, params["boundary"])
		for {
			p, err := mr.NextPart()
			if err != nil {
				break
			}
			if p.FormName() == "upload_preset" {
				b, _ := io.ReadAll(p)
				preset = string(b)
			}
		}
		_, _ = io.WriteString(w, `{"secure_url":"https://res.cloudinary.com/demo/x.pdf","url":"http://res.cloudinary.com/demo/x.pdf"}`)
	}))
	defer srv.Close()

	c, err := NewCloudinary(CloudinaryConfig{CloudName: "demo", UploadPreset: "notices", APIBase: srv.URL}, srv.Client())
	if err != nil {
		t.Fatalf("NewCloudinary: %v", err)
	}

	url, err := c.Upload(context.Background(), domain.Attachment{Filename: "x.pdf", ContentType: domain.MIMEPDF, Content: bytes.NewReader(pdfHeader)})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "https://res.cloudinary.com/demo/x.pdf" {
		t.Fatalf("expected secure_url, got %q", url)
	}
	if _, err := c.Upload(context.Background(), domain.Attachment{Filename: "x.png", ContentType: domain.MIMEPNG, Content: bytes.NewReader(pngHeader)}); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if paths[0] != "/v1_1/demo/raw/upload" || paths[1] != "/v1_1/demo/image/upload" {
		t.Fatalf("unexpected upload paths %v", paths)
	}
	if preset != "notices" {
		t.Fatalf("expected upload preset, got %q", preset)
	}
}

func TestCloudinary_ErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"message":"Upload preset not found"}}`)
	}))
	defer srv.Close()

	c, _ := NewCloudinary(CloudinaryConfig{CloudName: "demo", UploadPreset: "nope", APIBase: srv.URL}, srv.Client())
	_, err := c.Upload(context.Background(), domain.Attachment{Filename: "x.png", ContentType: domain.MIMEPNG, Content: bytes.NewReader(pngHeader)})
	if err == nil || !strings.Contains(err.Error(), "Upload preset not found") {
		t.Fatalf("expected cloudinary message, got %v", err)
	}
}

func TestCloudinary_RequiresConfig(t *testing.T) {
	if _, err := NewCloudinary(CloudinaryConfig{CloudName: "demo"}, http.DefaultClient); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

func TestBlob_Put(t *testing.T) {
	var gotMethod, gotPath, gotAuth, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotAuth, gotType = r.Header.Get("Authorization"), r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, `{"url":"https://blob.example.com/policy-abc.pdf"}`)
	}))
	defer srv.Close()

	b, err := NewBlob(BlobConfig{BaseURL: srv.URL, Token: "rw-token"}, srv.Client())
	if err != nil {
		t.Fatalf("NewBlob: %v", err)
	}
	url, err := b.Upload(context.Background(), domain.Attachment{
		Filename: "policy.pdf", ContentType: domain.MIMEPDF, Size: int64(len(pdfHeader)), Content: bytes.NewReader(pdfHeader),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "https://blob.example.com/policy-abc.pdf" {
		t.Fatalf("unexpected url %q", url)
	}
	if gotMethod != http.MethodPut || !strings.HasPrefix(gotPath, "/policy-") || !strings.HasSuffix(gotPath, ".pdf") {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
	if gotAuth != "Bearer rw-token" || gotType != domain.MIMEPDF {
		t.Fatalf("unexpected headers auth=%q type=%q", gotAuth, gotType)
	}
	if !bytes.Equal(gotBody, pdfHeader) {
		t.Fatal("body must be the raw file bytes")
	}
}

func TestBlob_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"message":"Access denied"}}`)
	}))
	defer srv.Close()

	b, _ := NewBlob(BlobConfig{BaseURL: srv.URL, Token: "bad"}, srv.Client())
	_, err := b.Upload(context.Background(), domain.Attachment{Filename: "a.png", ContentType: domain.MIMEPNG, Content: bytes.NewReader(pngHeader)})
	if err == nil || !strings.Contains(err.Error(), "Access denied") {
		t.Fatalf("expected blob error message, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Factory
// ---------------------------------------------------------------------------

func TestNew_SelectsDriver(t *testing.T) {
	s, err := New(Config{Driver: DriverBlob, Blob: BlobConfig{BaseURL: "https://blob.example.com", Token: "t"}}, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Driver() != DriverBlob {
		t.Fatalf("expected blob driver, got %s", s.Driver())
	}

	if _, err := New(Config{Driver: DriverGridFS, PublicBaseURL: "https://hr.example.com"}, nil, zerolog.Nop()); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("gridfs without mongo must fail, got %v", err)
	}
	if _, err := New(Config{Driver: "s3"}, nil, zerolog.Nop()); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("unknown driver must fail, got %v", err)
	}
}
