package resumes

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T, serveMedia bool) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t, nil)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("accountId", "acct-alice")
		c.Set("username", "alice")
		c.Set("userEmail", "alice@example.com")
		c.Next()
	})
	NewHandler(svc, serveMedia).RegisterRoutes(router.Group(""))
	return router, svc
}

func multipartUpload(t *testing.T, fileName, contentType, body string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte(body)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadReturnsSkillsAndMatch(t *testing.T) {
	router, _ := newTestRouter(t, false)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, multipartUpload(t, "resume.pdf", PDFContentType, "Python and SQL skills"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	body := resp.Body.String()
	for _, want := range []string{`"skills":["python","sql"]`, `"match":"Backend Developer"`, `alice's Resume uploaded on`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s in %s", want, body)
		}
	}
}

func TestUploadRejectsNonPDF(t *testing.T) {
	router, svc := newTestRouter(t, false)

	tests := []struct {
		name        string
		fileName    string
		contentType string
		wantIssue   string
		wantMessage string
	}{
		{name: "docx", fileName: "resume.docx", contentType: PDFContentType, wantIssue: "wrong_extension", wantMessage: "Only PDF files are allowed."},
		{name: "octet stream", fileName: "resume.pdf", contentType: "application/octet-stream", wantIssue: "wrong_content_type", wantMessage: "File type is not PDF."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, multipartUpload(t, tt.fileName, tt.contentType, "Python"))
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.Code)
			}
			body := resp.Body.String()
			if !strings.Contains(body, `"issue":"`+tt.wantIssue+`"`) || !strings.Contains(body, tt.wantMessage) {
				t.Fatalf("unexpected body %s", body)
			}
		})
	}

	_, items, err := svc.List(context.Background(), "acct-alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no stored resumes, got %d", len(items))
	}
}

func TestUploadRequiresFile(t *testing.T) {
	router, _ := newTestRouter(t, false)

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest || !strings.Contains(resp.Body.String(), `"issue":"required"`) {
		t.Fatalf("expected required issue, got %d %s", resp.Code, resp.Body.String())
	}
}

func TestUploadFormCarriesNotice(t *testing.T) {
	router, _ := newTestRouter(t, false)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/upload?error=Could+not+read+your+PDF.", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	if !strings.Contains(body, `"notice":"Could not read your PDF."`) || !strings.Contains(body, `"accept":"application/pdf"`) {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestMediaRouteOnlyInDebug(t *testing.T) {
	for _, serveMedia := range []bool{false, true} {
		t.Run(fmt.Sprintf("serveMedia=%v", serveMedia), func(t *testing.T) {
			router, svc := newTestRouter(t, serveMedia)
			report, err := svc.Analyze(context.Background(), aliceOwner(), pdf("resume.pdf", "java"))
			if err != nil {
				t.Fatalf("analyze: %v", err)
			}

			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/media/resumes/"+report.Resume.ID, nil))
			if !serveMedia {
				if resp.Code != http.StatusNotFound {
					t.Fatalf("expected 404 without debug, got %d", resp.Code)
				}
				return
			}
			if resp.Code != http.StatusOK || resp.Body.String() != "java" {
				t.Fatalf("expected stored bytes, got %d %q", resp.Code, resp.Body.String())
			}
			if got := resp.Header().Get("Content-Type"); got != PDFContentType {
				t.Fatalf("unexpected content type %q", got)
			}
		})
	}
}

func TestPresignUnsupportedOnLocalStore(t *testing.T) {
	router, _ := newTestRouter(t, false)

	req := httptest.NewRequest(http.MethodPost, "/uploads/presign", strings.NewReader(`{"fileName":"resume.pdf","contentType":"application/pdf","sizeBytes":10}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestFromStorageRejectsForeignKey(t *testing.T) {
	router, _ := newTestRouter(t, false)

	req := httptest.NewRequest(http.MethodPost, "/resumes/from-storage", strings.NewReader(`{"storageKey":"secure_resumes/someone-else/x_resume.pdf","fileName":"resume.pdf","contentType":"application/pdf"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestListResumes(t *testing.T) {
	router, _ := newTestRouter(t, false)

	for _, name := range []string{"a.pdf", "b.pdf"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, multipartUpload(t, name, PDFContentType, "css"))
		if resp.Code != http.StatusOK {
			t.Fatalf("upload %s: %d", name, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/resumes", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if n := strings.Count(resp.Body.String(), `"fileName"`); n != 2 {
		t.Fatalf("expected 2 resumes, got %d in %s", n, resp.Body.String())
	}
}
