package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/fastbite/fastbite/internal/client/config"
)

const (
	headerProject  = "X-Appwrite-Project"
	headerPlatform = "X-Appwrite-Platform"
	headerKey      = "X-Appwrite-Key"
	headerFormat   = "X-Appwrite-Response-Format"

	responseFormat = "1.6.0"
)

// HTTPClient is the production Client implementation. A cookie jar holds the
// platform's session cookie, so one HTTPClient represents one device context.
type HTTPClient struct {
	cfg        *config.Config
	httpClient *http.Client
	baseURL    *url.URL
}

var _ Client = (*HTTPClient)(nil)

// New builds an HTTPClient from the given configuration. The endpoint must be
// an absolute URL; cfg is expected to have passed config validation already.
func New(cfg *config.Config) (*HTTPClient, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.Endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("backend: invalid endpoint %q: %w", cfg.Endpoint, err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("backend: endpoint %q is not absolute", cfg.Endpoint)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("backend: cookie jar: %w", err)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &HTTPClient{
		cfg:     cfg,
		baseURL: base,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

// --- accounts and sessions ---

func (c *HTTPClient) CreateAccount(ctx context.Context, userID, email, password, name string) (*Account, error) {
	body := map[string]any{"userId": userID, "email": email, "password": password, "name": name}
	var acc Account
	if err := c.do(ctx, http.MethodPost, "/account", nil, body, &acc); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return &acc, nil
}

func (c *HTTPClient) CreateEmailSession(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]any{"email": email, "password": password}
	var s Session
	if err := c.do(ctx, http.MethodPost, "/account/sessions/email", nil, body, &s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &s, nil
}

func (c *HTTPClient) CurrentSession(ctx context.Context) (*Session, error) {
	var s Session
	if err := c.do(ctx, http.MethodGet, "/account/sessions/current", nil, nil, &s); err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

func (c *HTTPClient) DeleteCurrentSession(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/account/sessions/current", nil, nil, nil); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (c *HTTPClient) CurrentAccount(ctx context.Context) (*Account, error) {
	var acc Account
	if err := c.do(ctx, http.MethodGet, "/account", nil, nil, &acc); err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &acc, nil
}

// --- document database ---

func (c *HTTPClient) collectionPath(collectionID string) string {
	return fmt.Sprintf("/databases/%s/collections/%s/documents",
		url.PathEscape(c.cfg.DatabaseID), url.PathEscape(collectionID))
}

func (c *HTTPClient) CreateDocument(ctx context.Context, collectionID, documentID string, data map[string]any) (*Document, error) {
	body := map[string]any{"documentId": documentID, "data": data}
	var doc Document
	if err := c.do(ctx, http.MethodPost, c.collectionPath(collectionID), nil, body, &doc); err != nil {
		return nil, fmt.Errorf("create document in %s: %w", collectionID, err)
	}
	return &doc, nil
}

func (c *HTTPClient) ListDocuments(ctx context.Context, collectionID string, queries ...Query) (*DocumentList, error) {
	params := url.Values{}
	for _, q := range queries {
		params.Add("queries[]", q.String())
	}
	var list DocumentList
	if err := c.do(ctx, http.MethodGet, c.collectionPath(collectionID), params, nil, &list); err != nil {
		return nil, fmt.Errorf("list documents in %s: %w", collectionID, err)
	}
	return &list, nil
}

func (c *HTTPClient) UpdateDocument(ctx context.Context, collectionID, documentID string, data map[string]any) (*Document, error) {
	path := c.collectionPath(collectionID) + "/" + url.PathEscape(documentID)
	body := map[string]any{"data": data}
	var doc Document
	if err := c.do(ctx, http.MethodPatch, path, nil, body, &doc); err != nil {
		return nil, fmt.Errorf("update document %s in %s: %w", documentID, collectionID, err)
	}
	return &doc, nil
}

func (c *HTTPClient) DeleteDocument(ctx context.Context, collectionID, documentID string) error {
	path := c.collectionPath(collectionID) + "/" + url.PathEscape(documentID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("delete document %s in %s: %w", documentID, collectionID, err)
	}
	return nil
}

// --- file storage ---

func (c *HTTPClient) bucketPath() string {
	return fmt.Sprintf("/storage/buckets/%s/files", url.PathEscape(c.cfg.BucketID))
}

func (c *HTTPClient) UploadFile(ctx context.Context, fileID, name, mime string, r io.Reader) (*File, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("fileId", fileID); err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}
	part, err := createFormFile(w, "file", name, mime)
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.bucketPath(), nil, &buf)
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var f File
	if err := c.roundTrip(req, &f); err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}
	return &f, nil
}

func (c *HTTPClient) ListFiles(ctx context.Context) (*FileList, error) {
	var list FileList
	if err := c.do(ctx, http.MethodGet, c.bucketPath(), nil, nil, &list); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return &list, nil
}

func (c *HTTPClient) DeleteFile(ctx context.Context, fileID string) error {
	path := c.bucketPath() + "/" + url.PathEscape(fileID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("delete file %s: %w", fileID, err)
	}
	return nil
}

// FileViewURL builds the public view URL for a stored file. Pure string
// construction, no network call.
func (c *HTTPClient) FileViewURL(fileID string) string {
	return fmt.Sprintf("%s%s/%s/view?project=%s",
		c.baseURL.String(), c.bucketPath(), url.PathEscape(fileID), url.QueryEscape(c.cfg.ProjectID))
}

// InitialsAvatarURL builds the URL of the platform-generated initials avatar
// for the given display name.
func (c *HTTPClient) InitialsAvatarURL(name string) string {
	params := url.Values{}
	params.Set("name", name)
	params.Set("project", c.cfg.ProjectID)
	return c.baseURL.String() + "/avatars/initials?" + params.Encode()
}

// --- plumbing ---

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, params url.Values, body io.Reader) (*http.Request, error) {
	// path arrives with its segments already escaped, so the URL is
	// assembled as a string to keep them intact.
	u := c.baseURL.String() + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerProject, c.cfg.ProjectID)
	req.Header.Set(headerFormat, responseFormat)
	if c.cfg.Platform != "" {
		req.Header.Set(headerPlatform, c.cfg.Platform)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set(headerKey, c.cfg.APIKey)
	}
	return req, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, body any, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, path, params, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.roundTrip(req, out)
}

func (c *HTTPClient) roundTrip(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, b)
	}
	if out != nil && len(b) > 0 {
		if err := json.Unmarshal(b, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// decodeError turns an error response into a *PlatformError, falling back to
// the raw status when the body is not the platform's JSON error shape.
func decodeError(status int, body []byte) error {
	pe := &PlatformError{}
	if err := json.Unmarshal(body, pe); err == nil && pe.Message != "" {
		if pe.Code == 0 {
			pe.Code = status
		}
		return pe
	}
	return &PlatformError{Code: status, Message: http.StatusText(status)}
}

// createFormFile is multipart.Writer.CreateFormFile with an explicit
// Content-Type instead of application/octet-stream.
func createFormFile(w *multipart.Writer, fieldname, filename, mime string) (io.Writer, error) {
	if mime == "" {
		mime = "application/octet-stream"
	}
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldname, filename))
	h.Set("Content-Type", mime)
	return w.CreatePart(h)
}
