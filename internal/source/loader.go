// Package source loads note markup from files, HTTP(S) URLs, data URLs and
// readers, and reduces it to a body fragment.
package source

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gompdf/notepager/pkg/errors"
)

// Kind is the markup flavour of a loaded note
type Kind int

const (
	// KindHTML is an HTML fragment or document
	KindHTML Kind = iota
	// KindText is plain text; blank lines separate paragraphs
	KindText
)

// Note is a loaded note
type Note struct {
	URL      string
	Kind     Kind
	MimeType string
	// Title is the <title> of a full HTML document, if any.
	Title string
	// Markup is the body fragment ready for pagination.
	Markup string
}

// Loader loads notes and caches them by reference
type Loader struct {
	// BaseURL is a directory or URL that relative references resolve against.
	BaseURL string

	cache     map[string]*Note
	cacheLock sync.RWMutex

	client *http.Client
}

// NewLoader creates a new note loader
func NewLoader(baseURL string) *Loader {
	return &Loader{
		BaseURL: baseURL,
		cache:   make(map[string]*Note),
		client:  &http.Client{},
	}
}

// SetHTTPClient replaces the client used for remote notes
func (l *Loader) SetHTTPClient(c *http.Client) {
	l.client = c
}

// Load loads a note from a file path, an http(s) URL or a data URL.
func (l *Loader) Load(ctx context.Context, ref string) (*Note, error) {
	l.cacheLock.RLock()
	if n, ok := l.cache[ref]; ok {
		l.cacheLock.RUnlock()
		return n, nil
	}
	l.cacheLock.RUnlock()

	var (
		data     []byte
		mimeType string
		resolved string
		err      error
	)
	switch {
	case strings.HasPrefix(ref, "data:"):
		resolved = ref
		data, mimeType, err = parseDataURL(ref)
	default:
		resolved, err = l.resolveURL(ref)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "resolving %s", ref)
		}
		if isRemote(resolved) {
			data, mimeType, err = l.loadRemote(ctx, resolved)
		} else {
			data, err = os.ReadFile(resolved)
			mimeType = mimeTypeByExt(resolved)
		}
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "loading %s", ref)
	}

	n, err := newNote(resolved, mimeType, data)
	if err != nil {
		return nil, err
	}

	l.cacheLock.Lock()
	l.cache[ref] = n
	l.cacheLock.Unlock()
	return n, nil
}

// Read loads a note from r. name only selects the markup kind by extension;
// "" or "-" means HTML.
func Read(r io.Reader, name string) (*Note, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading note")
	}
	mimeType := "text/html"
	if name != "" && name != "-" {
		mimeType = mimeTypeByExt(name)
	}
	return newNote(name, mimeType, data)
}

func isRemote(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

// resolveURL resolves a reference relative to the base URL
func (l *Loader) resolveURL(ref string) (string, error) {
	if isRemote(ref) || filepath.IsAbs(ref) || l.BaseURL == "" {
		return ref, nil
	}

	if !isRemote(l.BaseURL) {
		return filepath.Join(l.BaseURL, ref), nil
	}

	base, err := url.Parse(l.BaseURL)
	if err != nil {
		return "", err
	}
	rel, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(rel).String(), nil
}

// loadRemote fetches a note over HTTP
func (l *Loader) loadRemote(ctx context.Context, u string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("HTTP error: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = mimeTypeByExt(u)
	}
	return data, mimeType, nil
}

// parseDataURL decodes an RFC 2397 data URL such as
// data:text/html;base64,PHA+aGk8L3A+ or data:text/plain,Hello%20World
func parseDataURL(u string) ([]byte, string, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(u, "data:"), ",")
	if !ok {
		return nil, "", fmt.Errorf("invalid data URL")
	}

	mimeType := "text/plain"
	isBase64 := false
	comps := strings.Split(meta, ";")
	if comps[0] != "" {
		mimeType = comps[0]
	}
	for _, c := range comps[1:] {
		if strings.EqualFold(strings.TrimSpace(c), "base64") {
			isBase64 = true
		}
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("invalid base64 data URL: %w", err)
		}
		return data, mimeType, nil
	}
	if d, err := url.PathUnescape(payload); err == nil {
		return []byte(d), mimeType, nil
	}
	return []byte(payload), mimeType, nil
}

// mimeTypeByExt maps note file extensions to MIME types
func mimeTypeByExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return "text/html"
	case ".txt", ".text":
		return "text/plain"
	case "":
		return "text/html"
	default:
		return "application/octet-stream"
	}
}

func newNote(ref, mimeType string, data []byte) (*Note, error) {
	media, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		media = strings.ToLower(strings.TrimSpace(mimeType))
	}

	n := &Note{URL: ref, MimeType: media}
	switch media {
	case "text/html", "application/xhtml+xml":
		n.Kind = KindHTML
		n.Title, n.Markup, err = bodyFragment(data)
		if err != nil {
			return nil, err
		}
	case "text/plain":
		n.Kind = KindText
		n.Markup = textToHTML(string(data))
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported note type %q for %s", media, ref)
	}
	return n, nil
}

// bodyFragment returns the title and body content of a full document.
// Fragments are returned unchanged with no title.
func bodyFragment(data []byte) (string, string, error) {
	if !looksLikeDocument(data) {
		return "", string(data), nil
	}

	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", "", errors.Wrap(errors.ErrCodeParse, err, "parsing note document")
	}

	var title string
	var body *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Title:
				if title == "" && n.FirstChild != nil {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
			case atom.Body:
				body = n
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if body == nil {
		return title, "", nil
	}
	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", "", errors.Wrap(errors.ErrCodeParse, err, "serializing note body")
		}
	}
	return title, strings.TrimSpace(buf.String()), nil
}

func looksLikeDocument(data []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(data))
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.HasPrefix(head, []byte("<!doctype")) ||
		bytes.HasPrefix(head, []byte("<html")) ||
		bytes.Contains(head, []byte("<body"))
}

// textToHTML wraps each blank-line separated paragraph of s in <p>, escaped.
// Single line breaks inside a paragraph become <br>.
func textToHTML(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var sb strings.Builder
	for _, para := range strings.Split(s, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		lines := strings.Split(para, "\n")
		for i, l := range lines {
			lines[i] = html.EscapeString(strings.TrimSpace(l))
		}
		sb.WriteString("<p>")
		sb.WriteString(strings.Join(lines, "<br>"))
		sb.WriteString("</p>\n")
	}
	return sb.String()
}
