// Package pdf renders structured document content to PDF bytes by
// executing an embedded HTML template and printing it in a headless
// browser.
package pdf

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/drewhammond/folio-api/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// Resume template styles.
const (
	StyleModern  = "modern"
	StyleClassic = "classic"

	coverLetterTemplate = "cover_letter"
	defaultAccentColor  = "#2563eb"
	printTimeout        = 60 * time.Second
)

// Letter paper, 0.5in margins on all sides.
const (
	paperWidthIn  = 8.5
	paperHeightIn = 11.0
	marginIn      = 0.5
)

// printFunc prints an HTML document to PDF bytes. It exists so tests can
// substitute the browser.
type printFunc func(ctx context.Context, html string) ([]byte, error)

// Renderer compiles document content to HTML and prints it to PDF. Safe
// for concurrent use; parsed templates are cached per style.
type Renderer struct {
	mu        sync.Mutex
	templates map[string]*template.Template
	print     printFunc
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPrintFunc replaces the headless-browser print step.
func WithPrintFunc(fn printFunc) Option {
	return func(r *Renderer) {
		r.print = fn
	}
}

// NewRenderer creates a renderer that prints via a headless Chrome
// instance launched per call.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		print:     printWithBrowser,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// resumeData is the payload for resume templates.
type resumeData struct {
	Resume      *types.ResumeContent
	AccentColor string
}

// coverLetterData is the payload for the cover letter template.
type coverLetterData struct {
	Letter      *types.CoverLetterContent
	Name        string
	Email       string
	Date        string
	AccentColor string
}

// RenderResume renders resume content to PDF bytes using the named
// style. Unknown or empty styles fall back to the modern template.
func (r *Renderer) RenderResume(ctx context.Context, resume *types.ResumeContent, style, accentColor string) ([]byte, error) {
	if resume == nil {
		return nil, &RenderError{Message: "resume content is nil"}
	}

	tmpl, err := r.template(normalizeStyle(style))
	if err != nil {
		return nil, err
	}

	html, err := execute(tmpl, resumeData{
		Resume:      resume,
		AccentColor: orDefault(accentColor, defaultAccentColor),
	})
	if err != nil {
		return nil, err
	}

	return r.print(ctx, html)
}

// RenderCoverLetter renders cover letter content to PDF bytes.
func (r *Renderer) RenderCoverLetter(ctx context.Context, letter *types.CoverLetterContent, name, email, accentColor string) ([]byte, error) {
	if letter == nil {
		return nil, &RenderError{Message: "cover letter content is nil"}
	}

	tmpl, err := r.template(coverLetterTemplate)
	if err != nil {
		return nil, err
	}

	html, err := execute(tmpl, coverLetterData{
		Letter:      letter,
		Name:        name,
		Email:       email,
		Date:        time.Now().Format("January 2, 2006"),
		AccentColor: orDefault(accentColor, defaultAccentColor),
	})
	if err != nil {
		return nil, err
	}

	return r.print(ctx, html)
}

func normalizeStyle(style string) string {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case StyleClassic:
		return StyleClassic
	default:
		return StyleModern
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// template returns the parsed template for a name, parsing and caching
// it on first use.
func (r *Renderer) template(name string) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tmpl, ok := r.templates[name]; ok {
		return tmpl, nil
	}

	tmpl, err := template.ParseFS(templateFS, "templates/"+name+".html")
	if err != nil {
		return nil, &TemplateError{
			Message: fmt.Sprintf("failed to parse template %s", name),
			Cause:   err,
		}
	}
	r.templates[name] = tmpl
	return tmpl, nil
}

func execute(tmpl *template.Template, data any) (string, error) {
	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}
	return out.String(), nil
}

// launchFunc provisions a browser context. The returned cancel tears
// the browser process down and must run on every exit path.
type launchFunc func(ctx context.Context) (context.Context, context.CancelFunc)

// printPageFunc drives the provisioned browser to print one HTML file.
type printPageFunc func(ctx context.Context, htmlPath string) ([]byte, error)

// printWithBrowser launches a headless browser, loads the HTML from a
// temporary file, and prints it to PDF.
func printWithBrowser(ctx context.Context, html string) ([]byte, error) {
	return printDocument(ctx, html, launchBrowser, printPage)
}

// printDocument holds the resource-lifetime contract: the browser
// obtained from launch is closed before this function returns, whether
// printing succeeded or failed.
func printDocument(ctx context.Context, html string, launch launchFunc, print printPageFunc) ([]byte, error) {
	browserCtx, closeBrowser := launch(ctx)
	defer closeBrowser()

	tmpDir, err := os.MkdirTemp("", "folio-pdf-")
	if err != nil {
		return nil, &RenderError{Message: "failed to create temp directory", Cause: err}
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "document.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, &RenderError{Message: "failed to write document", Cause: err}
	}

	pdfBuf, err := print(browserCtx, htmlPath)
	if err != nil {
		return nil, &RenderError{Message: "headless print failed", Cause: err}
	}
	return pdfBuf, nil
}

// launchBrowser builds the exec allocator and browser contexts, bounded
// by the print timeout. CHROME_PATH selects a locally-installed binary.
func launchBrowser(ctx context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if p := os.Getenv("CHROME_PATH"); p != "" {
		opts = append(opts, chromedp.ExecPath(p))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, printTimeout)

	return browserCtx, func() {
		cancelTimeout()
		cancelBrowser()
		cancelAlloc()
	}
}

// printPage navigates to the document and emits a letter-sized PDF with
// half-inch margins and background graphics.
func printPage(ctx context.Context, htmlPath string) ([]byte, error) {
	var pdfBuf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var printErr error
			pdfBuf, _, printErr = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidthIn).
				WithPaperHeight(paperHeightIn).
				WithMarginTop(marginIn).
				WithMarginBottom(marginIn).
				WithMarginLeft(marginIn).
				WithMarginRight(marginIn).
				Do(ctx)
			return printErr
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}
