package report

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	u "bpexport/internal/utils"
)

// PDFOptions controls the headless Chrome print.
type PDFOptions struct {
	ChromePath  string
	NoSandbox   bool
	Timeout     time.Duration
	PaperWidth  float64 // inches
	PaperHeight float64 // inches
	Margin      float64 // inches
}

// PDFOptionsFrom reads the pdf section of cfg. CHROME_BIN overrides an
// empty chrome_path.
func PDFOptionsFrom(cfg u.Config) PDFOptions {
	opts := PDFOptions{
		ChromePath:  cfg.PDF.ChromePath,
		NoSandbox:   cfg.PDF.ChromeNoSandbox,
		Timeout:     time.Duration(cfg.PDF.TimeoutSecs) * time.Second,
		PaperWidth:  cfg.PDF.PaperWidth,
		PaperHeight: cfg.PDF.PaperHeight,
		Margin:      cfg.PDF.Margin,
	}
	if opts.ChromePath == "" {
		opts.ChromePath = os.Getenv("CHROME_BIN")
	}
	return opts
}

func allocatorOptions(profileDir string, opts PDFOptions) []chromedp.ExecAllocatorOption {
	out := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserDataDir(profileDir),
		// Software rendering avoids Vulkan/ANGLE issues in minimal containers.
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-gpu-compositing", true),
		chromedp.Flag("disable-features", "Vulkan,UseSkiaRenderer"),
		chromedp.Flag("use-gl", "swiftshader"),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.ChromePath != "" {
		out = append(out, chromedp.ExecPath(opts.ChromePath))
	}
	if opts.NoSandbox {
		out = append(out, chromedp.Flag("no-sandbox", true))
	}
	return out
}

// RenderPDF prints an HTML document with a fresh headless Chrome instance.
func RenderPDF(ctx context.Context, doc []byte, opts PDFOptions) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "chromedata-*")
	if err != nil {
		return nil, fmt.Errorf("cannot create temp profile dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocatorOptions(tmpDir, opts)...)
	defer cancelAlloc()
	chromeCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	if opts.Timeout > 0 {
		chromeCtx, cancel = context.WithTimeout(chromeCtx, opts.Timeout)
		defer cancel()
	}

	var pdfBuf []byte
	err = chromedp.Run(chromeCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frame, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frame.Frame.ID, string(doc)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(opts.PaperWidth).
				WithPaperHeight(opts.PaperHeight).
				WithMarginTop(opts.Margin).
				WithMarginBottom(opts.Margin).
				WithMarginLeft(opts.Margin).
				WithMarginRight(opts.Margin).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}
