package published

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"creator-dashboard/models"
	"creator-dashboard/utils"
)

// extractTableJS reads the grid of a "Publish to the web" sheet. The grid is a
// table.waffle whose tbody rows start with a row-number <th> followed by
// one <td> per column.
const extractTableJS = `
	(function() {
		var table = document.querySelector('table.waffle') || document.querySelector('table');
		if (!table) return [];
		var rows = table.querySelectorAll('tbody tr');
		var out = [];
		for (var i = 0; i < rows.length; i++) {
			var cells = rows[i].querySelectorAll('td');
			var values = [];
			for (var j = 0; j < cells.length; j++) {
				values.push((cells[j].innerText || '').trim());
			}
			while (values.length > 0 && values[values.length - 1] === '') values.pop();
			out.push(values);
		}
		while (out.length > 0 && out[out.length - 1].length === 0) out.pop();
		return out;
	})()
`

// Source reads a sheet published as HTML with a headless browser. It needs no
// API credentials, only the public pubhtml link.
type Source struct {
	url       string
	chromeBin string
	timeout   time.Duration
	retry     *utils.RetryConfig
	logger    *utils.Logger
}

// New creates a published-sheet Source.
func New(url, chromeBin string, retry *utils.RetryConfig, logger *utils.Logger) *Source {
	return &Source{
		url:       url,
		chromeBin: chromeBin,
		timeout:   90 * time.Second,
		retry:     retry,
		logger:    logger,
	}
}

func (s *Source) Name() string { return "published:" + s.url }

// Fetch loads the page and extracts every grid row.
func (s *Source) Fetch(ctx context.Context) (*models.RawTable, error) {
	chromeBin := findChromeBinary(s.chromeBin)
	s.logger.Debug("[published] Using browser binary: %q", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	var values [][]string
	err := s.retry.Do(ctx, "published-sheet", func(context.Context) error {
		tabCtx, cancel := chromedp.NewContext(browserCtx)
		defer cancel()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, s.timeout)
		defer cancelTimeout()

		var rows [][]string
		if err := chromedp.Run(tabCtx,
			chromedp.Navigate(s.url),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.Evaluate(extractTableJS, &rows),
		); err != nil {
			return fmt.Errorf("chromedp extract: %w", err)
		}
		if len(rows) == 0 {
			return fmt.Errorf("no table rows found at %s", s.url)
		}
		values = rows
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("[published] Extracted %d rows", len(values))
	return &models.RawTable{Values: values}, nil
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
