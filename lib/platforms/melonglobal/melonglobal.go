// Package melonglobal fetches the ended-product listing of
// tkglobal.melon.com, the international storefront. Same WAF dance as
// the domestic site, but the listing endpoint is paginated and keyed
// by language.
package melonglobal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http/cookiejar"
	"strconv"
	"time"

	"ticketsnap-backend/lib/catalog"
	"ticketsnap-backend/lib/restyutil"
	"ticketsnap-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("platforms/melonglobal")
var dumpOutput restyutil.DumpOutput

func SetRestyDumpOutput(out restyutil.DumpOutput) {
	dumpOutput = out
}

const (
	baseUrl   = "https://tkglobal.melon.com"
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/138.0.0.0 Safari/537.36"
)

var navHeaders = map[string]string{
	"Accept": "text/html,application/xhtml+xml,application/xml;q=0.9," +
		"image/avif,image/webp,image/apng,*/*;q=0.8," +
		"application/signed-exchange;v=b3;q=0.7",
	"Accept-Language":           "en-US,en;q=0.9",
	"Upgrade-Insecure-Requests": "1",
	"Sec-Fetch-Site":            "none",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-User":            "?1",
}

var xhrHeaders = map[string]string{
	"Accept":           "application/json, text/javascript, */*; q=0.01",
	"Accept-Language":  "en-US,en;q=0.9",
	"X-Requested-With": "XMLHttpRequest",
	"Sec-Fetch-Site":   "same-origin",
	"Sec-Fetch-Mode":   "cors",
	"Sec-Fetch-Dest":   "empty",
	"Origin":           baseUrl,
}

type ClientOptions struct {
	// Language is one of EN, JP, CN. Defaults to EN.
	Language string
	Proxy    string
	Timeout  time.Duration
}

type Client struct {
	http *resty.Client
	lang string
}

func NewClient(opts ClientOptions) (*Client, error) {
	lang := opts.Language
	if lang == "" {
		lang = "EN"
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", userAgent)

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 30
	}
	client.SetTimeout(timeout)
	if opts.Proxy != "" {
		client.SetProxy(opts.Proxy)
	}

	telemetry.InstrumentResty(client, "platforms/melonglobal/http")
	restyutil.AttachDumps(client, dumpOutput)

	return &Client{http: client, lang: lang}, nil
}

func (c *Client) indexPath() string {
	return fmt.Sprintf("/main/index.htm?langCd=%s", c.lang)
}

func (c *Client) WarmUp(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:WarmUp")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetHeaders(navHeaders).
		Get(c.indexPath())
	if err != nil {
		span.SetStatus(codes.Error, "failed to load index page")
		return err
	}
	if res.IsError() {
		err := fmt.Errorf("warm up request returned status %d", res.StatusCode())
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// FetchPage downloads one page of the ended-product list. Pages are
// 1-indexed.
func (c *Client) FetchPage(ctx context.Context, page, size int) (map[string]any, error) {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("client:FetchPage:%d", page))
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetHeaders(xhrHeaders).
		SetHeader("Referer", baseUrl+c.indexPath()).
		SetQueryParams(map[string]string{
			"langCd":    c.lang,
			"pageIndex": strconv.Itoa(page),
			"pgSize":    strconv.Itoa(size),
		}).
		Get("/main/ajax/endProdList.json")
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch product list")
		return nil, err
	}
	if res.IsError() {
		err := fmt.Errorf("product list request returned status %d", res.StatusCode())
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var payload map[string]any
	err = json.Unmarshal(res.Body(), &payload)
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse product list json")
		return nil, fmt.Errorf("parse product list: %w", err)
	}

	slog.DebugContext(ctx, "fetched page", "page", page, "bytes", len(res.Body()))
	return payload, nil
}

// SourceInfo describes one fetched page for the output document.
func (c *Client) SourceInfo(page, size int) catalog.SourceInfo {
	return catalog.SourceInfo{
		Platform: "melonglobal",
		Category: "ended",
		Name:     "Ended Products",
		Params: map[string]string{
			"langCd":    c.lang,
			"pageIndex": strconv.Itoa(page),
			"pgSize":    strconv.Itoa(size),
		},
	}
}
