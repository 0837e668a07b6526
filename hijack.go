package htmlpng

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

type HijackConfig struct {
	DomainWhitelist []string
	CustomHeaders   map[string]string
	Debug           bool

	// PermitFirstRequest is armed by a URL navigation so the whitelist can't
	// block the page itself. Documents set from HTML never arm it.
	PermitFirstRequest *atomic.Bool
}

// allowRequest reports whether requestURL may load. An armed permitFirst lets
// exactly one request through regardless of the whitelist.
func allowRequest(requestURL string, whitelist []string, permitFirst *atomic.Bool) bool {
	if permitFirst != nil && permitFirst.CompareAndSwap(true, false) {
		return true
	}
	return isDomainWhitelisted(requestURL, whitelist)
}

// setupRequestHijacking installs network debug logging and, when a whitelist
// or custom headers are configured, a request router. Returns nil when no
// router was needed.
func setupRequestHijacking(page *rod.Page, config *HijackConfig) *rod.HijackRouter {
	if config.Debug {
		var requestURLs sync.Map

		go page.EachEvent(func(e *proto.NetworkRequestWillBeSent) {
			requestURLs.Store(string(e.RequestID), e.Request.URL)
		})()

		go page.EachEvent(func(e *proto.NetworkResponseReceived) {
			response := e.Response
			statusColor := "\033[32m"
			if response.Status >= 400 {
				statusColor = "\033[31m"
			} else if response.Status >= 300 {
				statusColor = "\033[33m"
			}
			log.Printf("\033[36mResponse:\033[0m %s - Status: %s%d\033[0m - Size: %d bytes",
				response.URL, statusColor, response.Status, int64(response.EncodedDataLength))
		})()

		go page.EachEvent(func(e *proto.NetworkLoadingFailed) {
			url := "unknown URL"
			if val, exists := requestURLs.LoadAndDelete(string(e.RequestID)); exists {
				if urlStr, ok := val.(string); ok && urlStr != "" {
					url = urlStr
				}
			}
			log.Printf("\033[31mNetwork Error:\033[0m %s - %s", url, e.ErrorText)
		})()
	}

	if len(config.DomainWhitelist) == 0 && len(config.CustomHeaders) == 0 {
		return nil
	}

	if config.Debug && len(config.CustomHeaders) > 0 {
		headersJSON, _ := json.Marshal(config.CustomHeaders)
		log.Printf("\033[35mAdding custom headers:\033[0m %s", headersJSON)
	}

	router := page.HijackRequests()

	router.MustAdd("*", func(ctx *rod.Hijack) {
		requestURL := ctx.Request.URL().String()

		if config.Debug {
			log.Printf("\033[34mRequest:\033[0m %s", requestURL)
		}

		if !allowRequest(requestURL, config.DomainWhitelist, config.PermitFirstRequest) {
			if config.Debug {
				log.Printf("\033[31mBlocked:\033[0m %s", requestURL)
			}
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}

		if config.Debug {
			log.Printf("\033[32mAllowed:\033[0m %s", requestURL)
		}
		ctx.ContinueRequest(continueWithHeaders(ctx, config.CustomHeaders))
	})
	go router.Run()

	return router
}

// continueWithHeaders keeps the original request headers and appends the
// custom ones, which win on conflict
func continueWithHeaders(ctx *rod.Hijack, custom map[string]string) *proto.FetchContinueRequest {
	if len(custom) == 0 {
		return &proto.FetchContinueRequest{}
	}
	return &proto.FetchContinueRequest{Headers: mergeHeaders(ctx.Request.Req().Header, custom)}
}

// mergeHeaders matches header names case-insensitively, so a custom
// "user-agent" replaces the browser's User-Agent instead of doubling it
func mergeHeaders(original http.Header, custom map[string]string) []*proto.FetchHeaderEntry {
	overridden := make(map[string]bool, len(custom))
	for name := range custom {
		overridden[http.CanonicalHeaderKey(name)] = true
	}

	var headers []*proto.FetchHeaderEntry
	for name, values := range original {
		if overridden[http.CanonicalHeaderKey(name)] {
			continue
		}
		for _, value := range values {
			headers = append(headers, &proto.FetchHeaderEntry{Name: name, Value: value})
		}
	}
	for k, v := range custom {
		headers = append(headers, &proto.FetchHeaderEntry{Name: k, Value: v})
	}

	return headers
}
