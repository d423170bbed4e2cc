package api

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/all"
)

// ImportBrowserCookies seeds the client's cookie jar with any still-valid
// cookies a local browser holds for the gateway host. The gateway keeps a
// server-side session cookie alongside header auth, so importing it lets
// gateusage piggyback on an existing web login.
func (c *Client) ImportBrowserCookies() (int, error) {
	baseURL, _, _ := c.session.snapshot()
	if baseURL == "" {
		return 0, ErrNoBaseURL
	}

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return 0, fmt.Errorf("api: invalid base address %q", baseURL)
	}

	found := kooky.ReadCookies(kooky.Valid, kooky.DomainHasSuffix(parsed.Hostname()))
	if len(found) == 0 {
		return 0, nil
	}

	cookies := make([]*http.Cookie, 0, len(found))
	for _, cookie := range found {
		httpCookie := cookie.Cookie
		cookies = append(cookies, &httpCookie)
	}
	c.httpc.Jar.SetCookies(parsed, cookies)
	return len(cookies), nil
}
