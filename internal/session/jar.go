package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"golang.org/x/net/publicsuffix"
)

// CookiesKey is the session key holding the catalog cookies.
const CookiesKey = "pawfetch:cookies"

type savedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// KV is the storage a Jar persists into.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Jar is a cookie jar for one site whose cookies survive across processes.
type Jar struct {
	*cookiejar.Jar
	kv   KV
	site *url.URL
}

// NewJar creates a jar for site and restores any cookies saved in kv.
// Unreadable saved data is ignored.
func NewJar(ctx context.Context, kv KV, site *url.URL) (*Jar, error) {
	inner, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	j := &Jar{Jar: inner, kv: kv, site: site}

	raw, ok, err := kv.Get(ctx, CookiesKey)
	if err != nil {
		return nil, fmt.Errorf("load cookies: %w", err)
	}
	if !ok {
		return j, nil
	}
	var saved []savedCookie
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		return j, nil
	}
	cookies := make([]*http.Cookie, 0, len(saved))
	for _, c := range saved {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	inner.SetCookies(site, cookies)
	return j, nil
}

// Save writes the cookies the jar would send to the site into kv.
func (j *Jar) Save(ctx context.Context) error {
	cookies := j.Cookies(j.site)
	saved := make([]savedCookie, 0, len(cookies))
	for _, c := range cookies {
		saved = append(saved, savedCookie{Name: c.Name, Value: c.Value})
	}
	data, err := json.Marshal(saved)
	if err != nil {
		return err
	}
	return j.kv.Set(ctx, CookiesKey, string(data))
}
