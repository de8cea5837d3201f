// Package launch hands annotated segments to the host platform: it builds the URIs a
// segment can open (mailto:, tel:, https:, social deep links) and invokes copy, share
// and open capabilities, falling back from a native app scheme to the web when the
// native scheme is unavailable.
package launch

import (
	"net/url"
	"strings"

	"github.com/chriscorrea/textspan/internal/descriptor"
	"github.com/chriscorrea/textspan/internal/pattern"
	"github.com/chriscorrea/textspan/internal/segment"
)

// profileLinks holds the native and web URL formats for a platform; %s is the username.
type profileLinks struct {
	native string
	web    string
}

var profiles = map[descriptor.Platform]profileLinks{
	descriptor.Twitter:   {native: "twitter://user?screen_name=%s", web: "https://twitter.com/%s"},
	descriptor.Instagram: {native: "instagram://user?username=%s", web: "https://www.instagram.com/%s"},
	descriptor.Facebook:  {native: "fb://profile/%s", web: "https://www.facebook.com/%s"},
	descriptor.LinkedIn:  {native: "linkedin://in/%s", web: "https://www.linkedin.com/in/%s"},
	descriptor.GitHub:    {web: "https://github.com/%s"},
	descriptor.TikTok:    {web: "https://www.tiktok.com/@%s"},
	descriptor.YouTube:   {native: "youtube://www.youtube.com/@%s", web: "https://www.youtube.com/@%s"},
}

// ProfileURIs returns the candidate URIs for a social profile, native scheme first.
func ProfileURIs(platform descriptor.Platform, username string) []string {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	links, ok := profiles[platform]
	if !ok || username == "" {
		return nil
	}

	escaped := url.PathEscape(username)
	var uris []string
	if links.native != "" {
		uris = append(uris, strings.Replace(links.native, "%s", escaped, 1))
	}
	return append(uris, strings.Replace(links.web, "%s", escaped, 1))
}

// URIs returns the ordered candidate URIs for tapping seg. Literal segments and
// custom matches whose target is not a URL have none.
func URIs(seg segment.Segment) []string {
	if !seg.IsAnnotated() || seg.Descriptor == nil {
		return nil
	}

	target := strings.TrimSpace(seg.Target)
	if target == "" {
		return nil
	}

	switch seg.Descriptor.Category {
	case pattern.Email:
		return []string{"mailto:" + strings.TrimPrefix(target, "mailto:")}
	case pattern.Phone:
		if digits := dialable(target); digits != "" {
			return []string{"tel:" + digits}
		}
		return nil
	case pattern.URL:
		return []string{withScheme(target)}
	default:
		if u, err := url.Parse(target); err == nil && u.Scheme != "" && (u.Host != "" || u.Opaque != "") {
			return []string{target}
		}
		return nil
	}
}

// withScheme prefixes scheme-less links with https://.
func withScheme(link string) string {
	if strings.Contains(link, "://") {
		return link
	}
	return "https://" + link
}

// dialable keeps digits and a leading plus sign.
func dialable(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 || b.String() == "+" {
		return ""
	}
	return b.String()
}
