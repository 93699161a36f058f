// Package platform maps submitted URLs to the closed set of supported
// download sources.
package platform

import (
	"net/url"
	"regexp"
	"strings"
)

type Platform string

const (
	TikTok       Platform = "tiktok"
	YouTube      Platform = "youtube"
	Instagram    Platform = "instagram"
	Twitter      Platform = "twitter"
	Facebook     Platform = "facebook"
	Unrecognized Platform = "unrecognized"
)

// domains is ordered, though entries are domain-disjoint so at most one
// can match a given host.
var domains = []struct {
	suffix string
	p      Platform
}{
	{"tiktok.com", TikTok},
	{"youtube.com", YouTube},
	{"youtu.be", YouTube},
	{"instagram.com", Instagram},
	{"twitter.com", Twitter},
	{"x.com", Twitter},
	{"facebook.com", Facebook},
	{"fb.com", Facebook},
}

// Classify returns the platform a URL belongs to, or Unrecognized. The
// host is matched against registered domains including any subdomain
// (vt.tiktok.com, m.youtube.com and the like).
func Classify(rawURL string) Platform {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return Unrecognized
	}

	host := strings.ToLower(u.Hostname())
	for _, d := range domains {
		if host == d.suffix || strings.HasSuffix(host, "."+d.suffix) {
			return d.p
		}
	}
	return Unrecognized
}

func (p Platform) Title() string {
	switch p {
	case TikTok:
		return "TikTok"
	case YouTube:
		return "YouTube"
	case Instagram:
		return "Instagram"
	case Twitter:
		return "Twitter"
	case Facebook:
		return "Facebook"
	default:
		return "Unrecognized"
	}
}

var urlPattern = regexp.MustCompile(`https?://[A-Za-z0-9$\-_@.&+!*(),/:;=?~#%]+`)

// ExtractURLs pulls HTTP(S) URLs out of free message text.
func ExtractURLs(text string) []string {
	var urls []string
	for _, candidate := range urlPattern.FindAllString(text, -1) {
		u, err := url.Parse(candidate)
		if err != nil || u.Scheme == "" || u.Host == "" {
			continue
		}
		urls = append(urls, candidate)
	}
	return urls
}
