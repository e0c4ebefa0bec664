package service

import (
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(beer string) ([]byte, error)
}

// DefaultQRGenerator encodes a link that opens the page with beer searched.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Link(beer string) string {
	return strings.TrimRight(g.BaseURL, "/") + "/?q=" + url.QueryEscape(beer)
}

func (g DefaultQRGenerator) Generate(beer string) ([]byte, error) {
	return qrcode.Encode(g.Link(beer), qrcode.Medium, 256)
}
