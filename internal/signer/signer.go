// Package signer builds requests for the Youdao OpenAPI "v3" signature
// scheme: sha256(appKey + truncate(q) + salt + curtime + appSecret).
package signer

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"time"

	"github.com/valpere/seltran/internal"
)

const (
	SignType = "v3"

	truncateLimit = 20
	truncateKeep  = 10
)

// SignedRequest is the form body for one OpenAPI call.
type SignedRequest struct {
	Form      url.Values
	Signature string
	Salt      string
	Curtime   string
}

// Build signs text with the given credentials at instant now.
func Build(text, appKey, appSecret string, now time.Time) SignedRequest {
	salt := strconv.FormatInt(now.UnixMilli(), 10)
	curtime := strconv.FormatInt(now.Unix(), 10)
	sign := Sign(appKey, text, salt, curtime, appSecret)

	return SignedRequest{
		Form: url.Values{
			"q":        {text},
			"from":     {"auto"},
			"to":       {internal.TargetLang},
			"appKey":   {appKey},
			"salt":     {salt},
			"sign":     {sign},
			"signType": {SignType},
			"curtime":  {curtime},
		},
		Signature: sign,
		Salt:      salt,
		Curtime:   curtime,
	}
}

// Sign returns the lowercase hex SHA-256 of the v3 signing input.
func Sign(appKey, text, salt, curtime, appSecret string) string {
	sum := sha256.Sum256([]byte(appKey + Truncate(text) + salt + curtime + appSecret))
	return hex.EncodeToString(sum[:])
}

// Truncate returns text unchanged up to 20 runes; longer text becomes its
// first 10 runes, its rune length and its last 10 runes.
func Truncate(text string) string {
	runes := []rune(text)
	n := len(runes)
	if n <= truncateLimit {
		return text
	}
	return string(runes[:truncateKeep]) + strconv.Itoa(n) + string(runes[n-truncateKeep:])
}
