package paddle

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

var (
	// ErrSecretMissing means the signing secret is not configured. This
	// is a server configuration fault, not a client authentication one.
	ErrSecretMissing = errors.New("webhook signing secret is not configured")

	// ErrInvalidSignatureHeader covers a missing or malformed
	// Paddle-Signature header.
	ErrInvalidSignatureHeader = errors.New("missing or malformed signature header")

	// ErrSignatureMismatch means the digest did not match the payload.
	ErrSignatureMismatch = errors.New("webhook signature mismatch")
)

// VerifySignature checks a timestamped HMAC header against the exact raw
// request body. The header is semicolon-separated key=value pairs and
// must carry `ts` and `h1`; the expected digest is
// HMAC-SHA256(secret, "{ts}:{rawBody}") hex-encoded. Verification must
// happen before the body is parsed.
func VerifySignature(rawBody []byte, signatureHeader, secret string) error {
	if strings.TrimSpace(secret) == "" {
		return ErrSecretMissing
	}

	ts, h1, ok := parseSignatureHeader(signatureHeader)
	if !ok {
		return ErrInvalidSignatureHeader
	}

	receivedSig, err := hex.DecodeString(strings.ToLower(h1))
	if err != nil {
		return ErrSignatureMismatch
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte(":"))
	mac.Write(rawBody)

	// hmac.Equal is constant time; a length mismatch is non-equal
	// without inspecting content.
	if !hmac.Equal(mac.Sum(nil), receivedSig) {
		return ErrSignatureMismatch
	}
	return nil
}

func parseSignatureHeader(header string) (ts, h1 string, ok bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", "", false
	}

	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := strings.Index(part, "=")
		if idx <= 0 {
			continue
		}
		switch part[:idx] {
		case "ts":
			ts = part[idx+1:]
		case "h1":
			h1 = part[idx+1:]
		}
	}

	if ts == "" || h1 == "" {
		return "", "", false
	}
	return ts, h1, true
}
