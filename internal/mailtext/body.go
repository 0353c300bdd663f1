package mailtext

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"

	"golang.org/x/net/html/charset"
)

// maxDepth bounds multipart nesting.
const maxDepth = 16

// BodyOnly returns the text/plain and text/html parts of a raw RFC 822
// message, decoded to UTF-8 and joined by blank lines. Parts with a
// Content-Disposition other than inline are attachments and are skipped.
// Invalid bytes in a part are replaced with U+FFFD.
func BodyOnly(raw string) (string, error) {
	msg, err := mail.ReadMessage(strings.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to parse message: %w", err)
	}

	var parts []string
	if err := walk(textproto.MIMEHeader(msg.Header), msg.Body, 0, &parts); err != nil {
		return "", err
	}
	return strings.Join(parts, "\n\n"), nil
}

func walk(header textproto.MIMEHeader, body io.Reader, depth int, out *[]string) error {
	if depth > maxDepth {
		return fmt.Errorf("multipart nesting deeper than %d", maxDepth)
	}

	mediaType, params := contentType(header)

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" {
			return fmt.Errorf("%s part without boundary", mediaType)
		}
		mr := multipart.NewReader(body, boundary)
		for {
			part, err := mr.NextRawPart()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to read %s part: %w", mediaType, err)
			}
			if err := walk(part.Header, part, depth+1, out); err != nil {
				return err
			}
		}
	}

	if mediaType != "text/plain" && mediaType != "text/html" {
		return nil
	}
	if isAttachment(header) {
		return nil
	}

	text, err := decodePart(header, params, body)
	if err != nil {
		return err
	}
	*out = append(*out, text)
	return nil
}

// contentType parses the Content-Type header. A missing or malformed
// header means text/plain, as RFC 2045 specifies.
func contentType(header textproto.MIMEHeader) (string, map[string]string) {
	value := header.Get("Content-Type")
	if value == "" {
		return "text/plain", map[string]string{}
	}
	mediaType, params, err := mime.ParseMediaType(value)
	if err != nil {
		return "text/plain", map[string]string{}
	}
	return strings.ToLower(mediaType), params
}

func isAttachment(header textproto.MIMEHeader) bool {
	value := strings.TrimSpace(header.Get("Content-Disposition"))
	if value == "" {
		return false
	}
	disposition, _, err := mime.ParseMediaType(value)
	if err != nil {
		// Unparseable, fall back on the leading token.
		disposition = strings.ToLower(strings.TrimSpace(strings.SplitN(value, ";", 2)[0]))
	}
	return disposition != "inline"
}

func decodePart(header textproto.MIMEHeader, params map[string]string, body io.Reader) (string, error) {
	var r io.Reader = body
	switch strings.ToLower(strings.TrimSpace(header.Get("Content-Transfer-Encoding"))) {
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, body)
	case "quoted-printable":
		r = quotedprintable.NewReader(body)
	}

	if label := params["charset"]; label != "" {
		decoded, err := charset.NewReaderLabel(label, r)
		if err == nil {
			r = decoded
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to decode part: %w", err)
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}
