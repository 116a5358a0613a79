package payments

import (
	"net/url"
	"strings"
)

// Field is one form field of a gateway request.
type Field struct {
	Key   string
	Value string
}

// Fields is an ordered form payload. The gateway hashes values in the order
// they were sent, so it is never a map.
type Fields []Field

// Set replaces the value of key in place, or appends it.
func (f *Fields) Set(key, value string) {
	for i := range *f {
		if (*f)[i].Key == key {
			(*f)[i].Value = value
			return
		}
	}
	*f = append(*f, Field{Key: key, Value: value})
}

func (f Fields) Get(key string) (string, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return "", false
}

// parseFields decodes a form body into ordered fields. The first value of a
// repeated key wins and pairs with an empty value are dropped.
func parseFields(body string) Fields {
	var fields Fields
	seen := make(map[string]bool)
	for _, pair := range strings.Split(body, "&") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || v == "" {
			continue
		}
		key, value := unescapeOrRaw(k), unescapeOrRaw(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		fields = append(fields, Field{Key: key, Value: value})
	}
	return fields
}

// unescapeOrRaw decodes a form component. Malformed escapes are kept as raw
// text while valid ones are still decoded, so the field takes part in the hash
// with the same value the gateway signed.
func unescapeOrRaw(s string) string {
	if decoded, err := url.QueryUnescape(s); err == nil {
		return decoded
	}
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '+':
			b = append(b, ' ')
		case s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b = append(b, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
		default:
			b = append(b, s[i])
		}
	}
	return string(b)
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	}
	return c - '0'
}

// Map flattens the fields into a lookup map.
func (f Fields) Map() map[string]string {
	m := make(map[string]string, len(f))
	for _, field := range f {
		m[field.Key] = field.Value
	}
	return m
}

// Encode renders the payload as a form body, keeping field order.
func (f Fields) Encode() string {
	var b []byte
	for i, field := range f {
		if i > 0 {
			b = append(b, '&')
		}
		b = append(b, url.QueryEscape(field.Key)...)
		b = append(b, '=')
		b = append(b, url.QueryEscape(field.Value)...)
	}
	return string(b)
}

const statusMessage = "Message"

func (c *Client) buildCommonPayload(p *Payment, conf Config) Fields {
	resultURL := conf.ResultURL
	if resultURL == "" {
		resultURL = c.resultURL
	}
	returnURL := conf.ReturnURL
	if returnURL == "" {
		returnURL = c.returnURL
	}

	fields := Fields{
		{"resulturl", resultURL},
		{"returnurl", returnURL},
		{"reference", p.MerchantReference},
		{"amount", p.Total().StringFixed(2)},
		{"id", conf.IntegrationID},
		{"additionalinfo", p.InfoString()},
		{"status", statusMessage},
	}

	if p.CustomerEmail != "" {
		fields = append(fields, Field{"authemail", p.CustomerEmail})
	}
	if p.CustomerPhone != "" {
		fields = append(fields, Field{"authphone", p.CustomerPhone})
	}
	if p.CustomerName != "" {
		fields = append(fields, Field{"authname", p.CustomerName})
	}
	if p.Tokenize {
		fields = append(fields, Field{"tokenize", "True"})
	}
	if p.MerchantTrace != "" {
		fields = append(fields, Field{"merchanttrace", p.MerchantTrace})
	}
	return fields
}
