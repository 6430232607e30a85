package apierror

import "strings"

// defaultName is used when the upstream payload carries no error identifier.
const defaultName = "api_error"

// defaultDetail is used when no message can be extracted from the payload.
const defaultDetail = "An error occurred"

// Classified is the uniform shape every upstream error body is reduced to.
type Classified struct {
	Name   string `json:"name"`
	Detail string `json:"detail"`
}

// payloadKind tags the decoded shape of an upstream error body. The API has
// no fixed error schema; the body is decoded once here and never re-examined.
type payloadKind int

const (
	payloadUnknown    payloadKind = iota // string, nil, array, number
	payloadBareObject                    // object with no usable fields
	payloadMessage                       // object with a message field
	payloadErrorsList                    // object with a non-empty errors list
)

type payloadEntry struct {
	key     string
	message string
}

type payload struct {
	kind    payloadKind
	name    string // from the "error" field, any object shape
	message string
	entries []payloadEntry
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

// decodePayload reduces a decoded JSON error body to its tagged variant.
func decodePayload(raw any) payload {
	obj, ok := raw.(map[string]any)
	if !ok {
		return payload{kind: payloadUnknown}
	}

	p := payload{kind: payloadBareObject, name: stringField(obj, "error")}

	if msg := stringField(obj, "message"); msg != "" {
		p.kind = payloadMessage
		p.message = msg
		return p
	}

	if list, ok := obj["errors"].([]any); ok && len(list) > 0 {
		for _, item := range list {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			p.entries = append(p.entries, payloadEntry{
				key:     stringField(entry, "key"),
				message: stringField(entry, "message"),
			})
		}
		if len(p.entries) > 0 {
			p.kind = payloadErrorsList
		}
	}

	return p
}

// Classify reduces an untyped ChartMogul error body to a Classified record.
// The detail always passes through SanitizeMessage; classification never
// bypasses redaction.
func Classify(raw any) Classified {
	p := decodePayload(raw)

	name := p.name
	if name == "" {
		name = defaultName
	}

	detail := defaultDetail
	switch p.kind {
	case payloadMessage:
		detail = p.message
	case payloadErrorsList:
		var parts []string
		for _, entry := range p.entries {
			switch {
			case entry.message != "":
				parts = append(parts, entry.message)
			case entry.key != "":
				parts = append(parts, entry.key)
			}
		}
		if len(parts) > 0 {
			detail = strings.Join(parts, "; ")
		}
	case payloadUnknown:
		return Classified{Name: defaultName, Detail: defaultDetail}
	}

	return Classified{Name: name, Detail: SanitizeMessage(detail)}
}
