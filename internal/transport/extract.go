package transport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// conflictPhrase marks the backend's duplicate-username detail, which is shown verbatim.
const conflictPhrase = "already taken"

// parsedBody is the result of the JSON parse step. ok is false when the text was not JSON.
type parsedBody struct {
	value any
	ok    bool
}

func parseBody(raw []byte) parsedBody {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return parsedBody{}
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return parsedBody{}
	}
	return parsedBody{value: v, ok: true}
}

// StatusText returns the reason phrase of resp, falling back to the standard text.
func StatusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// ExtractError builds the *HTTPError for a failed response. It reads resp.Body but does
// not close it. Resolution order: 409 "already taken" detail verbatim, detail, message,
// non-string detail, then "{status}: {body or status text}".
func ExtractError(resp *http.Response) *HTTPError {
	status := resp.StatusCode
	statusText := StatusText(resp)

	var raw []byte
	readOK := true
	if resp.Body != nil {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			readOK = false
		} else {
			raw = data
		}
	}

	parsed := parsedBody{}
	if readOK {
		parsed = parseBody(raw)
	}

	he := &HTTPError{Status: status}
	if parsed.ok {
		he.Diagnostic = prettyJSON(parsed.value)
	} else {
		he.Diagnostic = prettyJSON(map[string]any{"status": status, "statusText": statusText})
	}

	if obj, isObj := parsed.value.(map[string]any); parsed.ok && isObj {
		if msg, found := messageFrom(obj, status); found {
			he.Message = msg
			he.Structured = true
			return he
		}
	}

	fallback := statusText
	if readOK {
		if body := strings.TrimSpace(string(raw)); body != "" {
			fallback = body
		}
	}
	he.Message = fmt.Sprintf("%d: %s", status, fallback)
	return he
}

func messageFrom(obj map[string]any, status int) (string, bool) {
	detail, hasDetail := obj["detail"]
	if hasDetail {
		if s, ok := detail.(string); ok && status == http.StatusConflict &&
			strings.Contains(strings.ToLower(s), conflictPhrase) {
			return s, true
		}
	}
	if s, ok := detail.(string); ok && strings.TrimSpace(s) != "" {
		return s, true
	}
	if s, ok := obj["message"].(string); ok && strings.TrimSpace(s) != "" {
		return s, true
	}
	if hasDetail && detail != nil {
		if _, isString := detail.(string); !isString {
			if b, err := json.Marshal(detail); err == nil {
				return string(b), true
			}
		}
	}
	return "", false
}

func prettyJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
