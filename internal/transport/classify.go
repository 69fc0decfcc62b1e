package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// OutcomeKind tags the variant held by an Outcome.
type OutcomeKind int

const (
	EmptySuccess OutcomeKind = iota
	JSONSuccess
	NonJSONSuccess
	StructuredError
	UnstructuredError
)

func (k OutcomeKind) String() string {
	switch k {
	case EmptySuccess:
		return "EmptySuccess"
	case JSONSuccess:
		return "JSONSuccess"
	case NonJSONSuccess:
		return "NonJSONSuccess"
	case StructuredError:
		return "StructuredError"
	case UnstructuredError:
		return "UnstructuredError"
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// Outcome is the classified result of one HTTP response.
//
//   - JSONSuccess: Payload holds the validated JSON body.
//   - NonJSONSuccess: Raw and ContentType hold the body as received.
//   - StructuredError / UnstructuredError: Err() returns the extracted *HTTPError.
//   - EmptySuccess: nothing; ParseErr is set when a malformed JSON body was dropped.
type Outcome struct {
	Kind        OutcomeKind
	Status      int
	Payload     json.RawMessage
	Raw         []byte
	ContentType string
	ParseErr    *ParseError

	err *HTTPError
}

// OK reports whether the outcome is one of the success kinds.
func (o Outcome) OK() bool {
	return o.Kind == EmptySuccess || o.Kind == JSONSuccess || o.Kind == NonJSONSuccess
}

// Err returns the extracted error for error kinds, nil otherwise.
func (o Outcome) Err() *HTTPError {
	if o.OK() {
		return nil
	}
	return o.err
}

// Decode unmarshals a JSONSuccess payload into v. It reports false for any other kind
// or when the payload does not fit v.
func (o Outcome) Decode(v any) bool {
	if o.Kind != JSONSuccess {
		return false
	}
	return json.Unmarshal(o.Payload, v) == nil
}

// Classify reads and closes resp.Body and returns exactly one Outcome. It never panics
// and never fails: unreadable or malformed bodies degrade to a defined variant.
func Classify(resp *http.Response) Outcome {
	if resp.Body != nil {
		defer resp.Body.Close()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		he := ExtractError(resp)
		kind := UnstructuredError
		if he.Structured {
			kind = StructuredError
		}
		return Outcome{Kind: kind, Status: resp.StatusCode, err: he}
	}

	if resp.StatusCode == http.StatusNoContent || resp.Header.Get("Content-Length") == "0" {
		return Outcome{Kind: EmptySuccess, Status: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	raw, readErr := readBody(resp)

	if strings.Contains(strings.ToLower(contentType), "application/json") {
		if readErr != nil {
			return Outcome{Kind: EmptySuccess, Status: resp.StatusCode,
				ParseErr: &ParseError{ContentType: contentType, Err: readErr}}
		}
		if !json.Valid(raw) {
			return Outcome{Kind: EmptySuccess, Status: resp.StatusCode,
				ParseErr: &ParseError{ContentType: contentType, Err: errInvalidJSON(raw)}}
		}
		return Outcome{Kind: JSONSuccess, Status: resp.StatusCode, Payload: json.RawMessage(raw), ContentType: contentType}
	}

	out := Outcome{Kind: NonJSONSuccess, Status: resp.StatusCode, Raw: raw, ContentType: contentType}
	if readErr != nil {
		out.ParseErr = &ParseError{ContentType: contentType, Err: readErr}
	}
	return out
}

func readBody(resp *http.Response) ([]byte, error) {
	if resp.Body == nil {
		return nil, nil
	}
	return io.ReadAll(resp.Body)
}

func errInvalidJSON(raw []byte) error {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return errors.New("empty body")
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return errors.New("invalid JSON")
}
