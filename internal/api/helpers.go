package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/promptshelf/promptshelf-server/internal/errors"
	"github.com/promptshelf/promptshelf-server/internal/store"
)

// bearerSecurity marks an operation as requiring a session.
var bearerSecurity = []map[string][]string{{"bearer": {}}, {"cookie": {}}}

// IDInput identifies a resource by its numeric path id.
type IDInput struct {
	ID int64 `path:"id" minimum:"1" doc:"Resource ID"`
}

// MessageResponse is returned by deletes and other acknowledgements.
type MessageResponse struct {
	Message string `json:"message" doc:"Outcome description"`
}

// MessageOutput wraps a message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

func message(msg string) *MessageOutput {
	return &MessageOutput{Body: MessageResponse{Message: msg}}
}

// optionalID turns an unset (zero) query id into nil.
func optionalID(v int64) *int64 {
	if v <= 0 {
		return nil
	}
	return &v
}

// optionalBool parses a boolean query flag. Unset is nil; anything other
// than "true" or "1" means false.
func optionalBool(v string) *bool {
	if v == "" {
		return nil
	}
	b := v == "true" || v == "1"
	return &b
}

// parseParentFilter reads the parent_id query: empty for any prompt,
// "null" for top-level prompts, or a numeric parent id.
func parseParentFilter(v string) (store.ParentFilter, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		return store.ParentFilter{Mode: store.ParentAny}, nil
	case "null":
		return store.ParentFilter{Mode: store.ParentNone}, nil
	}

	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return store.ParentFilter{}, domainerrors.BadRequestf("invalid parent_id %q", v)
	}
	return store.ParentFilter{Mode: store.ParentEquals, ID: id}, nil
}

// parseFormID parses an optional numeric multipart field.
func parseFormID(name, v string) (*int64, error) {
	v = strings.TrimSpace(v)
	if v == "" || v == "null" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return nil, domainerrors.BadRequestf("invalid %s %q", name, v)
	}
	return &id, nil
}

// nonNil keeps empty lists serialized as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// IDSet is an association list in an update body. Present is false only when
// the field is omitted; an explicit null is present and empty.
type IDSet struct {
	IDs     []int64
	Present bool
}

// UnmarshalJSON is also called for a JSON null.
func (s *IDSet) UnmarshalJSON(b []byte) error {
	s.Present = true
	s.IDs = []int64{}
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	return json.Unmarshal(b, &s.IDs)
}

// Schema describes IDSet as a nullable array of ids.
func (IDSet) Schema(huma.Registry) *huma.Schema {
	return &huma.Schema{
		Type:     huma.TypeArray,
		Nullable: true,
		Items:    &huma.Schema{Type: huma.TypeInteger, Format: "int64"},
	}
}

// replacement returns nil when the set should be left as stored.
func (s IDSet) replacement() *[]int64 {
	if !s.Present {
		return nil
	}
	ids := s.IDs
	if ids == nil {
		ids = []int64{}
	}
	return &ids
}
