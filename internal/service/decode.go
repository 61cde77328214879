package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
	"github.com/yourusername/skillmatch-api/internal/model"
)

// skillsSchema is both the tool input schema sent to Claude and the schema
// every provider response is validated against before decoding.
const skillsSchema = `{
  "type": "object",
  "required": ["skills"],
  "properties": {
    "skills": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "confidence", "isExplicit"],
        "properties": {
          "name": {"type": "string", "minLength": 1, "maxLength": 100},
          "category": {"type": "string", "maxLength": 60},
          "confidence": {"type": "number", "minimum": 0, "maximum": 1},
          "isExplicit": {"type": "boolean"},
          "evidence": {"type": "string"},
          "proficiencyLevel": {"type": "string", "enum": ["", "beginner", "intermediate", "advanced", "expert"]}
        }
      }
    }
  }
}`

var skillsSchemaLoader = gojsonschema.NewStringLoader(skillsSchema)

// FieldError is a single decode problem at a JSON path
type FieldError struct {
	Field   string
	Message string
}

// DecodeError means a provider returned JSON that does not fit the skill schema.
// It is never retried.
type DecodeError struct {
	Errors []FieldError
}

func (e *DecodeError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid skill payload:")
	for i, fe := range e.Errors {
		sb.WriteString(fmt.Sprintf(" %d. %s: %s;", i+1, fe.Field, fe.Message))
	}
	return sb.String()
}

type skillsPayload struct {
	Skills []model.ExtractedSkill `json:"skills"`
}

// decodeSkills validates raw provider JSON against skillsSchema and decodes it
func decodeSkills(raw []byte) ([]model.ExtractedSkill, error) {
	raw = []byte(stripCodeFences(string(raw)))

	result, err := gojsonschema.Validate(skillsSchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, &DecodeError{Errors: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	if !result.Valid() {
		de := &DecodeError{Errors: make([]FieldError, 0, len(result.Errors()))}
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			de.Errors = append(de.Errors, FieldError{Field: field, Message: desc.Description()})
		}
		return nil, de
	}

	var payload skillsPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &DecodeError{Errors: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}

	for i := range payload.Skills {
		if err := model.ValidateStruct(&payload.Skills[i]); err != nil {
			return nil, validationDecodeError(i, err)
		}
	}
	if payload.Skills == nil {
		payload.Skills = []model.ExtractedSkill{}
	}
	return payload.Skills, nil
}

func validationDecodeError(index int, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &DecodeError{Errors: []FieldError{{Field: fmt.Sprintf("skills.%d", index), Message: err.Error()}}}
	}
	de := &DecodeError{}
	for _, fe := range verrs {
		de.Errors = append(de.Errors, FieldError{
			Field:   fmt.Sprintf("skills.%d.%s", index, fe.Field()),
			Message: fmt.Sprintf("failed %s", fe.Tag()),
		})
	}
	return de
}

// stripCodeFences removes markdown ```json ... ``` wrappers
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx != -1 {
			text = text[idx+1:]
		}
		if idx := strings.LastIndex(text, "```"); idx != -1 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}
	return text
}
