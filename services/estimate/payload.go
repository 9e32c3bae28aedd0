package estimate

import (
	"encoding/json"
	"fmt"
	"strings"

	"junkbutler/models"

	"github.com/xeipuuv/gojsonschema"
)

const payloadSchemaJSON = `{
  "type": "object",
  "required": ["item_details"],
  "properties": {
    "item_details": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "type": {
          "oneOf": [
            {"type": "string"},
            {"type": "array", "items": {"type": "string"}}
          ]
        },
        "quantity": {"type": "number"}
      }
    },
    "estimated_cost": {"type": "number"},
    "location": {"type": "string"},
    "access_notes": {"type": "string"},
    "requested_pickup_time": {"type": "string"},
    "contact_info": {
      "type": "object",
      "properties": {
        "name": {"type": "string"},
        "phone": {"type": "string"},
        "email": {"type": "string"}
      }
    },
    "photos_provided": {"type": "boolean"}
  }
}`

var payloadSchema = mustSchema(payloadSchemaJSON)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("estimate: payload schema: %v", err))
	}
	return s
}

// ExtractPayload looks for a JSON object between the first '{' and the last
// '}' of text. found reports a syntactically valid span; the returned prose
// then excludes it whether or not it matches the estimate schema. The payload
// is non-nil only when the span validates.
func ExtractPayload(text string) (payload *models.EstimatePayload, visible string, found bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, text, false
	}
	raw := text[start : end+1]
	if !json.Valid([]byte(raw)) {
		return nil, text, false
	}
	visible = visibleProse(text[:start] + text[end+1:])
	return validPayload(raw), visible, true
}

// validPayload decodes raw when it matches the estimate schema.
func validPayload(raw string) *models.EstimatePayload {
	result, err := payloadSchema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil || !result.Valid() {
		return nil
	}
	var p models.EstimatePayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil
	}
	return &p
}

// visibleProse drops the code fence a model wraps its JSON in.
func visibleProse(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// sessionFromPayload maps the assistant's payload onto the session. Photos
// and the resale choice stay as the customer gave them.
func sessionFromPayload(base models.EstimateSession, p *models.EstimatePayload) models.EstimateSession {
	s := base.Clone()

	items := models.EstimateSession{}
	for _, t := range p.ItemDetails.Type {
		items.AddItem(t)
	}
	if len(items.Items) > 0 {
		s.Items = items.Items
	}

	if p.ItemDetails.Quantity == 1 {
		s.Quantity = models.QuantitySingle
	} else {
		s.Quantity = models.QuantityMultiple
	}

	s.Price = p.EstimatedCost
	s.Location = strings.TrimSpace(p.Location)
	s.AccessNotes = strings.TrimSpace(p.AccessNotes)
	s.PickupTime = strings.TrimSpace(p.RequestedPickupTime)
	s.ContactInfo = models.ContactInfo{
		Name:  strings.TrimSpace(p.ContactInfo.Name),
		Phone: strings.TrimSpace(p.ContactInfo.Phone),
		Email: strings.TrimSpace(p.ContactInfo.Email),
	}
	return s
}
