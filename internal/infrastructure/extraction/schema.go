package extraction

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"
)

// orderDocument is the JSON the model is asked to produce.
type orderDocument struct {
	Items        []orderLine `json:"items" jsonschema:"description=Every product line found in the order, in the order written"`
	CustomerName string      `json:"customer_name,omitempty" jsonschema:"minLength=1,description=Customer or business name when stated"`
	DeliveryDate string      `json:"delivery_date,omitempty" jsonschema:"format=date,description=Requested delivery date as YYYY-MM-DD"`
	Notes        string      `json:"notes,omitempty" jsonschema:"minLength=1,description=Free notes (delivery instructions, substitutions)"`
}

type orderLine struct {
	ProductName string      `json:"product_name" jsonschema:"minLength=1,description=Product as written by the customer; prefer the catalog spelling when obvious"`
	Quantity    json.Number `json:"quantity,omitempty" jsonschema:"exclusiveMinimum=0,description=Ordered amount; omit when not stated"`
	Unit        string      `json:"unit,omitempty" jsonschema:"enum=KG,enum=G,enum=PZ,enum=CASSA,enum=MAZZO,enum=CONF,enum=LT"`
}

var (
	schemaOnce sync.Once
	schemaMap  map[string]any
	schemaErr  error
)

// orderSchema returns the reflected JSON schema of orderDocument as a map,
// the shape both the Responses API and the validator accept.
func orderSchema() (map[string]any, error) {
	schemaOnce.Do(func() {
		reflector := jsonschema.Reflector{
			AllowAdditionalProperties: false,
			DoNotReference:            true,
			Anonymous:                 true,
		}
		b, err := json.Marshal(reflector.Reflect(&orderDocument{}))
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		if err := json.Unmarshal(b, &schemaMap); err != nil {
			schemaErr = fmt.Errorf("unmarshal schema to map: %w", err)
		}
	})
	return schemaMap, schemaErr
}
