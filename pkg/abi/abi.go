package abi

import (
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// serialization types
const (
	SerializationJSON  = "json"
	SerializationBorsh = "borsh"
)

// errors
var (
	ErrInvalidABI       = errors.New("invalid ABI")
	ErrFunctionNotFound = errors.New("function is not found")
)

// ABI - contract ABI document
type ABI struct {
	SchemaVersion string    `json:"abi_schema_version"`
	Metadata      *Metadata `json:"metadata,omitempty"`
	Body          Body      `json:"abi"`
}

// Metadata -
type Metadata struct {
	Name    string   `json:"name,omitempty"`
	Version string   `json:"version,omitempty"`
	Authors []string `json:"authors,omitempty"`
}

// Body -
type Body struct {
	Functions []Function `json:"functions"`
	// RootSchema is the JSON schema `$ref` values of type schemas point into.
	RootSchema json.RawMessage `json:"root_schema,omitempty"`
}

// Function - one callable function declared by the contract
type Function struct {
	Name         string      `json:"name"`
	IsView       bool        `json:"is_view,omitempty"`
	IsInit       bool        `json:"is_init,omitempty"`
	IsPayable    bool        `json:"is_payable,omitempty"`
	IsPrivate    bool        `json:"is_private,omitempty"`
	Params       []Parameter `json:"params,omitempty"`
	Callbacks    []TypeInfo  `json:"callbacks,omitempty"`
	CallbacksVec *TypeInfo   `json:"callbacks_vec,omitempty"`
	Result       *TypeInfo   `json:"result,omitempty"`
}

// TypeInfo -
type TypeInfo struct {
	TypeSchema        json.RawMessage `json:"type_schema"`
	SerializationType string          `json:"serialization_type"`
}

// Parameter -
type Parameter struct {
	Name string `json:"name"`
	TypeInfo
}

// Parse decodes an ABI document and checks its structure.
func Parse(data []byte) (ABI, error) {
	var doc ABI
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, errors.Wrap(ErrInvalidABI, err.Error())
	}
	return doc, doc.Validate()
}

// Validate checks that function names are unique within the contract and parameter names are unique within every function.
func (a ABI) Validate() error {
	names := make(map[string]struct{}, len(a.Body.Functions))
	for i := range a.Body.Functions {
		fn := a.Body.Functions[i]
		if fn.Name == "" {
			return errors.Wrapf(ErrInvalidABI, "function #%d has empty name", i)
		}
		if _, ok := names[fn.Name]; ok {
			return errors.Wrapf(ErrInvalidABI, "duplicate function %s", fn.Name)
		}
		names[fn.Name] = struct{}{}

		params := make(map[string]struct{}, len(fn.Params))
		for j := range fn.Params {
			if fn.Params[j].Name == "" {
				return errors.Wrapf(ErrInvalidABI, "parameter #%d of %s has empty name", j, fn.Name)
			}
			if _, ok := params[fn.Params[j].Name]; ok {
				return errors.Wrapf(ErrInvalidABI, "duplicate parameter %s of %s", fn.Params[j].Name, fn.Name)
			}
			params[fn.Params[j].Name] = struct{}{}
		}
	}
	return nil
}

// Function - finds function by name
func (a ABI) Function(name string) (Function, error) {
	for i := range a.Body.Functions {
		if a.Body.Functions[i].Name == name {
			return a.Body.Functions[i], nil
		}
	}
	return Function{}, errors.Wrap(ErrFunctionNotFound, name)
}

// Views -
func (a ABI) Views() []Function {
	views := make([]Function, 0)
	for i := range a.Body.Functions {
		if a.Body.Functions[i].IsView {
			views = append(views, a.Body.Functions[i])
		}
	}
	return views
}

// ParamNames - parameter names in declared order
func (fn Function) ParamNames() []string {
	names := make([]string, len(fn.Params))
	for i := range fn.Params {
		names[i] = fn.Params[i].Name
	}
	return names
}

// Ref returns the `$ref` target of the type schema if the schema is a reference.
func (ti TypeInfo) Ref() (string, bool) {
	if len(ti.TypeSchema) == 0 {
		return "", false
	}
	var ref struct {
		Ref string `json:"$ref"`
	}
	if err := json.Unmarshal(ti.TypeSchema, &ref); err != nil {
		return "", false
	}
	return ref.Ref, ref.Ref != ""
}

// Definition resolves a `#/definitions/Name` reference against the root schema.
func (b Body) Definition(ref string) (json.RawMessage, error) {
	const prefix = "#/definitions/"
	if len(ref) <= len(prefix) || ref[:len(prefix)] != prefix {
		return nil, errors.Errorf("unsupported reference: %s", ref)
	}
	var root struct {
		Definitions map[string]json.RawMessage `json:"definitions"`
	}
	if err := json.Unmarshal(b.RootSchema, &root); err != nil {
		return nil, errors.Wrap(err, "root schema")
	}
	def, ok := root.Definitions[ref[len(prefix):]]
	if !ok {
		return nil, errors.Errorf("unknown definition: %s", ref)
	}
	return def, nil
}
