// Package openapi renders an OpenAPI 3.0 document from the handler route table.
package openapi

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/krushiiq/apiserver/internal/handlers"
	"gopkg.in/yaml.v3"
)

const (
	Version    = "3.0.3"
	APIVersion = "1.0.0"
	Title      = "krushiiq API"

	bearerScheme   = "bearerAuth"
	errorSchemaRef = "#/components/schemas/ErrorResponse"
)

type Document struct {
	OpenAPI    string              `json:"openapi" yaml:"openapi"`
	Info       Info                `json:"info" yaml:"info"`
	Paths      map[string]PathItem `json:"paths" yaml:"paths"`
	Components Components          `json:"components" yaml:"components"`
}

type Info struct {
	Title   string `json:"title" yaml:"title"`
	Version string `json:"version" yaml:"version"`
}

// PathItem maps a lower-case HTTP method to its operation.
type PathItem map[string]*Operation

type Operation struct {
	Tags        []string              `json:"tags,omitempty" yaml:"tags,omitempty"`
	Summary     string                `json:"summary,omitempty" yaml:"summary,omitempty"`
	OperationID string                `json:"operationId" yaml:"operationId"`
	Parameters  []Parameter           `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *RequestBody          `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[string]Response   `json:"responses" yaml:"responses"`
	Security    []map[string][]string `json:"security,omitempty" yaml:"security,omitempty"`
}

type Parameter struct {
	Name        string  `json:"name" yaml:"name"`
	In          string  `json:"in" yaml:"in"`
	Required    bool    `json:"required" yaml:"required"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Schema      *Schema `json:"schema" yaml:"schema"`
}

type RequestBody struct {
	Required bool                 `json:"required" yaml:"required"`
	Content  map[string]MediaType `json:"content" yaml:"content"`
}

type Response struct {
	Description string               `json:"description" yaml:"description"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

type MediaType struct {
	Schema *Schema `json:"schema" yaml:"schema"`
}

type Schema struct {
	Ref         string             `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Type        string             `json:"type,omitempty" yaml:"type,omitempty"`
	Format      string             `json:"format,omitempty" yaml:"format,omitempty"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty" yaml:"enum,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required    []string           `json:"required,omitempty" yaml:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty" yaml:"items,omitempty"`
}

type Components struct {
	Schemas         map[string]*Schema        `json:"schemas" yaml:"schemas"`
	SecuritySchemes map[string]SecurityScheme `json:"securitySchemes" yaml:"securitySchemes"`
}

type SecurityScheme struct {
	Type         string `json:"type" yaml:"type"`
	Scheme       string `json:"scheme" yaml:"scheme"`
	BearerFormat string `json:"bearerFormat,omitempty" yaml:"bearerFormat,omitempty"`
}

// Build describes routes mounted under basePath.
func Build(routes []handlers.Route, basePath string) Document {
	doc := Document{
		OpenAPI: Version,
		Info:    Info{Title: Title, Version: APIVersion},
		Paths:   make(map[string]PathItem, len(routes)),
		Components: Components{
			Schemas: map[string]*Schema{
				"ErrorResponse": {
					Type: "object",
					Properties: map[string]*Schema{
						"status":  {Type: "string", Enum: []string{"error"}},
						"message": {Type: "string"},
					},
					Required: []string{"status", "message"},
				},
			},
			SecuritySchemes: map[string]SecurityScheme{
				bearerScheme: {Type: "http", Scheme: "bearer", BearerFormat: "JWT"},
			},
		},
	}

	for _, route := range routes {
		path := strings.TrimSuffix(basePath, "/") + route.Path
		item, ok := doc.Paths[path]
		if !ok {
			item = PathItem{}
			doc.Paths[path] = item
		}
		item[strings.ToLower(route.Method)] = operation(route)
	}
	return doc
}

func operation(route handlers.Route) *Operation {
	op := &Operation{
		Summary:     route.Summary,
		OperationID: operationID(route.Method, route.Path),
		Responses:   map[string]Response{},
	}
	if route.Tag != "" {
		op.Tags = []string{route.Tag}
	}

	for _, f := range route.Query {
		op.Parameters = append(op.Parameters, Parameter{
			Name:        f.Name,
			In:          "query",
			Required:    true,
			Description: f.Description,
			Schema:      &Schema{Type: f.Type},
		})
	}

	switch {
	case route.Upload != "":
		op.RequestBody = &RequestBody{
			Required: true,
			Content: map[string]MediaType{
				"multipart/form-data": {Schema: &Schema{
					Type: "object",
					Properties: map[string]*Schema{
						route.Upload: {Type: "string", Format: "binary"},
					},
					Required: []string{route.Upload},
				}},
			},
		}
	case len(route.Body) > 0:
		op.RequestBody = &RequestBody{
			Required: true,
			Content:  map[string]MediaType{"application/json": {Schema: bodySchema(route.Body)}},
		}
	}

	if route.Auth {
		op.Security = []map[string][]string{{bearerScheme: {}}}
	}

	op.Responses[strconv.Itoa(route.Status)] = Response{
		Description: http.StatusText(route.Status),
		Content:     map[string]MediaType{"application/json": {Schema: successSchema(route.Response)}},
	}
	for _, status := range route.Failures {
		op.Responses[strconv.Itoa(status)] = Response{
			Description: http.StatusText(status),
			Content:     map[string]MediaType{"application/json": {Schema: &Schema{Ref: errorSchemaRef}}},
		}
	}
	return op
}

func operationID(method, path string) string {
	parts := strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '-' })
	var b strings.Builder
	b.WriteString(strings.ToLower(method))
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

func bodySchema(fields []handlers.Field) *Schema {
	s := &Schema{Type: "object", Properties: make(map[string]*Schema, len(fields))}
	for _, f := range fields {
		s.Properties[f.Name] = &Schema{Type: f.Type, Description: f.Description}
		s.Required = append(s.Required, f.Name)
	}
	return s
}

func successSchema(payload any) *Schema {
	s := &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"status": {Type: "string", Enum: []string{"success"}},
		},
		Required: []string{"status"},
	}
	if payload != nil {
		s.Properties["data"] = SchemaOf(reflect.TypeOf(payload))
		s.Required = append(s.Required, "data")
	}
	return s
}

var timeType = reflect.TypeOf(time.Time{})

// SchemaOf derives a schema from a Go type using its json tags.
func SchemaOf(t reflect.Type) *Schema {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == timeType {
		return &Schema{Type: "string", Format: "date-time"}
	}

	switch t.Kind() {
	case reflect.String:
		return &Schema{Type: "string"}
	case reflect.Bool:
		return &Schema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}
	case reflect.Slice, reflect.Array:
		return &Schema{Type: "array", Items: SchemaOf(t.Elem())}
	case reflect.Map:
		return &Schema{Type: "object"}
	case reflect.Struct:
		s := &Schema{Type: "object", Properties: map[string]*Schema{}}
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			name, opts, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				continue
			}
			if name == "" {
				name = field.Name
			}
			s.Properties[name] = SchemaOf(field.Type)
			if !strings.Contains(opts, "omitempty") {
				s.Required = append(s.Required, name)
			}
		}
		return s
	default:
		return &Schema{}
	}
}

func (d Document) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

func (d Document) YAML() ([]byte, error) {
	return yaml.Marshal(d)
}
