package http

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/labstack/echo/v4"
)

//go:embed openapi.yaml
var openapiDocument []byte

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(openapiDocument)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}

// RequestValidator rejects requests that do not match doc before any
// handler runs. Paths the document does not describe pass through.
func RequestValidator(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("openapi router: %w", err)
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		MultiError:         true,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				if errors.Is(err, routers.ErrPathNotFound) || errors.Is(err, routers.ErrMethodNotAllowed) {
					return next(c)
				}
				return err
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return &RequestValidationError{Fields: openapiFields(err), Err: err}
			}
			return next(c)
		}
	}, nil
}

// RequestValidationError is a request rejected by the OpenAPI document.
type RequestValidationError struct {
	Fields []string
	Err    error
}

func (e *RequestValidationError) Error() string {
	return fmt.Sprintf("request validation: %v", e.Err)
}

func (e *RequestValidationError) Unwrap() error {
	return e.Err
}

func openapiFields(err error) []string {
	var fields []string
	seen := make(map[string]bool)
	add := func(f string) {
		if f != "" && !seen[f] {
			seen[f] = true
			fields = append(fields, f)
		}
	}

	var walk func(err error)
	walk = func(err error) {
		var multi openapi3.MultiError
		if errors.As(err, &multi) {
			for _, e := range multi {
				walk(e)
			}
			return
		}

		var reqErr *openapi3filter.RequestError
		if errors.As(err, &reqErr) {
			switch {
			case reqErr.Parameter != nil:
				add(reqErr.Parameter.Name)
			case reqErr.Err != nil:
				walk(reqErr.Err)
			default:
				add("body")
			}
			return
		}

		var schemaErr *openapi3.SchemaError
		if errors.As(err, &schemaErr) {
			path := schemaErr.JSONPointer()
			if len(path) == 0 {
				add("body")
				return
			}
			add(strings.Join(path, "."))
			return
		}

		var secErr *openapi3filter.SecurityRequirementsError
		if errors.As(err, &secErr) {
			add("authorization")
			return
		}
		add("body")
	}
	walk(err)

	if len(fields) == 0 {
		fields = []string{"body"}
	}
	return fields
}
