package moviedb

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// newValidator builds the validator used to check response payloads at the
// network boundary. Paging metadata gets a struct-level check so the math
// invariants hold, not just the field shapes.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validatePageInfo, PageInfo{})
	return v
}

// validatePageInfo enforces totalPages = ceil(totalCount/pageSize) and
// hasNext = pageNumber < totalPages on every decoded envelope.
func validatePageInfo(sl validator.StructLevel) {
	p := sl.Current().Interface().(PageInfo)
	if p.TotalPages != PageCount(p.TotalCount, p.PageSize) {
		sl.ReportError(p.TotalPages, "TotalPages", "totalPages", "pagecount", "")
	}
	if p.HasNext != (p.PageNumber < p.TotalPages) {
		sl.ReportError(p.HasNext, "HasNext", "hasNext", "hasnext", "")
	}
}

// checkResponse validates a decoded payload and converts field failures
// into a ValidationError naming the offending fields.
func (c *Client) checkResponse(endpoint string, payload any) error {
	err := c.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		fields := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields = append(fields, fe.Namespace())
		}
		return &ValidationError{Endpoint: endpoint, Fields: fields, Err: err}
	}
	return &ValidationError{Endpoint: endpoint, Err: err}
}
