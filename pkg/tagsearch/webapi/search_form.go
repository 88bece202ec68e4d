package webapi

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/materials-commons/tagsearch/pkg/omerodb/omodel"
	"github.com/materials-commons/tagsearch/pkg/tagsearch"
)

// searchForm is a tag_image_search request after it has been read from a
// form-encoded or JSON body.
type searchForm struct {
	SelectedTags []string
	ExcludedTags []string
	Operation    string `validate:"omitempty,oneof=AND OR"`
	Views        map[omodel.ContainerType]string
}

// readSearchForm reads the body into url.Values so both encodings share one
// parser. Repeated keys may carry the [] suffix jQuery adds to arrays.
func readSearchForm(c echo.Context) (*searchForm, error) {
	var (
		values url.Values
		err    error
	)

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		values, err = jsonBodyValues(c)
	} else {
		values, err = c.FormParams()
	}

	if err != nil {
		return nil, err
	}

	form := &searchForm{
		SelectedTags: listValue(values, "selectedTags"),
		ExcludedTags: listValue(values, "excludedTags"),
		Operation:    strings.ToUpper(strings.TrimSpace(values.Get("operation"))),
		Views:        make(map[omodel.ContainerType]string),
	}

	for _, ct := range omodel.ContainerTypes {
		if v, ok := values[tagsearch.ViewField(ct)]; ok && len(v) > 0 {
			form.Views[ct] = v[0]
		}
	}

	return form, nil
}

func listValue(values url.Values, key string) []string {
	return append(values[key], values[key+"[]"]...)
}

func jsonBodyValues(c echo.Context) (url.Values, error) {
	var body map[string]any
	if err := c.Echo().JSONSerializer.Deserialize(c, &body); err != nil {
		return nil, err
	}

	values := url.Values{}
	for key, v := range body {
		switch val := v.(type) {
		case []any:
			for _, item := range val {
				values.Add(key, jsonScalar(item))
			}
		default:
			values.Add(key, jsonScalar(val))
		}
	}

	return values, nil
}

func jsonScalar(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// tagIDs parses tag ids, dropping values that are not integers.
func tagIDs(values []string) []int64 {
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		if id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			ids = append(ids, id)
		}
	}

	return ids
}

// hiddenTypes lists the container types whose view field was turned off.
// A missing view field leaves the type on.
func (f *searchForm) hiddenTypes() []omodel.ContainerType {
	var hidden []omodel.ContainerType
	for _, ct := range omodel.ContainerTypes {
		v, ok := f.Views[ct]
		if !ok {
			continue
		}

		switch strings.ToLower(strings.TrimSpace(v)) {
		case "false", "off", "0", "no":
			hidden = append(hidden, ct)
		}
	}

	return hidden
}
