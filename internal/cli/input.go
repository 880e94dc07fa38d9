package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/hydrakit/entity"
	"github.com/kbukum/hydrakit/errors"
	"github.com/kbukum/hydrakit/hydra"
)

// resource is a raw JSON-LD object as printed and sent by hydractl.
type resource = map[string]any

func (a *app) service(collection string) (*entity.Service[resource, resource], error) {
	return entity.New[resource, resource](entity.FromClient(a.client), "/"+strings.Trim(collection, "/"))
}

// parseRef reads a numeric id ("12") or an IRI ("/books/12").
func parseRef(arg string) (hydra.Ref, error) {
	if strings.HasPrefix(arg, "/") {
		return hydra.IRI(arg), nil
	}
	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || n < 0 {
		return nil, errors.InvalidInput("id", fmt.Sprintf("%q is neither a numeric id nor an IRI", arg))
	}
	return hydra.ID(n), nil
}

// bodyFlags reads a JSON object from --data or --file ("-" is stdin).
type bodyFlags struct {
	data string
	file string
}

func (b *bodyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&b.data, "data", "d", "", "JSON object body")
	cmd.Flags().StringVarP(&b.file, "file", "f", "", "Read the JSON body from a file, - for stdin")
	cmd.MarkFlagsMutuallyExclusive("data", "file")
	cmd.MarkFlagsOneRequired("data", "file")
}

func (b *bodyFlags) read(stdin io.Reader) (resource, error) {
	raw := []byte(b.data)
	switch {
	case b.file == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		raw = data
	case b.file != "":
		data, err := os.ReadFile(b.file)
		if err != nil {
			return nil, fmt.Errorf("reading body: %w", err)
		}
		raw = data
	}

	var body resource
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, errors.DecodeFailed("request body", err)
	}
	if body == nil {
		return nil, errors.InvalidInput("body", "must be a JSON object")
	}
	return body, nil
}

// listFlags map onto hydra.ListOptions.
type listFlags struct {
	page         int
	perPage      int
	noPagination bool
	order        []string
	filters      []string
	properties   []string
}

func (l *listFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&l.page, "page", 1, "Page number, starting at 1")
	f.IntVar(&l.perPage, "per-page", 0, fmt.Sprintf("Items per page (%d when 0)", hydra.DefaultPageSize))
	f.BoolVar(&l.noPagination, "no-pagination", false, "Fetch the whole collection in one response")
	f.StringArrayVar(&l.order, "order", nil, "Sort by field, field:asc or field:desc (repeatable)")
	f.StringArrayVar(&l.filters, "filter", nil, "Filter as field=value; repeat a field for a list filter")
	f.StringArrayVar(&l.properties, "property", nil, "Only return this dotted property (repeatable)")
}

func (l *listFlags) options() (hydra.ListOptions, error) {
	if l.page < 1 {
		return hydra.ListOptions{}, errors.InvalidInput("page", "must be at least 1")
	}
	if l.perPage < 0 {
		return hydra.ListOptions{}, errors.InvalidInput("per-page", "must not be negative")
	}
	opts := hydra.ListOptions{
		NoPagination: l.noPagination,
		PageIndex:    l.page - 1,
		PageSize:     l.perPage,
		Properties:   l.properties,
	}
	for _, o := range l.order {
		s, err := parseSort(o)
		if err != nil {
			return hydra.ListOptions{}, err
		}
		opts.SortBy = append(opts.SortBy, s)
	}
	filters, err := parseFilters(l.filters)
	if err != nil {
		return hydra.ListOptions{}, err
	}
	opts.Filters = filters
	return opts, nil
}

func parseSort(arg string) (hydra.Sort, error) {
	field, dir, _ := strings.Cut(arg, ":")
	if field == "" {
		return hydra.Sort{}, errors.InvalidInput("order", fmt.Sprintf("missing field in %q", arg))
	}
	switch strings.ToLower(dir) {
	case "", "asc":
		return hydra.Sort{Field: field}, nil
	case "desc":
		return hydra.Sort{Field: field, Desc: true}, nil
	}
	return hydra.Sort{}, errors.InvalidInput("order", fmt.Sprintf("direction of %q must be asc or desc", arg))
}

// parseFilters keeps first-seen field order; a repeated field becomes a
// list filter.
func parseFilters(args []string) ([]hydra.Filter, error) {
	var order []string
	values := make(map[string][]string)
	for _, arg := range args {
		field, value, ok := strings.Cut(arg, "=")
		if !ok || field == "" {
			return nil, errors.InvalidInput("filter", fmt.Sprintf("%q: expected field=value", arg))
		}
		if _, seen := values[field]; !seen {
			order = append(order, field)
		}
		values[field] = append(values[field], value)
	}

	filters := make([]hydra.Filter, 0, len(order))
	for _, field := range order {
		vs := values[field]
		if len(vs) == 1 {
			filters = append(filters, hydra.Filter{Field: field, Value: vs[0]})
			continue
		}
		filters = append(filters, hydra.Filter{Field: field, Value: vs})
	}
	return filters, nil
}
