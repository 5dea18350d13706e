package vectorstore

// QueryOption narrows a Query.
type QueryOption func(*queryOptions)

type queryOptions struct {
	where map[string]string
}

// Where keeps only documents whose metadata key equals value.
func Where(key, value string) QueryOption {
	return func(o *queryOptions) {
		if o.where == nil {
			o.where = map[string]string{}
		}
		o.where[key] = value
	}
}

func (o queryOptions) matches(md map[string]string) bool {
	for k, v := range o.where {
		if md[k] != v {
			return false
		}
	}
	return true
}
