package backend

// Op es el operador de un filtro (mismo vocabulario que PostgREST).
type Op string

const (
	OpEq  Op = "eq"
	OpNeq Op = "neq"
	OpLt  Op = "lt"
	OpLte Op = "lte"
	OpGt  Op = "gt"
	OpGte Op = "gte"
)

type Filter struct {
	Column string
	Op     Op
	Value  any
}

type Order struct {
	Column string
	Desc   bool
}

// Embed pide la fila relacionada (via FK) junto a cada fila, con embeds anidados.
type Embed struct {
	Collection Collection
	Embed      []Embed
}

// Query describe una lectura completa: sin paginación, Limit 0 = todo.
type Query struct {
	Collection Collection
	Embed      []Embed
	Filters    []Filter
	Order      []Order
	Limit      int
}

func (q Query) Where(column string, op Op, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Column: column, Op: op, Value: value})
	return q
}

func (q Query) OrderBy(column string, desc bool) Query {
	q.Order = append(append([]Order(nil), q.Order...), Order{Column: column, Desc: desc})
	return q
}

func (q Query) WithLimit(n int) Query {
	q.Limit = n
	return q
}
