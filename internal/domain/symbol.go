package domain

// SymbolMatch is one listing returned by a symbol search.
type SymbolMatch struct {
	Symbol   string
	Name     string
	Region   string
	Currency Currency
}
