package cqrs

// GetAccountQuery fetches a single account by its identifier.
type GetAccountQuery struct {
	ID int64
}

// ListAccountsQuery fetches every account. It has no filters.
type ListAccountsQuery struct{}
