package repository

import "context"

// Stores gives access to every repository bound to the same connection or
// transaction.
type Stores interface {
	Identities() IdentityRepository
	Profiles() ProfileRepository
}

// UnitOfWork runs fn inside one transaction. fn's stores are only valid
// until RunInTx returns. Any error from fn rolls the transaction back and is
// returned unchanged; a failed commit is returned as an apperror.
//
// Outside RunInTx, the embedded Stores auto-commit each call.
type UnitOfWork interface {
	Stores
	RunInTx(ctx context.Context, fn func(tx Stores) error) error
}
